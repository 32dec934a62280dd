//go:build integration

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pasteshare/pasteshare/pkg/pastestore/models"
)

// createPostgresStore starts a disposable PostgreSQL container and opens a
// store against it. Skipped when Docker is unavailable.
func createPostgresStore(t *testing.T) *GORMStore {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "pasteshare_test",
			"POSTGRES_USER":     "pasteshare_test",
			"POSTGRES_PASSWORD": "pasteshare_test",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
			wait.ForListeningPort("5432/tcp"),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("cannot start postgres container: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	store, err := New(&Config{
		Type: DatabaseTypePostgres,
		Postgres: PostgresConfig{
			Host:     host,
			Port:     port.Int(),
			User:     "pasteshare_test",
			Password: "pasteshare_test",
			Database: "pasteshare_test",
			SSLMode:  "disable",
		},
	})
	if err != nil {
		t.Fatalf("failed to open postgres store: %v", err)
	}
	return store
}

func TestPostgresStore(t *testing.T) {
	store := createPostgresStore(t)
	defer store.Close()
	ctx := context.Background()

	t.Run("create update roundtrip", func(t *testing.T) {
		created, err := store.CreatePaste(ctx, &models.Paste{
			ID:         "pg01",
			Title:      "pg paste",
			IsEditable: true,
		}, []models.BlockInput{
			{Content: "one"},
			{Content: "two"},
		})
		if err != nil {
			t.Fatalf("CreatePaste failed: %v", err)
		}
		if len(created.Blocks) != 2 {
			t.Fatalf("expected 2 blocks, got %d", len(created.Blocks))
		}

		updated, err := store.UpdatePaste(ctx, "pg01", PasteUpdate{
			Blocks: []models.BlockInput{{Content: "only"}},
		})
		if err != nil {
			t.Fatalf("UpdatePaste failed: %v", err)
		}
		if len(updated.Blocks) != 1 || updated.Blocks[0].Order != 0 {
			t.Errorf("expected single block with order 0, got %+v", updated.Blocks)
		}
	})

	t.Run("unique custom url mapping", func(t *testing.T) {
		alias := "pg-alias"
		if _, err := store.CreatePaste(ctx, &models.Paste{
			ID:        "pg02",
			Content:   "a",
			CustomURL: &alias,
		}, nil); err != nil {
			t.Fatalf("CreatePaste failed: %v", err)
		}

		_, err := store.CreatePaste(ctx, &models.Paste{
			ID:        "pg03",
			Content:   "b",
			CustomURL: &alias,
		}, nil)
		if !errors.Is(err, models.ErrCustomURLTaken) {
			t.Errorf("expected ErrCustomURLTaken, got %v", err)
		}
	})
}

//go:build integration

package api

import (
	"net/http/httptest"
	"testing"

	"github.com/pasteshare/pasteshare/pkg/pastestore/store"
	"github.com/pasteshare/pasteshare/pkg/upload"
)

func TestRouterSmoke(t *testing.T) {
	pasteStore, err := store.New(&store.Config{
		Type:   store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{Path: ":memory:"},
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer pasteStore.Close()

	uploads, err := upload.NewFilesystemStorage(upload.FilesystemConfig{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create upload storage: %v", err)
	}

	cfg := ServerConfig{}
	cfg.ApplyDefaults()
	router := NewRouter(pasteStore, uploads, nil, cfg)

	t.Run("liveness", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
		if rec.Code != 200 {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("readiness", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/health/ready", nil))
		if rec.Code != 200 {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("metrics disabled answers 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
		if rec.Code != 404 {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("unknown paste", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/pastes/missing", nil))
		if rec.Code != 404 {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

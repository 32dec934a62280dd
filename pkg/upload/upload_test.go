package upload

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func createTestStorage(t *testing.T) *FilesystemStorage {
	t.Helper()
	storage, err := NewFilesystemStorage(FilesystemConfig{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	return storage
}

func TestFilesystemStorage(t *testing.T) {
	storage := createTestStorage(t)
	ctx := context.Background()

	t.Run("put get roundtrip", func(t *testing.T) {
		body := "hello attachment"
		if err := storage.Put(ctx, "p1/f1", strings.NewReader(body), int64(len(body))); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		rc, err := storage.Get(ctx, "p1/f1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		defer rc.Close()

		got, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if string(got) != body {
			t.Errorf("expected %q, got %q", body, got)
		}
	})

	t.Run("missing object", func(t *testing.T) {
		_, err := storage.Get(ctx, "p1/nope")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		if err := storage.Put(ctx, "p2/f1", strings.NewReader("x"), 1); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if err := storage.Delete(ctx, "p2/f1"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if err := storage.Delete(ctx, "p2/f1"); err != nil {
			t.Errorf("second Delete failed: %v", err)
		}

		if _, err := storage.Get(ctx, "p2/f1"); !errors.Is(err, ErrNotFound) {
			t.Error("deleted object must be gone")
		}
	})

	t.Run("rejects path traversal", func(t *testing.T) {
		if err := storage.Put(ctx, "../escape", strings.NewReader("x"), 1); err == nil {
			t.Error("expected error for traversal key")
		}
		if _, err := storage.Get(ctx, "a/../../escape"); err == nil {
			t.Error("expected error for traversal key")
		}
	})
}

func TestNewSelectsBackend(t *testing.T) {
	storage, err := New(context.Background(), &Config{
		Backend:    BackendFilesystem,
		Filesystem: FilesystemConfig{Root: t.TempDir()},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := storage.(*FilesystemStorage); !ok {
		t.Errorf("expected filesystem backend, got %T", storage)
	}

	if _, err := New(context.Background(), &Config{Backend: "ftp"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestAllowedContentType(t *testing.T) {
	tests := []struct {
		mime string
		want bool
	}{
		{"text/plain; charset=utf-8", true},
		{"text/x-go", true},
		{"image/png", true},
		{"application/pdf", true},
		{"application/x-msdownload", false},
		{"video/mp4", false},
	}

	for _, tt := range tests {
		if got := AllowedContentType(tt.mime); got != tt.want {
			t.Errorf("AllowedContentType(%q) = %v, want %v", tt.mime, got, tt.want)
		}
	}
}

func TestDetectContentType(t *testing.T) {
	if mime := DetectContentType([]byte("plain words\n")); !strings.HasPrefix(mime, "text/plain") {
		t.Errorf("expected text/plain, got %q", mime)
	}

	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	if mime := DetectContentType(png); mime != "image/png" {
		t.Errorf("expected image/png, got %q", mime)
	}
}

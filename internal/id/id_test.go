package id

import (
	"context"
	"testing"
)

func TestGenerate(t *testing.T) {
	g := New(8)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := g.Generate(context.Background())
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if len(id) != 8 {
			t.Fatalf("expected length 8, got %d (%q)", len(id), id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestGenerateDefaults(t *testing.T) {
	g := New(0)
	id, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(id) != defaultLength {
		t.Errorf("expected default length %d, got %d", defaultLength, len(id))
	}
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(8).Generate(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}

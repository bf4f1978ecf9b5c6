package store

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/sandeepkv93/tasktrack/internal/storage"
)

func TestDraftRoundTrip(t *testing.T) {
	d := NewDraftStore(storage.NewMemoryKV(), zap.NewNop())
	ctx := context.Background()

	if got := d.Get(ctx); got != "" {
		t.Fatalf("expected empty draft, got %q", got)
	}
	if !d.Set(ctx, `half-typed "task"`) {
		t.Fatal("set failed")
	}
	if got := d.Get(ctx); got != `half-typed "task"` {
		t.Fatalf("unexpected draft: %q", got)
	}
	if !d.Clear(ctx) {
		t.Fatal("clear failed")
	}
	if got := d.Get(ctx); got != "" {
		t.Fatalf("expected empty draft after clear, got %q", got)
	}
}

func TestDraftDegradesOnFailure(t *testing.T) {
	kv := storage.NewMemoryKV()
	d := NewDraftStore(kv, nil)
	ctx := context.Background()

	if err := kv.Set(ctx, DraftKey, "{broken"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if got := d.Get(ctx); got != "" {
		t.Fatalf("expected empty draft for corrupt payload, got %q", got)
	}

	kv.Fail = errors.New("storage disabled")
	if d.Set(ctx, "x") || d.Clear(ctx) {
		t.Fatal("expected false on storage failure")
	}
	if got := d.Get(ctx); got != "" {
		t.Fatalf("expected empty draft on read failure, got %q", got)
	}
}

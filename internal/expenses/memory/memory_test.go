package memory

import (
	"context"
	"testing"

	"spendboard/internal/core"
)

func TestRepositoryInsertPrepends(t *testing.T) {
	ctx := context.Background()
	r := New()
	for _, id := range []string{"a", "b", "c"} {
		if err := r.Insert(ctx, core.Expense{ID: id}); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}
	items, _ := r.List(ctx)
	if len(items) != 3 || items[0].ID != "c" || items[2].ID != "a" {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	r := New()
	_ = r.Insert(ctx, core.Expense{ID: "a"})
	_ = r.Insert(ctx, core.Expense{ID: "b"})

	snapshot, _ := r.List(ctx)
	removed, err := r.Delete(ctx, "a")
	if err != nil || !removed {
		t.Fatalf("expected removal, got removed=%v err=%v", removed, err)
	}
	removed, err = r.Delete(ctx, "a")
	if err != nil || removed {
		t.Fatalf("second delete must be a no-op, got removed=%v err=%v", removed, err)
	}
	items, _ := r.List(ctx)
	if len(items) != 1 || items[0].ID != "b" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if n, err := r.Count(ctx); err != nil || n != 1 {
		t.Fatalf("Count = %d, %v; want 1", n, err)
	}
	if len(snapshot) != 2 || snapshot[1].ID != "a" {
		t.Fatalf("earlier List result was mutated: %+v", snapshot)
	}
}

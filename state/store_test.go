package state

import (
	"context"
	"testing"

	"reelforge/types"
)

func TestMemoryStoreSaveAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	job := &types.RenderJob{ID: "job-1", State: types.JobPending}
	if err := store.Save(ctx, job); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get(ctx, "job-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.State != types.JobPending {
		t.Fatalf("state = %s, want pending", got.State)
	}

	// Stored snapshot must not alias the caller's struct.
	job.State = types.JobReady
	got, _ = store.Get(ctx, "job-1")
	if got.State != types.JobPending {
		t.Fatal("store must keep a copy, not a reference")
	}
}

func TestMemoryStoreGetUnknown(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Get(context.Background(), "nope"); err != ErrJobNotFound {
		t.Fatalf("err = %v, want ErrJobNotFound", err)
	}
}

func TestMemoryStoreRejectsEmptyID(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Save(context.Background(), &types.RenderJob{}); err == nil {
		t.Fatal("expected error for job without ID")
	}
}

func TestMemoryStoreList(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := store.Save(ctx, &types.RenderJob{ID: id, State: types.JobReady}); err != nil {
			t.Fatalf("Save %s failed: %v", id, err)
		}
	}

	jobs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("listed %d jobs, want 3", len(jobs))
	}
}

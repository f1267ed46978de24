package syncer

import (
	"path/filepath"
	"testing"
)

func TestCheckpointSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	store := NewCheckpointStore(path, true)

	if _, ok, err := store.Load(); err != nil || ok {
		t.Fatalf("expected no checkpoint yet: ok=%v err=%v", ok, err)
	}

	if err := store.Save(19_000_000); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	cp, ok, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected checkpoint to exist")
	}
	if cp.LastSnapshotBlock != 19_000_000 {
		t.Fatalf("block mismatch: %d", cp.LastSnapshotBlock)
	}
	if cp.UpdatedAt == "" {
		t.Fatalf("updated_at not set")
	}
}

func TestCheckpointDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	store := NewCheckpointStore(path, false)

	if err := store.Save(42); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, ok, err := store.Load(); err != nil || ok {
		t.Fatalf("disabled store must report no checkpoint: ok=%v err=%v", ok, err)
	}
}

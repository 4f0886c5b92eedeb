package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/interview-assistant-team/interview-assistant/internal/usecase/live"
)

func TestMemorySnapshotStore_SetGet(t *testing.T) {
	store := NewMemorySnapshotStore(time.Minute)
	id := uuid.New()

	got, err := store.GetSnapshot(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil for unknown interview")
	}

	snap := live.Snapshot{
		Facial: live.ModalitySnapshot{Label: "happy", Confidence: 0.9, Stability: 0.8},
		Voice:  live.ModalitySnapshot{Label: "calm", Confidence: 0.7, Stability: 1.0},
	}
	if err := store.SetSnapshot(context.Background(), id, snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err = store.GetSnapshot(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || *got != snap {
		t.Fatalf("got %+v, want %+v", got, snap)
	}

	// Latest write wins
	snap.Facial.Label = "sad"
	store.SetSnapshot(context.Background(), id, snap)
	got, _ = store.GetSnapshot(context.Background(), id)
	if got.Facial.Label != "sad" {
		t.Fatalf("expected latest snapshot, got %+v", got)
	}
}

func TestMemorySnapshotStore_Expiry(t *testing.T) {
	store := NewMemorySnapshotStore(10 * time.Millisecond)
	id := uuid.New()

	store.SetSnapshot(context.Background(), id, live.Snapshot{})
	time.Sleep(20 * time.Millisecond)

	got, err := store.GetSnapshot(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatal("expected expired entry to read as missing")
	}
}

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adhruv/bms-events/internal/event"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	events := []event.Event{
		{
			Name:     "Comedy Night",
			Date:     "2026-02-22",
			Venue:    "Laugh Club",
			City:     "jaipur",
			Category: "Comedy",
			SourceURL: "https://x/events/comedy-night/et1",
			Status:   event.StatusUpcoming,
			LastSeen: time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC),
		},
		{
			Name:  "Indie Gig",
			Venue: "The Den",
			City:  "mumbai",
			SourceURL: "https://x/events/indie-gig/et2",
		},
	}

	if err := store.Save(ctx, events); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != len(events) {
		t.Fatalf("loaded %d events, want %d", len(got), len(events))
	}
	for i := range events {
		if !got[i].LastSeen.Equal(events[i].LastSeen) {
			t.Errorf("event %d LastSeen = %v, want %v", i, got[i].LastSeen, events[i].LastSeen)
		}
		got[i].LastSeen = events[i].LastSeen
		if got[i] != events[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], events[i])
		}
	}
}

func TestFileStoreLoadMissing(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "never-written.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if got != nil {
		t.Errorf("Load = %+v, want nil for missing snapshot", got)
	}
}

func TestFileStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, []byte("{truncated"), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := store.Load(context.Background()); err == nil {
		t.Error("Load on corrupt snapshot returned nil error")
	}
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "events.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := store.Save(context.Background(), nil); err != nil {
		t.Fatalf("Save into created directory: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("snapshot not written: %v", err)
	}
}

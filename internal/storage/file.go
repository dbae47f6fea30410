package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/adhruv/bms-events/internal/event"
)

const writeAttempts = 5

// FileStore keeps the full event set in a single JSON snapshot on disk.
// Writes retry with bounded exponential backoff: the snapshot file may
// be held open briefly by an external reader (spreadsheet sync, manual
// inspection), and a transient lock should not fail a scrape.
type FileStore struct {
	path string
}

type snapshot struct {
	Events    []event.Event `json:"events"`
	UpdatedAt string        `json:"updated_at"`
}

// NewFileStore creates the snapshot directory if needed. A leading ~/ in
// the path expands to the home directory.
func NewFileStore(path string) (*FileStore, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Load reads the snapshot. A missing file means an empty set.
func (s *FileStore) Load(ctx context.Context) ([]event.Event, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return snap.Events, nil
}

// Save writes the full set as an indented JSON snapshot.
func (s *FileStore) Save(ctx context.Context, events []event.Event) error {
	snap := snapshot{
		Events:    events,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), writeAttempts-1),
		ctx,
	)
	write := func() error {
		return os.WriteFile(s.path, data, 0o644)
	}
	if err := backoff.Retry(write, policy); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

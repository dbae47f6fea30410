package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adhruv/bms-events/internal/event"
)

// upsertBatchSize bounds one round trip; large cities can carry several
// hundred listings.
const upsertBatchSize = 200

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
	event_url  TEXT PRIMARY KEY,
	event_name TEXT NOT NULL,
	event_date TEXT NOT NULL DEFAULT '',
	venue      TEXT NOT NULL DEFAULT '',
	city       TEXT NOT NULL DEFAULT '',
	category   TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT 'upcoming',
	last_seen  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const upsertEvent = `
INSERT INTO events (event_url, event_name, event_date, venue, city, category, status, last_seen)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (event_url) DO UPDATE SET
	event_name = EXCLUDED.event_name,
	event_date = EXCLUDED.event_date,
	venue      = EXCLUDED.venue,
	city       = EXCLUDED.city,
	category   = EXCLUDED.category,
	status     = EXCLUDED.status,
	last_seen  = EXCLUDED.last_seen`

const selectEvents = `
SELECT event_url, event_name, event_date, venue, city, category, status, last_seen
FROM events ORDER BY last_seen DESC`

// PostgresStore persists events in a single table with the source URL as
// primary key, so Save is a pure upsert and concurrent readers never see
// a partially-cleared table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects and ensures the events table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, createEventsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensuring events table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Load reads the full persisted set.
func (s *PostgresStore) Load(ctx context.Context) ([]event.Event, error) {
	rows, err := s.pool.Query(ctx, selectEvents)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var ev event.Event
		var status string
		if err := rows.Scan(&ev.SourceURL, &ev.Name, &ev.Date, &ev.Venue, &ev.City, &ev.Category, &status, &ev.LastSeen); err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		ev.Status = event.Status(status)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading event rows: %w", err)
	}
	return events, nil
}

// Save upserts every record, batched to bound round trips.
func (s *PostgresStore) Save(ctx context.Context, events []event.Event) error {
	for start := 0; start < len(events); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(events) {
			end = len(events)
		}

		batch := &pgx.Batch{}
		for _, ev := range events[start:end] {
			batch.Queue(upsertEvent,
				event.NormalizeURL(ev.SourceURL),
				ev.Name, ev.Date, ev.Venue, ev.City, ev.Category,
				string(ev.Status), ev.LastSeen)
		}

		br := s.pool.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return fmt.Errorf("upserting events %d-%d: %w", start, end, err)
		}
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

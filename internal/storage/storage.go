package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/adhruv/bms-events/internal/config"
	"github.com/adhruv/bms-events/internal/event"
)

// Store persists the reconciled event set. Implementations upsert by
// source URL and never remove records they were not handed: the
// reconciliation step owns the full set, storage just makes it durable.
// Single-writer discipline is advisory; the scheduler runs cities
// sequentially so no two merges write concurrently.
type Store interface {
	Load(ctx context.Context) ([]event.Event, error)
	Save(ctx context.Context, events []event.Event) error
	Close() error
}

// Open builds the backend named by the configuration.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileStore(cfg.Path)
	case "postgres":
		return NewPostgresStore(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Seed writes a small sample set into an empty store so the HTTP API has
// data to serve before the first scrape completes. A non-empty store is
// left untouched.
func Seed(ctx context.Context, store Store, now time.Time) error {
	existing, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading store for seed: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	sample := []event.Event{
		{
			Name:      "Jaipur Culture Fest",
			Date:      now.AddDate(0, 0, 5).Format("2006-01-02"),
			Venue:     "Albert Hall Lawn",
			City:      "jaipur",
			Category:  "festival",
			SourceURL: "https://in.bookmyshow.com/events/jaipur-culture-fest/ET10000001",
		},
		{
			Name:      "Mumbai Night Run",
			Date:      now.AddDate(0, 0, 9).Format("2006-01-02"),
			Venue:     "BKC Grounds",
			City:      "mumbai",
			Category:  "sports",
			SourceURL: "https://in.bookmyshow.com/events/mumbai-night-run/ET10000002",
		},
		{
			Name:      "Delhi Food Carnival",
			Date:      now.AddDate(0, 0, 12).Format("2006-01-02"),
			Venue:     "NSIC Grounds",
			City:      "delhi",
			Category:  "food",
			SourceURL: "https://in.bookmyshow.com/events/delhi-food-carnival/ET10000003",
		},
		{
			Name:      "Chandigarh Art Walk",
			Date:      now.AddDate(0, 0, -2).Format("2006-01-02"),
			Venue:     "Sector 17 Plaza",
			City:      "chandigarh",
			Category:  "art",
			SourceURL: "https://in.bookmyshow.com/events/chandigarh-art-walk/ET10000004",
		},
		{
			Name:      "Lucknow Comedy Night",
			Date:      now.AddDate(0, 0, 3).Format("2006-01-02"),
			Venue:     "Gomti Nagar Studio",
			City:      "lucknow",
			Category:  "comedy",
			SourceURL: "https://in.bookmyshow.com/events/lucknow-comedy-night/ET10000005",
		},
	}
	for i := range sample {
		sample[i].LastSeen = now
		sample[i].Refresh(now)
	}

	return store.Save(ctx, sample)
}

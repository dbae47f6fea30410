package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adhruv/bms-events/internal/event"
	"github.com/adhruv/bms-events/internal/logger"
	"github.com/adhruv/bms-events/internal/notifier"
	"github.com/adhruv/bms-events/internal/scraper"
	"github.com/adhruv/bms-events/internal/storage"
)

// Source marks where a refresh result came from: a live scrape, or the
// previously persisted data when the scrape failed.
const (
	SourceScrape = "scrape"
	SourceCache  = "cache"
)

// Result is the outcome of refreshing one city.
type Result struct {
	Events []event.Event // the refreshed city's records, statuses current
	Source string        // "scrape" or "cache"
	Added  []event.Event // records first observed by this refresh
}

// Tracker ties the scraper, the reconciliation step, storage, and the
// notifier together. One tracker serves all cities, one city at a time.
type Tracker struct {
	scraper  *scraper.Scraper
	store    storage.Store
	notifier notifier.Notifier
	now      func() time.Time
}

// New wires a tracker. notifier may be nil; now defaults to time.Now.
func New(sc *scraper.Scraper, store storage.Store, n notifier.Notifier, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{scraper: sc, store: store, notifier: n, now: now}
}

// RefreshCity scrapes one city and reconciles the batch into the
// persisted set.
//
// Failure behavior: a scrape failure degrades to the last persisted data
// for that city (Source "cache", no error; the caller still gets
// something to serve). A storage write failure is returned as the error,
// but the Result still carries the reconciled in-memory set so the
// caller can serve it and retry the write without re-scraping.
func (t *Tracker) RefreshCity(ctx context.Context, city string) (Result, error) {
	city = strings.ToLower(strings.TrimSpace(city))
	now := t.now()

	batch, err := t.scraper.ScrapeCity(ctx, city)
	if err != nil {
		logger.Error("scrape failed, serving cached data", logger.Fields{"city": city}, err)
		cached, loadErr := t.cachedCity(ctx, city, now)
		if loadErr != nil {
			return Result{Source: SourceCache}, fmt.Errorf("scrape failed and cache unavailable: %w", loadErr)
		}
		return Result{Events: cached, Source: SourceCache}, nil
	}

	prior, err := t.store.Load(ctx)
	if err != nil {
		return Result{Source: SourceScrape}, fmt.Errorf("loading persisted events: %w", err)
	}

	rec := event.Reconcile(prior, batch, now)
	result := Result{
		Events: filterCity(rec.Events, city),
		Source: SourceScrape,
		Added:  rec.Added,
	}

	if err := t.store.Save(ctx, rec.Events); err != nil {
		// The reconciled set is still in the result; only durability failed.
		return result, fmt.Errorf("persisting events: %w", err)
	}

	logger.Info("city refreshed", logger.Fields{
		"city":    city,
		"scraped": len(batch),
		"added":   len(rec.Added),
		"updated": rec.Updated,
		"total":   len(rec.Events),
	})

	if t.notifier != nil && len(rec.Added) > 0 {
		if err := t.notifier.Notify(rec.Added); err != nil {
			logger.Error("announcing new events", logger.Fields{"city": city, "count": len(rec.Added)}, err)
		}
	}

	return result, nil
}

// Events returns persisted records, optionally filtered by city, with
// statuses recomputed against now (stored status is never trusted).
func (t *Tracker) Events(ctx context.Context, city string) ([]event.Event, error) {
	all, err := t.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading persisted events: %w", err)
	}
	now := t.now()
	for i := range all {
		all[i].Refresh(now)
	}
	if city == "" {
		return all, nil
	}
	return filterCity(all, city), nil
}

func (t *Tracker) cachedCity(ctx context.Context, city string, now time.Time) ([]event.Event, error) {
	all, err := t.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		all[i].Refresh(now)
	}
	return filterCity(all, city), nil
}

func filterCity(events []event.Event, city string) []event.Event {
	var out []event.Event
	for _, ev := range events {
		if strings.EqualFold(ev.City, city) {
			out = append(out, ev)
		}
	}
	return out
}

// Package schedule runs the periodic all-cities refresh. Cities are
// processed strictly sequentially, since the rendering surface is a
// single exclusively-owned resource, and a failure for one city never
// aborts the remaining cities.
package schedule

import (
	"context"
	"time"

	"github.com/adhruv/bms-events/internal/logger"
	"github.com/adhruv/bms-events/internal/tracker"
)

// Runner refreshes every configured city on a fixed interval.
type Runner struct {
	tracker  *tracker.Tracker
	cities   []string
	interval time.Duration
}

// NewRunner builds a runner over the given city list.
func NewRunner(t *tracker.Tracker, cities []string, interval time.Duration) *Runner {
	return &Runner{tracker: t, cities: cities, interval: interval}
}

// Start refreshes all cities once, then again every interval, until the
// context is cancelled. It blocks.
func (r *Runner) Start(ctx context.Context) {
	logger.Info("refresh schedule started", logger.Fields{
		"cities":   len(r.cities),
		"interval": r.interval.String(),
	})

	r.refreshAll(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("refresh schedule stopped", nil)
			return
		case <-ticker.C:
			r.refreshAll(ctx)
		}
	}
}

// refreshAll walks the city list in order. Per-city errors are logged
// and the loop continues: city A failing must not skip city B.
func (r *Runner) refreshAll(ctx context.Context) {
	for _, city := range r.cities {
		if ctx.Err() != nil {
			return
		}
		if _, err := r.tracker.RefreshCity(ctx, city); err != nil {
			logger.Error("scheduled refresh failed", logger.Fields{"city": city}, err)
		}
	}
}

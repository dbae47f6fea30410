package browser

import (
	"context"
	"time"
)

// Clock abstracts time for the stabilization loop so tests can drive a
// scripted surface without real sleeps.
type Clock interface {
	Now() time.Time
	// Sleep pauses for d or until the context is cancelled.
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

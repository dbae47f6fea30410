package browser

import (
	"context"
	"time"

	"github.com/adhruv/bms-events/internal/logger"
)

// The listing surface is backed by infinite-scroll lazy loading with no
// "load complete" signal. Fixed-delay scrolling under- or over-waits
// depending on network conditions, so convergence is detected
// empirically: keep scrolling until the count of discoverable listing
// links stops growing, then run one confirmation pass to reject
// false-stable plateaus.

// Config tunes the scroll/stabilize loop. All values are injected by the
// caller; zero values fall back to the listed defaults.
type Config struct {
	StepPx        int           // scroll increment, default 120
	StepDelay     time.Duration // pause between increments, default 80ms
	SettleWait    time.Duration // pause before each link-count sample, default 2s
	ConfirmWait   time.Duration // wait during the confirmation pass, default 10s
	FinalWait     time.Duration // settle time after confirmed stability, default 2s
	StableRounds  int           // identical consecutive samples before confirming, default 2
	MaxScrollTime time.Duration // wall-clock ceiling for the whole loop, default 90s
}

func (c Config) withDefaults() Config {
	if c.StepPx <= 0 {
		c.StepPx = 120
	}
	if c.StepDelay <= 0 {
		c.StepDelay = 80 * time.Millisecond
	}
	if c.SettleWait <= 0 {
		c.SettleWait = 2 * time.Second
	}
	if c.ConfirmWait <= 0 {
		c.ConfirmWait = 10 * time.Second
	}
	if c.FinalWait <= 0 {
		c.FinalWait = 2 * time.Second
	}
	if c.StableRounds <= 0 {
		c.StableRounds = 2
	}
	if c.MaxScrollTime <= 0 {
		c.MaxScrollTime = 90 * time.Second
	}
	return c
}

type phase int

const (
	phaseScrolling phase = iota
	phaseSettling
	phaseConfirming
)

// Result reports how the stabilization loop ended. A timed-out loop is
// not a failure: extraction proceeds with whatever was loaded.
type Result struct {
	Links    int
	Rounds   int
	Elapsed  time.Duration
	TimedOut bool
}

// Stabilizer drives a surface's scroll position until the set of
// discoverable listing links stops growing, bounded by a hard wall-clock
// ceiling.
type Stabilizer struct {
	cfg   Config
	clock Clock
}

// NewStabilizer builds a stabilizer with the given tuning and clock.
func NewStabilizer(cfg Config, clock Clock) *Stabilizer {
	if clock == nil {
		clock = SystemClock()
	}
	return &Stabilizer{cfg: cfg.withDefaults(), clock: clock}
}

// Run scrolls the surface in bounded chunks, sampling the link count
// after each settle period. When the count has been identical for
// StableRounds consecutive samples, one confirmation pass (back to top,
// then a full scroll to bottom with a long wait) must reproduce the
// count before the loop declares stability; otherwise counting restarts.
func (s *Stabilizer) Run(ctx context.Context, surf Surface) (Result, error) {
	cfg := s.cfg
	start := s.clock.Now()

	var res Result
	prev := -1
	run := 0
	state := phaseScrolling

	for {
		if err := ctx.Err(); err != nil {
			res.Elapsed = s.clock.Now().Sub(start)
			return res, err
		}
		if elapsed := s.clock.Now().Sub(start); elapsed > cfg.MaxScrollTime {
			logger.Warn("scroll ceiling reached, proceeding with partial page", logger.Fields{
				"links":   res.Links,
				"elapsed": elapsed.String(),
			})
			res.Elapsed = elapsed
			res.TimedOut = true
			return res, nil
		}

		switch state {
		case phaseScrolling:
			if err := s.scrollChunk(ctx, surf); err != nil {
				res.Elapsed = s.clock.Now().Sub(start)
				return res, err
			}
			state = phaseSettling

		case phaseSettling:
			if err := s.clock.Sleep(ctx, cfg.SettleWait); err != nil {
				res.Elapsed = s.clock.Now().Sub(start)
				return res, err
			}
			count, err := surf.LinkCount(ctx)
			if err != nil {
				res.Elapsed = s.clock.Now().Sub(start)
				return res, err
			}
			res.Rounds++
			if count == prev {
				run++
			} else {
				run = 1
				prev = count
			}
			res.Links = count
			if run >= cfg.StableRounds {
				state = phaseConfirming
			} else {
				state = phaseScrolling
			}

		case phaseConfirming:
			count, err := s.confirm(ctx, surf)
			if err != nil {
				res.Elapsed = s.clock.Now().Sub(start)
				return res, err
			}
			res.Rounds++
			if count == prev {
				res.Links = count
				_ = s.clock.Sleep(ctx, cfg.FinalWait)
				res.Elapsed = s.clock.Now().Sub(start)
				return res, nil
			}
			logger.Debug("confirmation pass found more links, continuing", logger.Fields{
				"before": prev,
				"after":  count,
			})
			prev = count
			run = 1
			res.Links = count
			state = phaseScrolling
		}
	}
}

// scrollChunk advances the scroll position by up to two viewports toward
// the bottom of the currently-known content height, in StepPx increments.
// The height is re-read every chunk because it grows as content loads.
func (s *Stabilizer) scrollChunk(ctx context.Context, surf Surface) error {
	height, err := surf.ContentHeight(ctx)
	if err != nil {
		return err
	}
	viewport, err := surf.ViewportHeight(ctx)
	if err != nil {
		return err
	}
	pos, err := surf.ScrollPosition(ctx)
	if err != nil {
		return err
	}

	target := height - viewport
	chunkEnd := pos + 2*viewport
	if chunkEnd > target {
		chunkEnd = target
	}
	for pos < chunkEnd {
		pos += s.cfg.StepPx
		if pos > chunkEnd {
			pos = chunkEnd
		}
		if err := surf.ScrollTo(ctx, pos); err != nil {
			return err
		}
		if err := s.clock.Sleep(ctx, s.cfg.StepDelay); err != nil {
			return err
		}
	}
	return nil
}

// confirm returns to the top, then scrolls straight to the full bottom
// and waits the long confirmation interval before recounting. Late
// lazy-loads that a plateau hid show up here as a higher count.
func (s *Stabilizer) confirm(ctx context.Context, surf Surface) (int, error) {
	if err := surf.ScrollTo(ctx, 0); err != nil {
		return 0, err
	}
	if err := s.clock.Sleep(ctx, time.Second); err != nil {
		return 0, err
	}
	height, err := surf.ContentHeight(ctx)
	if err != nil {
		return 0, err
	}
	if err := surf.ScrollTo(ctx, height); err != nil {
		return 0, err
	}
	if err := s.clock.Sleep(ctx, s.cfg.ConfirmWait); err != nil {
		return 0, err
	}
	return surf.LinkCount(ctx)
}

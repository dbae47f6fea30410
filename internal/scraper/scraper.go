package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/adhruv/bms-events/internal/browser"
	"github.com/adhruv/bms-events/internal/event"
	"github.com/adhruv/bms-events/internal/extract"
	"github.com/adhruv/bms-events/internal/logger"
)

// Config parameterizes one scrape run. Nothing here is hard-coded into
// the pipeline; the caller injects all timeouts and tuning.
type Config struct {
	BaseURL         string
	PageLoadTimeout time.Duration
	InitialWait     time.Duration
	Stabilize       browser.Config
}

// CityURL builds the explore page URL for a city.
func (c Config) CityURL(city string) string {
	return fmt.Sprintf("%s/explore/events-%s", strings.TrimSuffix(c.BaseURL, "/"), city)
}

// Scraper runs the full extraction pipeline for one city at a time:
// stabilize the rendered page, run the three extraction strategies
// against its final state, merge their candidates, and normalize dates.
type Scraper struct {
	factory browser.Factory
	clock   browser.Clock
	cfg     Config
	metrics *logger.Metrics
}

// New wires a scraper. A nil clock means the system clock.
func New(factory browser.Factory, clock browser.Clock, cfg Config) *Scraper {
	if clock == nil {
		clock = browser.SystemClock()
	}
	return &Scraper{
		factory: factory,
		clock:   clock,
		cfg:     cfg,
		metrics: logger.NewMetrics(),
	}
}

// Metrics exposes per-run extraction counters.
func (s *Scraper) Metrics() *logger.Metrics { return s.metrics }

// ScrapeCity scrapes one city's listings. A render or navigation failure
// is returned as an error (the caller falls back to persisted data); a
// failure inside a single extraction strategy is logged and skipped so
// the other strategies still contribute.
func (s *Scraper) ScrapeCity(ctx context.Context, city string) ([]event.Event, error) {
	city = strings.ToLower(strings.TrimSpace(city))
	if city == "" {
		return nil, fmt.Errorf("city is required")
	}

	surf, err := s.factory.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening rendering surface: %w", err)
	}
	defer surf.Close()

	url := s.cfg.CityURL(city)
	logger.Info("scraping city", logger.Fields{"city": city, "url": url})

	navCtx := ctx
	if s.cfg.PageLoadTimeout > 0 {
		var cancel context.CancelFunc
		navCtx, cancel = context.WithTimeout(ctx, s.cfg.PageLoadTimeout)
		defer cancel()
	}
	if err := surf.Navigate(navCtx, url); err != nil {
		return nil, fmt.Errorf("loading %s: %w", url, err)
	}
	if err := s.clock.Sleep(ctx, s.cfg.InitialWait); err != nil {
		return nil, err
	}

	started := s.clock.Now()
	stab := browser.NewStabilizer(s.cfg.Stabilize, s.clock)
	res, err := stab.Run(ctx, surf)
	if err != nil {
		return nil, fmt.Errorf("stabilizing page: %w", err)
	}
	s.metrics.RecordTiming("scrape.stabilize", s.clock.Now().Sub(started))
	logger.Info("page stable", logger.Fields{
		"city":      city,
		"links":     res.Links,
		"rounds":    res.Rounds,
		"timed_out": res.TimedOut,
	})

	structured, embedded := s.extractStructured(ctx, surf, city)
	domText := s.extractDOMText(ctx, surf, city)

	merged := extract.Merge(structured, embedded, domText)
	now := s.clock.Now()

	events := make([]event.Event, 0, len(merged))
	withDate := 0
	for _, c := range merged {
		ev := event.Event{
			Name:      c.Name,
			Date:      event.NormalizeDate(c.DateText, now),
			Venue:     c.Venue,
			City:      city,
			Category:  c.Category,
			SourceURL: c.URL,
		}
		ev.Refresh(now)
		if ev.Date != "" {
			withDate++
		}
		events = append(events, ev)
	}

	s.metrics.AddCounter("scrape.events", int64(len(events)))
	logger.Info("extraction complete", logger.Fields{
		"city":            city,
		"events":          len(events),
		"with_date":       withDate,
		"structured_data": len(structured),
		"embedded_state":  len(embedded),
		"dom_text":        len(domText),
	})
	return events, nil
}

// extractStructured runs strategies A and B over the serialized DOM.
// Either strategy failing leaves the DOM-text strategy to carry the run.
func (s *Scraper) extractStructured(ctx context.Context, surf browser.Surface, city string) (structured, embedded []extract.Candidate) {
	html, err := surf.HTML(ctx)
	if err != nil {
		logger.Warn("reading page HTML, skipping structured strategies", logger.Fields{"city": city, "error": err.Error()})
		return nil, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger.Warn("parsing page HTML, skipping structured strategies", logger.Fields{"city": city, "error": err.Error()})
		return nil, nil
	}
	return extract.StructuredData(doc), extract.EmbeddedState(doc)
}

// extractDOMText runs strategy C over the rendered listing anchors.
func (s *Scraper) extractDOMText(ctx context.Context, surf browser.Surface, city string) []extract.Candidate {
	links, err := surf.Links(ctx)
	if err != nil {
		logger.Warn("enumerating listing links, skipping DOM-text strategy", logger.Fields{"city": city, "error": err.Error()})
		return nil
	}
	return extract.DOMText(links, city, s.cfg.BaseURL)
}

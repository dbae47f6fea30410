package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/adhruv/bms-events/internal/event"
)

type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
)

func timeNow() time.Time { return time.Now() }

// cityResult is one row of the scrape summary.
type cityResult struct {
	City   string `json:"city"`
	Source string `json:"source"`
	Events int    `json:"events"`
	Added  int    `json:"added"`
}

func writeScrapeOutput(w io.Writer, results []cityResult, format outputFormat) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"results": results})
	}

	for _, r := range results {
		fmt.Fprintf(w, "%-12s %-7s %4d events  %d new\n", r.City, r.Source, r.Events, r.Added)
	}
	return nil
}

func writeListOutput(w io.Writer, events []event.Event, format outputFormat) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"events": events})
	}

	if len(events) == 0 {
		fmt.Fprintln(w, "No events.")
		return nil
	}
	for _, ev := range events {
		date := ev.Date
		if date == "" {
			date = "unknown"
		}
		fmt.Fprintf(w, "[%s] %-10s %s @ %s (%s)\n", ev.Status, date, ev.Name, ev.Venue, ev.City)
	}
	fmt.Fprintf(w, "\n%d events\n", len(events))
	return nil
}

// filterEvents applies optional city and status filters.
func filterEvents(events []event.Event, city, status string) []event.Event {
	if city == "" && status == "" {
		return events
	}
	var out []event.Event
	for _, ev := range events {
		if city != "" && !strings.EqualFold(ev.City, city) {
			continue
		}
		if status != "" && !strings.EqualFold(string(ev.Status), status) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

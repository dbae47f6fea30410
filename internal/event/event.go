package event

import (
	"strings"
	"time"
)

// Status classifies an event's date relative to the current date.
// Status is always derived from Date at read or merge time; a value
// loaded from storage is never trusted, because storage may be stale.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusToday    Status = "today"
	StatusExpired  Status = "expired"
)

// Event represents one tracked city listing.
//
// SourceURL is the sole stable identity: two records with the same
// normalized URL describe the same real-world listing and are merged,
// never duplicated. Records are never deleted; once the date passes
// the derived status becomes expired but the record stays in storage.
type Event struct {
	Name      string    `json:"event_name"`
	Date      string    `json:"event_date"` // YYYY-MM-DD, or "" when unknown
	Venue     string    `json:"venue"`
	City      string    `json:"city"`
	Category  string    `json:"category,omitempty"`
	SourceURL string    `json:"event_url"`
	Status    Status    `json:"status"`
	LastSeen  time.Time `json:"last_seen"`
}

// NormalizeURL produces the identity key for a listing URL.
func NormalizeURL(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ComputeStatus derives the temporal status of an ISO date against now.
// Unknown or unparseable dates count as upcoming: absence of evidence
// is not evidence of expiry.
func ComputeStatus(isoDate string, now time.Time) Status {
	if isoDate == "" {
		return StatusUpcoming
	}
	d, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return StatusUpcoming
	}
	today := now.UTC().Truncate(24 * time.Hour)
	switch {
	case d.Equal(today):
		return StatusToday
	case d.Before(today):
		return StatusExpired
	default:
		return StatusUpcoming
	}
}

// Refresh recomputes the derived status from the record's date.
func (e *Event) Refresh(now time.Time) {
	e.Status = ComputeStatus(e.Date, now)
}

package extract

import "testing"

func TestMergeFillsFromLowerTrust(t *testing.T) {
	structured := []Candidate{
		{Name: "Comedy Night", DateText: "2026-02-22", URL: "https://x/events/c/ET1", Source: SourceStructuredData},
	}
	domText := []Candidate{
		{Name: "Comedy Night", DateText: "Thu, 22 Feb", Venue: "City Hall", Category: "Comedy",
			URL: "https://x/events/c/ET1", Source: SourceDOMText},
	}

	got := Merge(structured, domText)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	c := got[0]
	// The structured date wins over the raw card text.
	if c.DateText != "2026-02-22" {
		t.Errorf("date = %q, want structured-data value kept", c.DateText)
	}
	// Fields the structured entry lacked are filled from the card.
	if c.Venue != "City Hall" {
		t.Errorf("venue = %q, want filled from DOM text", c.Venue)
	}
	if c.Category != "Comedy" {
		t.Errorf("category = %q, want filled from DOM text", c.Category)
	}
	if c.Source != SourceStructuredData {
		t.Errorf("source = %v, want highest trust retained", c.Source)
	}
}

func TestMergeTrustOrderIgnoresBatchOrder(t *testing.T) {
	domText := []Candidate{
		{Name: "Stale Name", Venue: "Hall", URL: "https://x/events/c/ET1", Source: SourceDOMText},
	}
	state := []Candidate{
		{Name: "Fresh Name", Venue: "Hall", URL: "https://x/events/c/ET1", Source: SourceEmbeddedState},
	}

	// Lower trust passed first must still lose.
	got := Merge(domText, state)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if got[0].Name != "Fresh Name" {
		t.Errorf("name = %q, want embedded-state value", got[0].Name)
	}
}

func TestMergeDedupesCaseInsensitive(t *testing.T) {
	a := []Candidate{{Name: "Show", Venue: "Hall", URL: "https://x/events/s/ET9", Source: SourceStructuredData}}
	b := []Candidate{{Name: "Show", Venue: "Hall", URL: "https://x/events/s/et9", Source: SourceDOMText}}

	got := Merge(a, b)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want URL-case duplicates collapsed to 1", len(got))
	}
}

func TestMergeDropsIncomplete(t *testing.T) {
	batch := []Candidate{
		{Name: "Complete", Venue: "Hall", URL: "https://x/events/a/ET1", Source: SourceDOMText},
		{Name: "No Venue", URL: "https://x/events/b/ET2", Source: SourceDOMText},
		{Venue: "No Name Hall", URL: "https://x/events/c/ET3", Source: SourceDOMText},
		{Name: "No URL", Venue: "Hall"},
	}

	got := Merge(batch)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want only the complete one", len(got))
	}
	if got[0].Name != "Complete" {
		t.Errorf("survivor = %+v, want the complete candidate", got[0])
	}
}

func TestMergeGatesAfterFilling(t *testing.T) {
	// Strategy A alone lacks a venue; strategy C supplies it. The merged
	// candidate must survive the completeness gate.
	structured := []Candidate{
		{Name: "Comedy Night", URL: "https://x/events/c/ET1", Source: SourceStructuredData},
	}
	domText := []Candidate{
		{Name: "Comedy Night", Venue: "City Hall", URL: "https://x/events/c/ET1", Source: SourceDOMText},
	}

	got := Merge(structured, domText)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1 after cross-strategy fill", len(got))
	}
	if got[0].Venue != "City Hall" {
		t.Errorf("venue = %q, want City Hall", got[0].Venue)
	}
}

func TestMergeEmpty(t *testing.T) {
	if got := Merge(); len(got) != 0 {
		t.Errorf("Merge() = %+v, want empty", got)
	}
	if got := Merge(nil, nil); len(got) != 0 {
		t.Errorf("Merge(nil, nil) = %+v, want empty", got)
	}
}

// Package scraper orchestrates one city scrape: open a rendering
// surface, stabilize the infinite-scroll listing page, run the three
// extraction strategies against its final state, merge and quality-gate
// their candidates, and normalize dates into canonical records.
package scraper

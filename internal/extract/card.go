package extract

import (
	"regexp"
	"strings"
)

// Card-text classification. A rendered listing card carries no field
// labels, so each line after the name is assigned by pattern, first
// match wins, each field captured at most once per card.

var (
	digitsExpr     = regexp.MustCompile(`^\d+$`)
	multiVenueExpr = regexp.MustCompile(`(?i)^multiple venues$`)
	categoryExpr   = regexp.MustCompile(`^[a-zA-Z\s&\-/]+$`)

	dateLineExprs = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\d{1,2}\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)`),
		regexp.MustCompile(`(?i)(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\s+\d{1,2}`),
		regexp.MustCompile(`(?i)onwards?$`),
		regexp.MustCompile(`(?i)^(mon|tue|wed|thu|fri|sat|sun)[a-z]*,`),
		regexp.MustCompile(`(?i)^today$`),
		regexp.MustCompile(`(?i)^tomorrow$`),
		regexp.MustCompile(`(?i)^multiple\s+dates?$`),
	}
)

// looksLikeDate reports whether a line matches any of the date surface
// shapes the normalizer accepts.
func looksLikeDate(line string) bool {
	for _, expr := range dateLineExprs {
		if expr.MatchString(line) {
			return true
		}
	}
	return false
}

// isPriceLine matches ticket price and ticket count lines, which carry
// no event information.
func isPriceLine(line string) bool {
	return strings.HasPrefix(line, "₹") ||
		strings.EqualFold(line, "FREE") ||
		digitsExpr.MatchString(line)
}

// ParseCard classifies the ordered, non-empty text lines of one listing
// card. The first line is always the name. Lines matching no rule are
// discarded. The caller supplies the scrape city so that the city name
// rendered on a card is not mistaken for a category.
func ParseCard(lines []string, city string) Candidate {
	c := Candidate{Source: SourceDOMText}
	if len(lines) == 0 {
		return c
	}
	c.Name = strings.TrimSpace(lines[0])

	var dateFound, venueFound bool
	for _, raw := range lines[1:] {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if isPriceLine(line) {
			continue
		}

		if !dateFound && looksLikeDate(line) {
			c.DateText = line
			dateFound = true
			continue
		}

		// "Venue: City" convention.
		if !venueFound && strings.Contains(line, ":") {
			venuePart := strings.TrimSpace(strings.SplitN(line, ":", 2)[0])
			if len(venuePart) >= 3 && len(venuePart) <= 100 {
				c.Venue = venuePart
				venueFound = true
				continue
			}
		}

		if !venueFound && multiVenueExpr.MatchString(line) {
			c.Venue = "Multiple Venues"
			venueFound = true
			continue
		}

		if c.Category == "" && len(line) >= 3 && len(line) <= 60 &&
			categoryExpr.MatchString(line) && !strings.EqualFold(line, city) {
			c.Category = line
		}
	}

	return c
}

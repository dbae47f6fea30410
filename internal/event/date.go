package event

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The same physical date shows up on listing cards in at least half a
// dozen textual shapes ("Thu, 20 Feb", "20 Feb onwards", "Feb 20, 2026",
// "20 Feb - 22 Feb", "Today", ...). NormalizeDate reduces all of them to
// YYYY-MM-DD, trying stricter patterns before the generic fallback so
// ambiguous fragments are not misparsed.

const isoLayout = "2006-01-02"

var months = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

var (
	isoExpr      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	noDateExpr   = regexp.MustCompile(`(?i)^(multiple\s+dates?|date\s+tba)$`)
	weekdayExpr  = regexp.MustCompile(`(?i)^(mon|tue|wed|thu|fri|sat|sun)[a-z]*,?\s*`)
	onwardsExpr  = regexp.MustCompile(`(?i)\s+onwards?$`)
	rangeExpr    = regexp.MustCompile(`(?i)\s*[-–—]\s*|\s+to\s+`)
	dayFirstExpr = regexp.MustCompile(`(?i)^(\d{1,2})\s+([a-z]+)(?:\s+(\d{4}))?$`)
	dayLastExpr  = regexp.MustCompile(`(?i)^([a-z]+)\s+(\d{1,2})(?:\s+(\d{4}))?$`)
)

// fallbackLayouts are tried last, after the pattern-based rules.
var fallbackLayouts = []string{
	"2 January 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"02/01/2006",
	"2006/01/02",
}

// NormalizeDate converts a free-text date expression to YYYY-MM-DD, or ""
// when the text carries no recoverable date. It is pure: "today",
// "tomorrow" and missing years resolve against the supplied now.
// It never guesses; anything unrecognized maps to "".
func NormalizeDate(text string, now time.Time) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	// Already canonical.
	if isoExpr.MatchString(text) {
		return text
	}

	// Relative words.
	switch strings.ToLower(text) {
	case "today":
		return now.UTC().Format(isoLayout)
	case "tomorrow":
		return now.UTC().AddDate(0, 0, 1).Format(isoLayout)
	}

	// Explicit no-date phrases.
	if noDateExpr.MatchString(text) {
		return ""
	}

	// Strip decorative noise: leading weekday, trailing "onwards".
	text = weekdayExpr.ReplaceAllString(text, "")
	text = strings.TrimSpace(onwardsExpr.ReplaceAllString(text, ""))

	// Ranges reduce to the opening date: only the start of a run
	// matters for status computation.
	if parts := rangeExpr.Split(text, 2); len(parts) > 1 {
		text = strings.TrimSpace(parts[0])
	}

	text = strings.ReplaceAll(text, ",", "")
	text = strings.Join(strings.Fields(text), " ")

	// "DD Month [YYYY]"
	if m := dayFirstExpr.FindStringSubmatch(text); m != nil {
		if iso, ok := buildISO(m[1], m[2], m[3], now); ok {
			return iso
		}
	}

	// "Month DD [YYYY]"
	if m := dayLastExpr.FindStringSubmatch(text); m != nil {
		if iso, ok := buildISO(m[2], m[1], m[3], now); ok {
			return iso
		}
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, text); err == nil && t.Year() > 2000 {
			return t.Format(isoLayout)
		}
	}

	return ""
}

// buildISO assembles a canonical date from day/month/year fragments.
// A missing year resolves to the current year; if that puts the date
// more than 60 days in the past, it rolls forward one year (December
// listings scraped the following January).
func buildISO(dayStr, monthStr, yearStr string, now time.Time) (string, bool) {
	month, ok := months[strings.ToLower(monthStr)]
	if !ok {
		return "", false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return "", false
	}

	year := 0
	if yearStr != "" {
		year, err = strconv.Atoi(yearStr)
		if err != nil {
			return "", false
		}
	}

	y := year
	if y == 0 {
		y = now.UTC().Year()
	}
	d := time.Date(y, month, day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != month {
		// time.Date normalized an impossible day like "31 Feb".
		return "", false
	}

	if year == 0 && now.UTC().Sub(d) > 60*24*time.Hour {
		d = d.AddDate(1, 0, 0)
	}

	return d.Format(isoLayout), true
}

package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy B: the page embeds its application state as a single large
// JSON assignment. The payload layout is unversioned and shifts between
// deploys, so instead of addressing fixed paths we walk the whole tree
// and collect every nested object that structurally resembles a listing.

const stateMarker = "window.__INITIAL_STATE__"

// EmbeddedState locates the application-state assignment and returns a
// candidate for every event-shaped object in the decoded payload.
func EmbeddedState(doc *goquery.Document) []Candidate {
	var out []Candidate
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		idx := strings.Index(text, stateMarker)
		if idx < 0 {
			return true
		}
		raw, ok := jsonObjectAfter(text[idx:])
		if !ok {
			return false
		}
		var payload any
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return false
		}
		walkState(payload, &out)
		return false // one state payload per page
	})
	return out
}

// jsonObjectAfter extracts the first balanced {...} literal in s. The
// scan is string-aware so braces inside quoted values don't end it.
func jsonObjectAfter(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func walkState(node any, out *[]Candidate) {
	switch v := node.(type) {
	case []any:
		for _, item := range v {
			walkState(item, out)
		}
	case map[string]any:
		if c, ok := stateEvent(v); ok {
			*out = append(*out, c)
		}
		for _, item := range v {
			walkState(item, out)
		}
	}
}

// stateEvent reports whether a state object structurally resembles a
// listing: a name, a start date, and a detail URL, with or without an
// explicit type tag.
func stateEvent(node map[string]any) (Candidate, bool) {
	name := firstString(node, "name", "title", "eventName")
	date := firstString(node, "startDate", "dateString", "eventDate")
	url := firstString(node, "url", "eventUrl")
	if name == "" || date == "" || url == "" {
		return Candidate{}, false
	}

	c := Candidate{
		Source:   SourceEmbeddedState,
		Name:     name,
		DateText: date,
		URL:      url,
	}
	if venue, ok := node["venue"].(map[string]any); ok {
		c.Venue = firstString(venue, "name", "title")
	} else {
		c.Venue = firstString(node, "venueName", "venue")
	}
	c.Category = firstString(node, "genre", "category")
	return c, true
}

// firstString returns the first key whose value is a non-empty string.
func firstString(node map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := node[key].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

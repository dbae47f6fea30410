package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy A: JSON-LD structured-data blocks. Highest trust: fields are
// already labeled by the page. Event entities appear either directly, in
// a @graph container, or wrapped in ItemList elements.

// StructuredData scans every application/ld+json block in the document
// and returns a candidate for each event-shaped entity. A malformed
// block is skipped; it never aborts the batch.
func StructuredData(doc *goquery.Document) []Candidate {
	var out []Candidate
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		var payload any
		if err := json.Unmarshal([]byte(sel.Text()), &payload); err != nil {
			return
		}
		for _, node := range ldEntities(payload) {
			if c, ok := ldEvent(node); ok {
				out = append(out, c)
			}
		}
	})
	return out
}

// ldEntities flattens a JSON-LD payload into entity maps, unwrapping
// top-level arrays, @graph containers, and ItemList elements.
func ldEntities(payload any) []map[string]any {
	switch v := payload.(type) {
	case []any:
		var nodes []map[string]any
		for _, item := range v {
			nodes = append(nodes, ldEntities(item)...)
		}
		return nodes
	case map[string]any:
		nodes := []map[string]any{v}
		if graph, ok := v["@graph"].([]any); ok {
			for _, item := range graph {
				nodes = append(nodes, ldEntities(item)...)
			}
		}
		if items, ok := v["itemListElement"].([]any); ok {
			for _, item := range items {
				m, ok := item.(map[string]any)
				if !ok {
					continue
				}
				if inner, ok := m["item"]; ok {
					nodes = append(nodes, ldEntities(inner)...)
				} else {
					nodes = append(nodes, m)
				}
			}
		}
		return nodes
	default:
		return nil
	}
}

// ldEvent converts one JSON-LD entity into a candidate if its @type is
// event-shaped and it carries a URL.
func ldEvent(node map[string]any) (Candidate, bool) {
	if !strings.Contains(strings.ToLower(nodeType(node)), "event") {
		return Candidate{}, false
	}

	c := Candidate{
		Source:   SourceStructuredData,
		Name:     stringField(node, "name"),
		DateText: stringField(node, "startDate"),
		URL:      stringField(node, "url"),
	}
	if loc, ok := node["location"].(map[string]any); ok {
		c.Venue = stringField(loc, "name")
	}
	c.Category = stringField(node, "eventType")
	if c.Category == "" {
		c.Category = stringField(node, "genre")
	}

	if c.URL == "" {
		return Candidate{}, false
	}
	return c, true
}

// nodeType resolves @type, which may be a string or an array of strings.
func nodeType(node map[string]any) string {
	switch t := node["@type"].(type) {
	case string:
		return t
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				return s
			}
		}
	}
	return ""
}

func stringField(node map[string]any, key string) string {
	s, _ := node[key].(string)
	return strings.TrimSpace(s)
}

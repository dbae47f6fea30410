package extract

import (
	"encoding/base64"
	"net/url"
	"regexp"
	"strings"
)

// Strategy C: rendered card text. Lowest trust, since there are no field
// labels at all, but the only strategy guaranteed to cover every rendered card,
// including listings the structured sources omit.

var (
	detailURLExpr = regexp.MustCompile(`(?i)/ET\d+`)
	overlayExpr   = regexp.MustCompile(`l-text,ie-([A-Za-z0-9+/=]+)`)
)

// CardLink is one listing anchor captured from the rendered page.
type CardLink struct {
	Href     string `json:"href"`
	Text     string `json:"text"`      // rendered inner text of the card
	ImageSrc string `json:"image_src"` // first card image, may carry a date overlay
}

// DOMText classifies the rendered text of every listing-detail anchor.
// Anchors whose target doesn't match the detail URL pattern are skipped,
// as are repeat anchors for the same listing. Cards failing the quality
// gate (no name or no venue) are dropped here: venueless cards are
// overwhelmingly promotional banners, not real listings.
func DOMText(links []CardLink, city, baseURL string) []Candidate {
	var out []Candidate
	seen := make(map[string]struct{}, len(links))

	for _, link := range links {
		href := strings.TrimSpace(link.Href)
		if href == "" || !detailURLExpr.MatchString(href) {
			continue
		}

		full := href
		if !strings.HasPrefix(full, "http") {
			full = strings.TrimSuffix(baseURL, "/") + href
		}
		key := strings.ToLower(full)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		lines := cardLines(link.Text)
		if len(lines) == 0 {
			continue
		}

		c := ParseCard(lines, city)
		c.URL = full

		// The image overlay, when present, is the city-specific date;
		// the card text may show the whole tour range instead.
		if d := ImageOverlayDate(link.ImageSrc); d != "" {
			c.DateText = d
		}

		if c.Name == "" || c.Venue == "" {
			continue
		}
		out = append(out, c)
	}

	return out
}

// cardLines splits rendered card text into trimmed, non-empty lines.
func cardLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// ImageOverlayDate decodes the date text the image CDN renders onto a
// card image. The URL carries an l-text,ie-<base64> overlay parameter
// whose decoded value is a date, e.g. ie-U2F0LCAyOCBNYXI= for
// "Sat, 28 Mar". Returns "" when the URL has no overlay or the decoded
// text doesn't look like a date.
func ImageOverlayDate(src string) string {
	if src == "" {
		return ""
	}
	decoded, err := url.QueryUnescape(src)
	if err != nil {
		decoded = src
	}
	m := overlayExpr.FindStringSubmatch(decoded)
	if m == nil {
		return ""
	}
	raw, err := base64.StdEncoding.DecodeString(m[1])
	if err != nil {
		return ""
	}
	text := strings.TrimSpace(string(raw))
	if !looksLikeDate(text) {
		return ""
	}
	return text
}

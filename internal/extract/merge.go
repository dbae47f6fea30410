package extract

import (
	"sort"
	"strings"
)

// Merge combines the strategies' candidate batches into one deduplicated
// batch for a single scrape run. Identity is the normalized URL. When the
// same listing appears in several strategies, the highest-trust strategy
// contributes every field it has non-empty; lower-trust strategies fill
// only fields still empty. A candidate that still lacks a name or a venue
// after merging across all strategies is dropped.
func Merge(batches ...[]Candidate) []Candidate {
	var all []Candidate
	for _, batch := range batches {
		all = append(all, batch...)
	}
	// Stable sort by trust so higher-trust fields land first while
	// preserving page order within each strategy.
	sort.SliceStable(all, func(i, j int) bool { return all[i].Source < all[j].Source })

	index := make(map[string]int)
	var merged []Candidate
	for _, c := range all {
		key := strings.ToLower(strings.TrimSpace(c.URL))
		if key == "" {
			continue
		}
		if i, ok := index[key]; ok {
			fillEmpty(&merged[i], c)
			continue
		}
		index[key] = len(merged)
		merged = append(merged, c)
	}

	out := merged[:0]
	for _, c := range merged {
		if c.Name == "" || c.Venue == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// fillEmpty copies fields from a lower-trust candidate only into slots
// still empty after higher-trust strategies.
func fillEmpty(dst *Candidate, src Candidate) {
	if dst.Name == "" {
		dst.Name = src.Name
	}
	if dst.DateText == "" {
		dst.DateText = src.DateText
	}
	if dst.Venue == "" {
		dst.Venue = src.Venue
	}
	if dst.Category == "" {
		dst.Category = src.Category
	}
}

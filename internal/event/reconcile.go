package event

import "time"

// ReconcileResult describes the outcome of merging one scrape batch into
// the previously persisted set.
type ReconcileResult struct {
	Events  []Event // the full new persisted set, statuses recomputed
	Added   []Event // records first observed this run
	Updated int     // existing records that gained or changed a field
}

// Reconcile merges a freshly extracted batch into the prior persisted set.
//
// Identity is the normalized source URL. Incoming non-empty fields
// overwrite the stored record; empty incoming values never clear detail
// captured by an earlier, higher-fidelity scrape. Prior records absent
// from the batch are retained unchanged: a scrape of one city must not
// touch other cities' records, and a listing merely not re-observed this
// run is not evidence it was removed.
func Reconcile(prior []Event, batch []Event, now time.Time) ReconcileResult {
	merged := make([]Event, len(prior))
	copy(merged, prior)

	index := make(map[string]int, len(merged))
	for i := range merged {
		index[NormalizeURL(merged[i].SourceURL)] = i
	}

	var res ReconcileResult
	for _, in := range batch {
		key := NormalizeURL(in.SourceURL)
		if key == "" {
			continue
		}
		if i, ok := index[key]; ok {
			if overlay(&merged[i], in) {
				res.Updated++
			}
			merged[i].LastSeen = now
			continue
		}
		in.LastSeen = now
		merged = append(merged, in)
		index[key] = len(merged) - 1
		res.Added = append(res.Added, in)
	}

	// Status is derived, never authoritative in storage.
	for i := range merged {
		merged[i].Refresh(now)
	}
	for i := range res.Added {
		res.Added[i].Refresh(now)
	}

	res.Events = merged
	return res
}

// overlay copies non-empty incoming fields onto dst and reports whether
// anything changed.
func overlay(dst *Event, in Event) bool {
	changed := false
	set := func(field *string, v string) {
		if v != "" && v != *field {
			*field = v
			changed = true
		}
	}
	set(&dst.Name, in.Name)
	set(&dst.Date, in.Date)
	set(&dst.Venue, in.Venue)
	set(&dst.City, in.City)
	set(&dst.Category, in.Category)
	return changed
}

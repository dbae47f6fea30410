// Package event defines the canonical listing record, date normalization,
// derived temporal status, and batch-against-store reconciliation.
//
// A record's identity is its source URL: the same URL seen by different
// extraction strategies, or on different runs, always refers to the same
// real-world listing. The date field is either a canonical YYYY-MM-DD
// string or "" for unknown, never a partially-parsed fragment.
package event

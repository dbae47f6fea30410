// Package extract recovers candidate listing records from a rendered
// explore page using three independent strategies: JSON-LD structured
// data, the embedded application-state payload, and heuristic
// classification of rendered card text. The strategies are independently
// fallible; Merge combines their output by trust order into one
// deduplicated, quality-gated batch per scrape.
package extract

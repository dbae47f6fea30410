package extract

// Source identifies which extraction strategy produced a candidate.
// The ordering is the trust order: lower values win field conflicts
// when candidates for the same listing are merged.
type Source int

const (
	SourceStructuredData Source = iota // JSON-LD blocks; fields labeled by the page
	SourceEmbeddedState                // application-state payload; shape inferred
	SourceDOMText                      // rendered card text; fully heuristic
)

func (s Source) String() string {
	switch s {
	case SourceStructuredData:
		return "structured-data"
	case SourceEmbeddedState:
		return "embedded-state"
	case SourceDOMText:
		return "dom-text"
	}
	return "unknown"
}

// Candidate is an unvalidated, possibly-incomplete record produced by one
// extraction strategy before merging and quality-gating. DateText is kept
// raw here; normalization happens after the merge.
type Candidate struct {
	Name     string
	DateText string
	Venue    string
	Category string
	URL      string
	Source   Source
}

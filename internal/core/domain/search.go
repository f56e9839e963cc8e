package domain

// Status is the outcome of one source in one aggregation round.
type Status string

// Source outcomes.
const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusTimeout Status = "timeout"
	StatusSkipped Status = "skipped"
)

// SourceStatus reports how one source behaved during a search.
// Built fresh for every call and never persisted.
type SourceStatus struct {
	// Name is the source tag, "database" for the local store or "cache".
	Name SourceTag `json:"name"`

	// Status is the outcome.
	Status Status `json:"status"`

	// Count is the number of records the source produced.
	Count int `json:"count"`

	// DurationMs is the elapsed time in milliseconds.
	DurationMs int64 `json:"duration_ms"`

	// Error holds the failure message for error and timeout outcomes.
	Error string `json:"error,omitempty"`
}

// SearchResult is returned by text and barcode searches.
type SearchResult struct {
	// Foods are the merged, deduplicated and ranked records.
	Foods []Food `json:"foods"`

	// Sources lists the local store first, then each adapter in
	// invocation order.
	Sources []SourceStatus `json:"sources"`

	// FromCache is true when the foods were served from the result cache.
	FromCache bool `json:"from_cache"`
}

// StatusOf returns the status entry for the named source.
func (r *SearchResult) StatusOf(name SourceTag) (SourceStatus, bool) {
	for _, s := range r.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return SourceStatus{}, false
}

package domain

// ReportState is a step of one report generation.
type ReportState string

const (
	StateReceived    ReportState = "RECEIVED"
	StateKeyComputed ReportState = "KEY_COMPUTED"
	StateCacheHit    ReportState = "CACHE_HIT"
	StateCacheMiss   ReportState = "CACHE_MISS"
	StateBuilding    ReportState = "BUILDING"
	StateAggregating ReportState = "AGGREGATING"
	StateRendering   ReportState = "RENDERING"
	StateCached      ReportState = "CACHED"
	StateServed      ReportState = "SERVED"
	StateFailed      ReportState = "FAILED"
)

// A miss may still be served from the cache when a concurrent build of the
// same key finished first.
var reportTransitions = map[ReportState][]ReportState{
	StateReceived:    {StateKeyComputed},
	StateKeyComputed: {StateCacheHit, StateCacheMiss},
	StateCacheHit:    {StateServed},
	StateCacheMiss:   {StateBuilding, StateCacheHit},
	StateBuilding:    {StateAggregating},
	StateAggregating: {StateRendering},
	StateRendering:   {StateCached},
	StateCached:      {StateServed},
}

// IsTerminal reports whether no transition leaves the state.
func (s ReportState) IsTerminal() bool {
	return s == StateServed || s == StateFailed
}

// CanTransition reports whether next may follow s. Any non-terminal state may fail.
func (s ReportState) CanTransition(next ReportState) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StateFailed {
		return true
	}
	for _, allowed := range reportTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

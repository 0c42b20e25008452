package proximity

// RejectReason explains why an occurrence of term A produced no match.
type RejectReason int

const (
	// RejectNoCandidate means no word-bounded term B follows term A.
	RejectNoCandidate RejectReason = iota
	// RejectGapExceeded means the nearest term B is farther than the gap limit.
	RejectGapExceeded
)

func (r RejectReason) String() string {
	if r == RejectGapExceeded {
		return "gap_exceeded"
	}
	return "no_candidate"
}

// Tracer observes a search at fixed points. It never influences the result.
// Implementations must be safe for concurrent use when the engine runs with
// more than one worker.
type Tracer interface {
	// CandidateFound fires for every raw occurrence of a term, before the boundary check.
	CandidateFound(term string, pos int)
	// BoundaryChecked reports the boundary classifier verdict for an occurrence.
	BoundaryChecked(term string, pos int, ok bool)
	// MatchAccepted fires for each match handed to the collector.
	MatchAccepted(m Match)
	// MatchRejected fires when a term A occurrence at start yields no match.
	// candidate is the nearest term B offset, or -1 when there is none.
	MatchRejected(start, candidate, gap int, reason RejectReason)
}

// NopTracer ignores every event.
type NopTracer struct{}

func (NopTracer) CandidateFound(string, int) {}
func (NopTracer) BoundaryChecked(string, int, bool) {}
func (NopTracer) MatchAccepted(Match) {}
func (NopTracer) MatchRejected(int, int, int, RejectReason) {}

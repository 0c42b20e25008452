// Package proximity finds pairs of literal terms that occur close to each other in a text.
//
// A search looks for every word-bounded occurrence of term A that is followed, within a gap
// limit, by a word-bounded occurrence of term B. The gap is measured either in characters
// (bytes) or in whole words between the two terms. The nearest qualifying B wins; results
// are ordered by the start of A and capped at a configurable maximum.
//
// The package holds no state across calls. An Engine is immutable after New and may be
// shared between goroutines.
package proximity

import (
	"fmt"
	"strings"
)

// GapMetric selects how the distance between term A and term B is measured.
type GapMetric int

const (
	// CharacterCount measures the gap as the number of bytes between the end of A and the start of B.
	CharacterCount GapMetric = iota
	// WordCount measures the gap as the number of word gaps between A and B.
	WordCount
)

func (m GapMetric) String() string {
	switch m {
	case CharacterCount:
		return "chars"
	case WordCount:
		return "words"
	default:
		return fmt.Sprintf("GapMetric(%d)", int(m))
	}
}

// ParseGapMetric parses "chars" or "words" (and a few spellings of each).
func ParseGapMetric(s string) (GapMetric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "chars", "char", "characters", "character":
		return CharacterCount, nil
	case "words", "word":
		return WordCount, nil
	}
	return 0, invalidArgument("gap_metric", fmt.Sprintf("unknown gap metric %q (want chars or words)", s))
}

// Request is a single proximity search.
type Request struct {
	// Text is searched as raw bytes; match offsets are byte offsets into it.
	Text []byte
	// TermA must occur first; TermB must follow it within the gap limit.
	TermA string
	TermB string
	// GapLimit is the largest accepted gap, in the unit selected by Metric.
	GapLimit int
	// CaseInsensitive folds ASCII letters in the text and both terms.
	CaseInsensitive bool
	Metric          GapMetric
}

// Match pairs one occurrence of term A with the nearest qualifying occurrence of term B.
type Match struct {
	// Start is the offset of term A.
	Start int `json:"start"`
	// Span runs from the start of term A to the end of term B.
	Span int `json:"span"`
	// Gap is the measured proximity in the request's metric.
	Gap int `json:"gap"`
}

// End returns the offset just past term B.
func (m Match) End() int { return m.Start + m.Span }

// Status tells whether a result is complete or was cut short.
type Status int

const (
	// StatusComplete means every occurrence of term A was examined.
	StatusComplete Status = iota
	// StatusCapReached means the result holds exactly MaxMatches matches and
	// later occurrences of term A were not examined.
	StatusCapReached
	// StatusResourceExhausted means the memory budget ran out. The matches
	// collected up to that point are returned in order.
	StatusResourceExhausted
)

func (s Status) String() string {
	switch s {
	case StatusComplete:
		return "complete"
	case StatusCapReached:
		return "cap_reached"
	case StatusResourceExhausted:
		return "resource_exhausted"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Err returns ErrResourceExhausted for StatusResourceExhausted and nil otherwise.
// Hitting the match cap is not an error.
func (s Status) Err() error {
	if s == StatusResourceExhausted {
		return ErrResourceExhausted
	}
	return nil
}

// MarshalText renders the status by name so JSON output stays readable.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Result is the outcome of one search.
type Result struct {
	Matches []Match `json:"matches"`
	Status  Status  `json:"status"`
}

// Truncated reports whether the search stopped before examining every occurrence of term A.
func (r *Result) Truncated() bool { return r.Status != StatusComplete }

// Package ahocorasick provides an automaton-backed term matcher for the proximity kernel.
// It wraps the petar-dambovaliev/aho-corasick library; patterns reach it already case-folded.
package ahocorasick

import (
	"errors"
	"iter"

	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/corey/prox/internal/domain/proximity"
)

// Matcher finds every occurrence of one term using a compiled DFA.
// The automaton is read-only after Build, so one Matcher serves concurrent scans.
type Matcher struct {
	automaton aho.AhoCorasick
	pattern   string
}

// NewMatcher compiles pattern into an automaton. It has the proximity.MatcherFactory
// signature so it can be passed to proximity.WithMatcherFactory.
func NewMatcher(pattern []byte) (proximity.Matcher, error) {
	if len(pattern) == 0 {
		return nil, errors.New("ahocorasick: empty pattern")
	}
	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	p := string(pattern)
	return &Matcher{
		automaton: builder.Build([]string{p}),
		pattern:   p,
	}, nil
}

// Len returns the pattern length in bytes.
func (m *Matcher) Len() int { return len(m.pattern) }

// FindAll yields match start offsets. Overlapping iteration reports matches by end
// offset, which for a single pattern is also start order.
func (m *Matcher) FindAll(haystack []byte) iter.Seq[int] {
	return func(yield func(int) bool) {
		it := m.automaton.IterOverlappingByte(haystack)
		for next := it.Next(); next != nil; next = it.Next() {
			if !yield(next.Start()) {
				return
			}
		}
	}
}

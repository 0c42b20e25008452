package proximity

import (
	"bytes"
	"fmt"
	"iter"
	"strings"
)

// Algorithm selects the exact-match strategy used for both terms.
type Algorithm int

const (
	// AlgorithmAuto picks the single-byte scan, naive or skip matcher by pattern length.
	AlgorithmAuto Algorithm = iota
	// AlgorithmNaive compares byte by byte at every offset.
	AlgorithmNaive
	// AlgorithmSkip uses Boyer-Moore bad-character and good-suffix tables.
	AlgorithmSkip
	// AlgorithmAutomaton delegates to a MatcherFactory supplied with WithMatcherFactory.
	AlgorithmAutomaton
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmAuto:
		return "auto"
	case AlgorithmNaive:
		return "naive"
	case AlgorithmSkip:
		return "skip"
	case AlgorithmAutomaton:
		return "automaton"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// ParseAlgorithm parses an algorithm name as written in config files and flags.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return AlgorithmAuto, nil
	case "naive":
		return AlgorithmNaive, nil
	case "skip", "boyer-moore", "bm":
		return AlgorithmSkip, nil
	case "automaton", "aho-corasick", "ac":
		return AlgorithmAutomaton, nil
	}
	return 0, invalidArgument("algorithm", fmt.Sprintf("unknown algorithm %q", s))
}

// skipThreshold is the shortest pattern AlgorithmAuto hands to the skip matcher.
// Below it the tables cost more than they save.
const skipThreshold = 4

// Matcher finds one literal pattern. Implementations are immutable and safe for
// concurrent use; case folding happens before the haystack reaches them.
type Matcher interface {
	// FindAll yields the start offset of every occurrence in haystack in ascending
	// order. Scanning resumes one byte after each hit, so self-overlapping
	// occurrences are all reported.
	FindAll(haystack []byte) iter.Seq[int]
	// Len returns the pattern length in bytes.
	Len() int
}

// MatcherFactory builds a Matcher for an already folded, non-empty pattern.
type MatcherFactory func(pattern []byte) (Matcher, error)

// Compile builds a Matcher for pattern. Single-byte patterns always get the
// per-byte scan; an empty pattern matches nothing. AlgorithmAutomaton cannot be
// built here and needs a MatcherFactory.
func Compile(pattern []byte, alg Algorithm) (Matcher, error) {
	switch len(pattern) {
	case 0:
		return emptyMatcher{}, nil
	case 1:
		return byteMatcher{c: pattern[0]}, nil
	}
	p := bytes.Clone(pattern)
	switch alg {
	case AlgorithmAuto:
		if len(p) < skipThreshold {
			return &naiveMatcher{pattern: p}, nil
		}
		return newSkipMatcher(p), nil
	case AlgorithmNaive:
		return &naiveMatcher{pattern: p}, nil
	case AlgorithmSkip:
		return newSkipMatcher(p), nil
	case AlgorithmAutomaton:
		return nil, invalidArgument("algorithm", "automaton matcher requires a matcher factory")
	}
	return nil, invalidArgument("algorithm", fmt.Sprintf("unknown algorithm %d", int(alg)))
}

// FindAll yields every occurrence of pattern in haystack using AlgorithmAuto.
// Both sides are folded once up front when caseInsensitive is set.
func FindAll(haystack, pattern []byte, caseInsensitive bool) iter.Seq[int] {
	if caseInsensitive {
		haystack = Fold(nil, haystack)
		pattern = Fold(nil, pattern)
	}
	m, _ := Compile(pattern, AlgorithmAuto)
	return m.FindAll(haystack)
}

type emptyMatcher struct{}

func (emptyMatcher) Len() int { return 0 }

func (emptyMatcher) FindAll([]byte) iter.Seq[int] {
	return func(func(int) bool) {}
}

// byteMatcher is the single-character fast path.
type byteMatcher struct{ c byte }

func (byteMatcher) Len() int { return 1 }

func (m byteMatcher) FindAll(haystack []byte) iter.Seq[int] {
	return func(yield func(int) bool) {
		for off := 0; off < len(haystack); {
			i := bytes.IndexByte(haystack[off:], m.c)
			if i < 0 {
				return
			}
			if !yield(off + i) {
				return
			}
			off += i + 1
		}
	}
}

type naiveMatcher struct{ pattern []byte }

func (m *naiveMatcher) Len() int { return len(m.pattern) }

func (m *naiveMatcher) FindAll(haystack []byte) iter.Seq[int] {
	return func(yield func(int) bool) {
		p := m.pattern
		for i := 0; i+len(p) <= len(haystack); i++ {
			j := 0
			for j < len(p) && haystack[i+j] == p[j] {
				j++
			}
			if j == len(p) && !yield(i) {
				return
			}
		}
	}
}

// skipMatcher is Boyer-Moore with both the bad-character and good-suffix rules.
type skipMatcher struct {
	pattern []byte
	// badChar[b] is how far the window may move when text byte b mismatches.
	badChar [256]int
	// goodSuffix[j] is the shift after a mismatch at pattern index j.
	goodSuffix []int
}

func newSkipMatcher(pattern []byte) *skipMatcher {
	m := &skipMatcher{
		pattern:    pattern,
		goodSuffix: make([]int, len(pattern)),
	}
	last := len(pattern) - 1

	for i := range m.badChar {
		m.badChar[i] = len(pattern)
	}
	// Stop before last so the final byte never gets a zero shift.
	for i := 0; i < last; i++ {
		m.badChar[pattern[i]] = last - i
	}

	// First pass: shift to the next position that starts a prefix of the pattern.
	lastPrefix := last
	for i := last; i >= 0; i-- {
		if bytes.HasPrefix(pattern, pattern[i+1:]) {
			lastPrefix = i + 1
		}
		m.goodSuffix[i] = lastPrefix + last - i
	}
	// Second pass: repeats of the suffix elsewhere in the pattern.
	for i := 0; i < last; i++ {
		n := commonSuffixLen(pattern, pattern[1:i+1])
		if pattern[i-n] != pattern[last-n] {
			m.goodSuffix[last-n] = n + last - i
		}
	}
	return m
}

func commonSuffixLen(a, b []byte) int {
	i := 0
	for i < len(a) && i < len(b) && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	return i
}

func (m *skipMatcher) Len() int { return len(m.pattern) }

func (m *skipMatcher) FindAll(haystack []byte) iter.Seq[int] {
	return func(yield func(int) bool) {
		for from := 0; ; {
			i := m.next(haystack, from)
			if i < 0 || !yield(i) {
				return
			}
			from = i + 1
		}
	}
}

// next returns the first occurrence at or after from, or -1.
func (m *skipMatcher) next(text []byte, from int) int {
	last := len(m.pattern) - 1
	i := from + last
	for i < len(text) {
		j := last
		for j >= 0 && text[i] == m.pattern[j] {
			i--
			j--
		}
		if j < 0 {
			return i + 1
		}
		i += max(m.badChar[text[i]], m.goodSuffix[j])
	}
	return -1
}

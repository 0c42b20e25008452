package proximity

import "iter"

// DefaultChunkSize keeps per-chunk scratch small while amortising matcher setup.
const DefaultChunkSize = 64 << 10

// Scanner runs a Matcher over a text in fixed-size chunks. Each chunk carries a
// trailing overlap of Len()-1 bytes so occurrences that straddle a chunk edge are
// still found, and an occurrence is reported only by the chunk whose primary
// region holds its start. When folding, only one chunk-sized buffer is allocated.
//
// A Scanner is single-use per goroutine: it owns its scratch buffer.
type Scanner struct {
	matcher   Matcher
	chunkSize int
	fold      bool
	budget    *budget
	scratch   []byte
	exhausted bool
}

// NewScanner returns a Scanner over m. caseInsensitive folds each chunk before
// matching; m must then have been compiled from a folded pattern.
func NewScanner(m Matcher, chunkSize int, caseInsensitive bool) *Scanner {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Scanner{matcher: m, chunkSize: chunkSize, fold: caseInsensitive}
}

func (s *Scanner) withBudget(b *budget) *Scanner {
	s.budget = b
	return s
}

// Exhausted reports whether a scan stopped early because the chunk buffer could
// not be reserved.
func (s *Scanner) Exhausted() bool { return s.exhausted }

// Scan yields the global offset of every occurrence starting at or after from, in
// ascending order.
func (s *Scanner) Scan(text []byte, from int) iter.Seq[int] {
	return func(yield func(int) bool) {
		m := s.matcher.Len()
		from = max(from, 0)
		if m == 0 || len(text)-from < m {
			return
		}
		overlap := m - 1
		for start := from; start < len(text); start += s.chunkSize {
			end := min(start+s.chunkSize+overlap, len(text))
			if end-start < m {
				return
			}
			window, ok := s.window(text[start:end])
			if !ok {
				s.exhausted = true
				return
			}
			final := end == len(text)
			for off := range s.matcher.FindAll(window) {
				if !final && off >= s.chunkSize {
					break
				}
				if !yield(start + off) {
					return
				}
			}
			if final {
				return
			}
		}
	}
}

// window returns chunk itself, or its folded copy in the scratch buffer.
func (s *Scanner) window(chunk []byte) ([]byte, bool) {
	if !s.fold {
		return chunk, true
	}
	if cap(s.scratch) < len(chunk) {
		size := len(chunk)
		if !s.budget.reserve(size - cap(s.scratch)) {
			return nil, false
		}
		s.scratch = make([]byte, 0, size)
	}
	s.scratch = Fold(s.scratch[:0], chunk)
	return s.scratch, true
}

// ScanInChunks collects every offset of pattern in text using chunkSize windows.
func ScanInChunks(text, pattern []byte, chunkSize int, caseInsensitive bool) []int {
	if caseInsensitive {
		pattern = Fold(nil, pattern)
	}
	m, _ := Compile(pattern, AlgorithmAuto)
	var offsets []int
	for off := range NewScanner(m, chunkSize, caseInsensitive).Scan(text, 0) {
		offsets = append(offsets, off)
	}
	return offsets
}

package proximity

import "iter"

// linkOutcome is the result of linking one term A occurrence.
type linkOutcome int

const (
	linked linkOutcome = iota
	rejected
	starved // the term B scanner ran out of budget
)

// linker pairs term A occurrences with the nearest word-bounded term B after them.
// It pulls term B occurrences lazily from a single forward scan, so successive
// calls must pass ascending starts.
type linker struct {
	text   []byte
	termB  string
	lenA   int
	lenB   int
	limit  int
	metric GapMetric
	tracer Tracer

	scanner *Scanner
	next    func() (int, bool)
	stop    func()
	head    int // last word-bounded term B seen, -1 before the first
	drained bool
}

// newLinker starts the term B scan at from.
func newLinker(req Request, matcherB Matcher, opts *Options, b *budget, from int) *linker {
	sc := NewScanner(matcherB, opts.ChunkSize, req.CaseInsensitive).withBudget(b)
	next, stop := iter.Pull(sc.Scan(req.Text, from))
	return &linker{
		text:    req.Text,
		termB:   req.TermB,
		lenA:    len(req.TermA),
		lenB:    matcherB.Len(),
		limit:   req.GapLimit,
		metric:  req.Metric,
		tracer:  opts.Tracer,
		scanner: sc,
		next:    next,
		stop:    stop,
		head:    -1,
	}
}

func (l *linker) close() { l.stop() }

// pair is a term A start and the nearest word-bounded term B at or after its
// end, or b < 0 when there is none.
type pair struct {
	start, b int
}

// link finds the match for the term A occurrence at start.
func (l *linker) link(start int) (Match, linkOutcome) {
	p, ok := l.pair(start)
	if !ok {
		return Match{}, starved
	}
	if m, ok := l.resolve(p); ok {
		return m, linked
	}
	return Match{}, rejected
}

// pair advances the term B cursor to start's candidate. It returns false only
// when the term B scanner ran out of budget.
func (l *linker) pair(start int) (pair, bool) {
	b, ok := l.candidate(start + l.lenA)
	if !ok {
		if l.scanner.Exhausted() {
			return pair{}, false
		}
		return pair{start: start, b: -1}, true
	}
	return pair{start: start, b: b}, true
}

// resolve measures a pair against the gap limit. It reads only immutable state,
// so pairs may be resolved concurrently.
func (l *linker) resolve(p pair) (Match, bool) {
	if p.b < 0 {
		l.tracer.MatchRejected(p.start, -1, 0, RejectNoCandidate)
		return Match{}, false
	}
	// Both metrics grow with the distance to B, so when the nearest bounded
	// candidate misses the limit every later one does too.
	afterA := p.start + l.lenA
	gap, ok := l.measure(afterA, p.b)
	if !ok {
		l.tracer.MatchRejected(p.start, p.b, gap, RejectGapExceeded)
		return Match{}, false
	}
	return Match{Start: p.start, Span: p.b + l.lenB - p.start, Gap: gap}, true
}

// candidate returns the first word-bounded term B starting at or after from.
func (l *linker) candidate(from int) (int, bool) {
	for l.head < from {
		if l.drained {
			return 0, false
		}
		pos, ok := l.next()
		if !ok {
			l.drained = true
			return 0, false
		}
		l.tracer.CandidateFound(l.termB, pos)
		valid := IsBoundaryMatch(l.text, pos, l.lenB)
		l.tracer.BoundaryChecked(l.termB, pos, valid)
		if valid {
			l.head = pos
		}
	}
	return l.head, true
}

func (l *linker) measure(afterA, b int) (int, bool) {
	if l.metric == WordCount {
		return wordGap(l.text, afterA, b, l.limit)
	}
	gap := b - afterA
	return gap, gap <= l.limit
}

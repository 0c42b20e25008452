package proximity

import (
	"fmt"
	"iter"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxMatches caps a result when no other cap is configured.
	DefaultMaxMatches = 10000
	// MaxGapLimit is the hard ceiling for any gap limit.
	MaxGapLimit = 1_000_000

	// parallelBatchSize is how many term A occurrences one worker links per task.
	parallelBatchSize = 256
)

// Options configures an Engine.
type Options struct {
	// MaxMatches stops a search once this many matches are collected.
	MaxMatches int
	// MaxGap is the largest GapLimit a request may carry. Never above MaxGapLimit.
	MaxGap int
	// ChunkSize is the window the scanners work in.
	ChunkSize int
	// Algorithm picks the exact-match strategy for both terms.
	Algorithm Algorithm
	// Factory builds matchers for AlgorithmAutomaton.
	Factory MatcherFactory
	// Workers > 1 links term A occurrences in parallel batches.
	Workers int
	// MemoryBudget bounds scratch and result bytes per call; 0 means unlimited.
	// A budgeted search always runs on one worker so truncation is deterministic.
	MemoryBudget int64
	// Tracer observes the search; defaults to NopTracer.
	Tracer Tracer
}

// DefaultOptions returns the options New starts from.
func DefaultOptions() Options {
	return Options{
		MaxMatches: DefaultMaxMatches,
		MaxGap:     MaxGapLimit,
		ChunkSize:  DefaultChunkSize,
		Algorithm:  AlgorithmAuto,
		Workers:    1,
		Tracer:     NopTracer{},
	}
}

// Option mutates Options.
type Option func(*Options)

// WithMaxMatches sets the match cap.
func WithMaxMatches(n int) Option { return func(o *Options) { o.MaxMatches = n } }

// WithMaxGap lowers the largest accepted gap limit.
func WithMaxGap(n int) Option { return func(o *Options) { o.MaxGap = n } }

// WithChunkSize sets the scanner window size.
func WithChunkSize(n int) Option { return func(o *Options) { o.ChunkSize = n } }

// WithAlgorithm selects the matcher strategy.
func WithAlgorithm(a Algorithm) Option { return func(o *Options) { o.Algorithm = a } }

// WithMatcherFactory installs an external matcher and selects AlgorithmAutomaton.
func WithMatcherFactory(f MatcherFactory) Option {
	return func(o *Options) {
		o.Factory = f
		o.Algorithm = AlgorithmAutomaton
	}
}

// WithWorkers sets the number of parallel linking workers.
func WithWorkers(n int) Option { return func(o *Options) { o.Workers = n } }

// WithMemoryBudget bounds per-call memory in bytes.
func WithMemoryBudget(bytes int64) Option { return func(o *Options) { o.MemoryBudget = bytes } }

// WithTracer installs an observability hook.
func WithTracer(t Tracer) Option { return func(o *Options) { o.Tracer = t } }

// Engine runs proximity searches. It is immutable and safe for concurrent use.
type Engine struct {
	opts Options
}

// New returns an Engine. Out-of-range options fall back to their defaults.
func New(opts ...Option) *Engine {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxMatches <= 0 {
		o.MaxMatches = DefaultMaxMatches
	}
	if o.MaxGap <= 0 || o.MaxGap > MaxGapLimit {
		o.MaxGap = MaxGapLimit
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.MemoryBudget < 0 {
		o.MemoryBudget = 0
	}
	if o.Tracer == nil {
		o.Tracer = NopTracer{}
	}
	return &Engine{opts: o}
}

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

var defaultEngine = New()

// Search runs req on an engine with default options.
func Search(req Request) (*Result, error) { return defaultEngine.Search(req) }

// SearchString is the plain call form: one text, two terms, a gap limit.
func SearchString(text, termA, termB string, gapLimit int, caseInsensitive bool, metric GapMetric) ([]Match, error) {
	res, err := defaultEngine.Search(Request{
		Text:            []byte(text),
		TermA:           termA,
		TermB:           termB,
		GapLimit:        gapLimit,
		CaseInsensitive: caseInsensitive,
		Metric:          metric,
	})
	if err != nil {
		return nil, err
	}
	return res.Matches, nil
}

// Search runs req and returns a freshly allocated result.
func (e *Engine) Search(req Request) (*Result, error) {
	matches, status, err := e.AppendSearch(nil, req)
	if err != nil {
		return nil, err
	}
	return &Result{Matches: matches, Status: status}, nil
}

// AppendSearch runs req and appends its matches to dst. The cap applies to the
// appended matches only. On a validation error dst is returned unchanged.
func (e *Engine) AppendSearch(dst []Match, req Request) ([]Match, Status, error) {
	if err := e.Validate(req); err != nil {
		return dst, StatusComplete, err
	}
	ma, err := e.compile(req.TermA, req.CaseInsensitive)
	if err != nil {
		return dst, StatusComplete, fmt.Errorf("compile term_a: %w", err)
	}
	mb, err := e.compile(req.TermB, req.CaseInsensitive)
	if err != nil {
		return dst, StatusComplete, fmt.Errorf("compile term_b: %w", err)
	}

	b := newBudget(e.opts.MemoryBudget)
	col := newCollector(dst, e.opts.MaxMatches, b)
	if e.opts.Workers > 1 && b == nil {
		e.linkParallel(req, ma, mb, col)
	} else {
		e.linkSequential(req, ma, mb, b, col)
	}
	return col.matches, col.status, nil
}

// Validate checks req against the engine's limits without searching.
func (e *Engine) Validate(req Request) error {
	switch {
	case len(req.Text) == 0:
		return invalidArgument("text", "must not be empty")
	case req.TermA == "":
		return invalidArgument("term_a", "must not be empty")
	case req.TermB == "":
		return invalidArgument("term_b", "must not be empty")
	case req.GapLimit < 0:
		return invalidArgument("gap_limit", fmt.Sprintf("%d is negative", req.GapLimit))
	case req.GapLimit > e.opts.MaxGap:
		return invalidArgument("gap_limit", fmt.Sprintf("%d exceeds maximum %d", req.GapLimit, e.opts.MaxGap))
	case req.Metric != CharacterCount && req.Metric != WordCount:
		return invalidArgument("gap_metric", fmt.Sprintf("unknown gap metric %d", int(req.Metric)))
	}
	return nil
}

func (e *Engine) compile(term string, caseInsensitive bool) (Matcher, error) {
	pattern := []byte(term)
	if caseInsensitive {
		pattern = foldString(term)
	}
	if e.opts.Algorithm != AlgorithmAutomaton || len(pattern) == 1 {
		return Compile(pattern, e.opts.Algorithm)
	}
	if e.opts.Factory == nil {
		return nil, invalidArgument("algorithm", "automaton matcher requires a matcher factory")
	}
	return e.opts.Factory(pattern)
}

// boundaryA reports whether the term A occurrence at pos is a whole token.
func (e *Engine) boundaryA(req Request, pos int) bool {
	e.opts.Tracer.CandidateFound(req.TermA, pos)
	ok := IsBoundaryMatch(req.Text, pos, len(req.TermA))
	e.opts.Tracer.BoundaryChecked(req.TermA, pos, ok)
	return ok
}

func (e *Engine) linkSequential(req Request, ma, mb Matcher, b *budget, col *collector) {
	scan := NewScanner(ma, e.opts.ChunkSize, req.CaseInsensitive).withBudget(b)
	var lk *linker
	defer func() {
		if lk != nil {
			lk.close()
		}
	}()

	for start := range scan.Scan(req.Text, 0) {
		if !e.boundaryA(req, start) {
			continue
		}
		if lk == nil {
			lk = newLinker(req, mb, &e.opts, b, start+len(req.TermA))
		}
		m, outcome := lk.link(start)
		if outcome == starved {
			col.exhaust()
			return
		}
		if outcome != linked {
			continue
		}
		if col.add(m) {
			e.opts.Tracer.MatchAccepted(m)
		}
		if col.done() {
			return
		}
	}
	if scan.Exhausted() {
		col.exhaust()
	}
}

// linkParallel pairs term A occurrences with their term B candidates on the
// calling goroutine, using one forward cursor for each term, then resolves
// rounds of Workers batches concurrently and merges each round in start order.
// Stopping at the cap between rounds keeps the result identical to linkSequential.
func (e *Engine) linkParallel(req Request, ma, mb Matcher, col *collector) {
	scan := NewScanner(ma, e.opts.ChunkSize, req.CaseInsensitive)
	next, stop := iter.Pull(scan.Scan(req.Text, 0))
	defer stop()

	var lk *linker
	defer func() {
		if lk != nil {
			lk.close()
		}
	}()

	for !col.done() {
		batches, starvedB := e.pullBatches(req, mb, next, &lk)
		if len(batches) == 0 {
			if starvedB {
				col.exhaust()
			}
			return
		}
		limit := col.remaining()
		results := make([][]Match, len(batches))
		var g errgroup.Group
		g.SetLimit(e.opts.Workers)
		for i, batch := range batches {
			g.Go(func() error {
				results[i] = resolveBatch(lk, batch, limit)
				return nil
			})
		}
		_ = g.Wait()

		for _, matches := range results {
			for _, m := range matches {
				if col.push(m) {
					e.opts.Tracer.MatchAccepted(m)
				}
				if col.done() {
					return
				}
			}
		}
		if starvedB {
			col.exhaust()
			return
		}
	}
}

// pullBatches gathers up to Workers batches of word-bounded term A starts, each
// already paired with its term B candidate. The linker is created at the first
// valid start. starvedB reports that the term B scanner ran out of budget.
func (e *Engine) pullBatches(req Request, mb Matcher, next func() (int, bool), lk **linker) (batches [][]pair, starvedB bool) {
	batch := make([]pair, 0, parallelBatchSize)
	for len(batches) < e.opts.Workers {
		pos, ok := next()
		if !ok {
			break
		}
		if !e.boundaryA(req, pos) {
			continue
		}
		if *lk == nil {
			*lk = newLinker(req, mb, &e.opts, nil, pos+len(req.TermA))
		}
		p, ok := (*lk).pair(pos)
		if !ok {
			starvedB = true
			break
		}
		batch = append(batch, p)
		if len(batch) == parallelBatchSize {
			batches = append(batches, batch)
			batch = make([]pair, 0, parallelBatchSize)
		}
	}
	if len(batch) > 0 {
		batches = append(batches, batch)
	}
	return batches, starvedB
}

// resolveBatch measures one batch of pairs. It stops after limit matches since
// nothing past the cap can survive the merge.
func resolveBatch(lk *linker, pairs []pair, limit int) []Match {
	var matches []Match
	for _, p := range pairs {
		m, ok := lk.resolve(p)
		if !ok {
			continue
		}
		matches = append(matches, m)
		if len(matches) >= limit {
			break
		}
	}
	return matches
}

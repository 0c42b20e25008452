// Package app wires the proximity kernel to files, the worker pool and the watcher.
// It provides lifecycle management for one CLI invocation: create, search, close.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/corey/prox/internal/adapters/ahocorasick"
	"github.com/corey/prox/internal/config"
	"github.com/corey/prox/internal/domain/proximity"
	"github.com/corey/prox/internal/logging"
)

// ErrFileTooLarge is reported for inputs above files.max_file_size_mb.
var ErrFileTooLarge = errors.New("file exceeds max_file_size_mb")

// Query is what the user asked for, independent of any one file.
type Query struct {
	TermA           string
	TermB           string
	Gap             int
	CaseInsensitive bool
	Metric          proximity.GapMetric
	// KeepText retains each file's contents in its result for highlighted output.
	KeepText bool
}

func (q Query) request(text []byte) proximity.Request {
	return proximity.Request{
		Text:            text,
		TermA:           q.TermA,
		TermB:           q.TermB,
		GapLimit:        q.Gap,
		CaseInsensitive: q.CaseInsensitive,
		Metric:          q.Metric,
	}
}

// FileResult is the outcome of searching one input.
type FileResult struct {
	Path    string            `json:"path"`
	Matches []proximity.Match `json:"matches"`
	Status  proximity.Status  `json:"status"`
	Error   string            `json:"error,omitempty"`

	Err  error  `json:"-"`
	Text []byte `json:"-"`
}

func failed(path string, err error) FileResult {
	return FileResult{Path: path, Err: err, Error: err.Error()}
}

// App is the top-level container wiring all components together.
type App struct {
	Config *config.Config
	Engine *proximity.Engine
	Logger *slog.Logger

	pool *ants.Pool
}

// New builds the engine from cfg and starts the file worker pool.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	if alg, _ := proximity.ParseAlgorithm(cfg.Search.Algorithm); alg == proximity.AlgorithmAutomaton {
		opts = append(opts, proximity.WithMatcherFactory(ahocorasick.NewMatcher))
	}
	if tr := logging.NewTracer(logger); tr != nil {
		opts = append(opts, proximity.WithTracer(tr))
	}

	pool, err := ants.NewPool(cfg.Files.Workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &App{
		Config: cfg,
		Engine: proximity.New(opts...),
		Logger: logger,
		pool:   pool,
	}, nil
}

// Close releases the worker pool.
func (a *App) Close() {
	a.pool.Release()
}

// Validate checks the query terms and gap before any file is read.
func (a *App) Validate(q Query) error {
	// Any non-empty text will do; only the query fields are under test.
	return a.Engine.Validate(q.request([]byte{' '}))
}

// SearchFiles searches every path on the worker pool. Results come back in the
// order of paths; a failure on one file is recorded in its result and does not
// stop the others.
func (a *App) SearchFiles(ctx context.Context, paths []string, q Query) ([]FileResult, error) {
	if err := a.Validate(q); err != nil {
		return nil, err
	}
	results := make([]FileResult, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			results[i] = failed(path, err)
			continue
		}
		wg.Add(1)
		err := a.pool.Submit(func() {
			defer wg.Done()
			results[i] = a.SearchFile(ctx, path, q)
		})
		if err != nil {
			wg.Done()
			results[i] = failed(path, fmt.Errorf("submit: %w", err))
		}
	}
	wg.Wait()
	return results, ctx.Err()
}

// SearchFile reads and searches one file.
func (a *App) SearchFile(ctx context.Context, path string, q Query) FileResult {
	if err := ctx.Err(); err != nil {
		return failed(path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return failed(path, err)
	}
	if info.IsDir() {
		return failed(path, fmt.Errorf("%s is a directory", path))
	}
	if info.Size() > a.Config.MaxFileSize() {
		return failed(path, fmt.Errorf("%s (%d bytes): %w", path, info.Size(), ErrFileTooLarge))
	}
	text, err := os.ReadFile(path)
	if err != nil {
		return failed(path, err)
	}
	return a.SearchText(path, text, q)
}

// SearchReader searches everything readable from r, up to the file size limit.
func (a *App) SearchReader(name string, r io.Reader, q Query) FileResult {
	limit := a.Config.MaxFileSize()
	text, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return failed(name, err)
	}
	if int64(len(text)) > limit {
		return failed(name, ErrFileTooLarge)
	}
	return a.SearchText(name, text, q)
}

// SearchText runs the kernel over text. Empty input has nothing to match and
// is reported as an empty, complete result rather than an error.
func (a *App) SearchText(name string, text []byte, q Query) FileResult {
	res := FileResult{Path: name}
	if q.KeepText {
		res.Text = text
	}
	if len(text) == 0 {
		return res
	}
	out, err := a.Engine.Search(q.request(text))
	if err != nil {
		return failed(name, err)
	}
	res.Matches = out.Matches
	res.Status = out.Status
	if err := out.Status.Err(); err != nil {
		a.Logger.Warn("search truncated", "path", name, "matches", len(out.Matches), "error", err)
	}
	a.Logger.Debug("search finished", "path", name, "matches", len(out.Matches), "status", out.Status.String())
	return res
}

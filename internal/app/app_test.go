package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/prox/internal/adapters/ahocorasick"
	"github.com/corey/prox/internal/config"
	"github.com/corey/prox/internal/domain/proximity"
)

func newTestApp(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Files.Workers = 2
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())
	a, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

var foxQuery = Query{TermA: "quick", TermB: "fox", Gap: 1, Metric: proximity.WordCount}

func TestSearchFiles_OrderAndPerFileErrors(t *testing.T) {
	a := newTestApp(t, nil)
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.txt", "the quick brown fox"),
		filepath.Join(dir, "missing.txt"),
		writeFile(t, dir, "b.txt", "quick fox, quick red fox"),
		writeFile(t, dir, "empty.txt", ""),
	}

	results, err := a.SearchFiles(context.Background(), paths, foxQuery)
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
	}
	assert.Equal(t, []proximity.Match{{Start: 4, Span: 15, Gap: 0}}, results[0].Matches)
	assert.Error(t, results[1].Err)
	assert.NotEmpty(t, results[1].Error)
	assert.Len(t, results[2].Matches, 2)
	assert.NoError(t, results[3].Err)
	assert.Empty(t, results[3].Matches)
}

func TestSearchFiles_InvalidQuery(t *testing.T) {
	a := newTestApp(t, nil)
	_, err := a.SearchFiles(context.Background(), []string{"x"}, Query{TermA: "", TermB: "b"})
	assert.ErrorIs(t, err, proximity.ErrInvalidArgument)

	_, err = a.SearchFiles(context.Background(), []string{"x"}, Query{TermA: "a", TermB: "b", Gap: -1})
	assert.ErrorIs(t, err, proximity.ErrInvalidArgument)
}

func TestSearchFiles_Cancelled(t *testing.T) {
	a := newTestApp(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := a.SearchFiles(ctx, []string{"a", "b"}, foxQuery)
	assert.ErrorIs(t, err, context.Canceled)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}

func TestSearchFile_TooLarge(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) { c.Files.MaxFileSizeMB = 1 })
	path := writeFile(t, t.TempDir(), "big.txt", strings.Repeat("x", 1<<20+1))
	r := a.SearchFile(context.Background(), path, foxQuery)
	assert.ErrorIs(t, r.Err, ErrFileTooLarge)
}

func TestSearchFile_Directory(t *testing.T) {
	a := newTestApp(t, nil)
	r := a.SearchFile(context.Background(), t.TempDir(), foxQuery)
	assert.ErrorContains(t, r.Err, "is a directory")
}

func TestSearchReader(t *testing.T) {
	a := newTestApp(t, nil)
	q := foxQuery
	q.KeepText = true
	r := a.SearchReader("(stdin)", bytes.NewBufferString("quick brown fox"), q)
	require.NoError(t, r.Err)
	assert.Equal(t, "(stdin)", r.Path)
	assert.Equal(t, []byte("quick brown fox"), r.Text)
	assert.Len(t, r.Matches, 1)
}

func TestSearchText_ReportsCap(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) { c.Search.MaxMatches = 2 })
	r := a.SearchText("t", []byte(strings.Repeat("quick fox ", 10)), foxQuery)
	assert.Len(t, r.Matches, 2)
	assert.Equal(t, proximity.StatusCapReached, r.Status)
}

func TestNew_WiresAutomaton(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) { c.Search.Algorithm = "automaton" })
	o := a.Engine.Options()
	assert.Equal(t, proximity.AlgorithmAutomaton, o.Algorithm)
	require.NotNil(t, o.Factory)
	m, err := o.Factory([]byte("fox"))
	require.NoError(t, err)
	assert.IsType(t, &ahocorasick.Matcher{}, m)

	r := a.SearchText("t", []byte("the quick brown fox"), foxQuery)
	assert.Len(t, r.Matches, 1)
}

func TestNew_TracerOnlyAtDebug(t *testing.T) {
	a := newTestApp(t, nil)
	assert.IsType(t, proximity.NopTracer{}, a.Engine.Options().Tracer)

	var buf bytes.Buffer
	cfg := config.NewConfig()
	debug, err := New(cfg, slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	require.NoError(t, err)
	defer debug.Close()
	debug.SearchText("t", []byte("quick brown fox"), foxQuery)
	assert.Contains(t, buf.String(), "match accepted")
}

package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWatcher lets tests fire change notifications by hand.
type fakeWatcher struct {
	mu       sync.Mutex
	onChange func(string)
	stopped  bool
	ready    chan struct{}
}

func newFakeWatcher() *fakeWatcher { return &fakeWatcher{ready: make(chan struct{})} }

func (f *fakeWatcher) Watch(_ []string, onChange func(string)) error {
	f.mu.Lock()
	f.onChange = onChange
	f.mu.Unlock()
	close(f.ready)
	return nil
}

func (f *fakeWatcher) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	return nil
}

func (f *fakeWatcher) fire(path string) {
	f.mu.Lock()
	cb := f.onChange
	f.mu.Unlock()
	cb(path)
}

func TestWatch_ResearchesOnChange(t *testing.T) {
	a := newTestApp(t, nil)
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.txt", "nothing here")
	abs, err := filepath.Abs(path)
	require.NoError(t, err)

	w := newFakeWatcher()
	rounds := make(chan []FileResult, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- a.Watch(ctx, w, []string{path}, foxQuery, func(r []FileResult) { rounds <- r })
	}()

	first := <-rounds
	require.Len(t, first, 1)
	assert.Empty(t, first[0].Matches)

	<-w.ready
	require.NoError(t, os.WriteFile(path, []byte("quick brown fox"), 0644))
	w.fire(abs)

	select {
	case second := <-rounds:
		require.Len(t, second, 1)
		assert.Equal(t, path, second[0].Path)
		assert.Len(t, second[0].Matches, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("no re-search after change")
	}

	cancel()
	require.NoError(t, <-done)
	assert.True(t, w.stopped)
}

func TestWatch_InvalidQuery(t *testing.T) {
	a := newTestApp(t, nil)
	err := a.Watch(context.Background(), newFakeWatcher(), []string{"x"}, Query{TermA: "a"}, func([]FileResult) {})
	assert.Error(t, err)
}

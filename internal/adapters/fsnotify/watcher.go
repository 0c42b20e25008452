// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It watches the directories that hold the target files, drops events for any
// other file, and debounces bursts (editors often emit several events per save).
package fsnotify

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before onChange fires.
const DefaultDebounce = 100 * time.Millisecond

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration
	done     chan struct{}

	mu       sync.Mutex
	stopped  bool
	pending  map[string]*pending
	inflight sync.WaitGroup
}

// pending is the armed debounce timer for one path. gen changes on every re-arm,
// so a timer that fired while its path was being re-armed is recognised as stale.
type pending struct {
	timer *time.Timer
	gen   uint64
}

// NewWatcher creates a watcher. A non-positive debounce uses DefaultDebounce.
func NewWatcher(debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		fw:       fw,
		debounce: debounce,
		done:     make(chan struct{}),
		pending:  make(map[string]*pending),
	}, nil
}

// Watch starts monitoring paths.
func (w *Watcher) Watch(paths []string, onChange func(path string)) error {
	targets := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.fw.Add(dir); err != nil {
			return err
		}
	}

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				path := filepath.Clean(event.Name)
				if !targets[path] {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					w.schedule(path, onChange)
				}

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// Read errors are transient; events keep flowing after one.

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// schedule (re)arms the per-path timer so onChange fires once per burst.
func (w *Watcher) schedule(path string, onChange func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	p, ok := w.pending[path]
	if ok {
		p.timer.Stop()
	} else {
		p = &pending{}
		w.pending[path] = p
	}
	p.gen++
	gen := p.gen
	p.timer = time.AfterFunc(w.debounce, func() { w.fire(path, gen, onChange) })
}

// fire runs onChange unless the watcher stopped or the path was re-armed after
// this timer was set.
func (w *Watcher) fire(path string, gen uint64, onChange func(string)) {
	w.mu.Lock()
	p, ok := w.pending[path]
	if w.stopped || !ok || p.gen != gen {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	w.inflight.Add(1)
	w.mu.Unlock()

	defer w.inflight.Done()
	onChange(path)
}

// Stop ends monitoring and releases all resources. It waits for callbacks
// already running, so onChange must not call Stop.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	close(w.done)
	w.mu.Unlock()

	err := w.fw.Close()
	w.inflight.Wait()
	return err
}

// Package watcher monitors the configuration file and reports changes so
// the application can reload settings between input cycles.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned by Watch after Close.
var ErrWatcherClosed = errors.New("watcher closed")

// Event is a debounced change notification for a watched file.
type Event struct {
	Path string
	Time time.Time
}

// Watcher wraps fsnotify with per-file filtering and write debouncing.
// Editors and tools often replace config files with a burst of writes;
// the debounce interval collapses those into one event.
type Watcher struct {
	mu     sync.Mutex
	fsw    *fsnotify.Watcher
	files  map[string]bool
	events chan Event
	errs   chan error

	debounce time.Duration
	lastSent map[string]time.Time

	closed  bool
	closeCh chan struct{}
	done    sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the minimum interval between events for one file.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher and starts its event loop.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		events:   make(chan Event, 16),
		errs:     make(chan error, 16),
		debounce: 250 * time.Millisecond,
		lastSent: make(map[string]time.Time),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.done.Add(1)
	go w.loop()

	return w, nil
}

// Watch starts watching a single file. The file's directory is registered
// with fsnotify so atomic rename-replace writes are still observed.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[abs] {
		return nil
	}

	if err := w.fsw.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	w.files[abs] = true
	return nil
}

// Events returns the debounced change channel.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher and releases its resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.done.Wait()
	close(w.events)
	close(w.errs)
	return err
}

func (w *Watcher) loop() {
	defer w.done.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

// handle filters directory noise down to watched files and debounces.
func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
		return
	}

	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	watched := w.files[abs]
	now := time.Now()
	if watched {
		if last, ok := w.lastSent[abs]; ok && now.Sub(last) < w.debounce {
			watched = false
		} else {
			w.lastSent[abs] = now
		}
	}
	w.mu.Unlock()

	if !watched {
		return
	}

	select {
	case w.events <- Event{Path: abs, Time: now}:
	default:
		// Channel full; the consumer will pick up the next change.
	}
}

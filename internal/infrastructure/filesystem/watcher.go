// Package filesystem provides file input and change watching for the CLI.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeType represents the kind of change seen on a watched file.
type ChangeType string

// Change types.
const (
	ChangeWrite  ChangeType = "write"
	ChangeRemove ChangeType = "remove"
)

// Change is one debounced change to the watched file.
type Change struct {
	Path      string
	Type      ChangeType
	Timestamp time.Time
}

// WatcherConfig holds configuration for the file watcher.
type WatcherConfig struct {
	DebounceDuration time.Duration
	BufferSize       int
}

// DefaultWatcherConfig returns sensible default configuration.
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		DebounceDuration: 100 * time.Millisecond,
		BufferSize:       16,
	}
}

// FileWatcher reports changes to a single file. It watches the parent
// directory so that editors which save by rename are still seen, and
// collapses bursts of events into one Change.
type FileWatcher struct {
	path      string
	fsWatcher *fsnotify.Watcher
	config    WatcherConfig
	changes   chan Change
	errors    chan error

	// Debouncing state
	pending   *Change
	pendingMu sync.Mutex

	// Lifecycle
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	closed  bool
	mu      sync.Mutex
}

// NewFileWatcher creates a watcher for path. The file must exist.
func NewFileWatcher(path string, cfg WatcherConfig) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 16
	}
	if cfg.DebounceDuration <= 0 {
		cfg.DebounceDuration = 100 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &FileWatcher{
		path:      abs,
		fsWatcher: fsWatcher,
		config:    cfg,
		changes:   make(chan Change, cfg.BufferSize),
		errors:    make(chan error, cfg.BufferSize),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Path returns the absolute path being watched.
func (w *FileWatcher) Path() string {
	return w.path
}

// Start begins watching. Calling Start twice or after Close does nothing.
func (w *FileWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.started {
		return nil
	}

	if err := w.fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.started = true

	w.wg.Add(2)
	go w.processEvents()
	go w.debounceProcessor()

	return nil
}

// Changes returns the channel of debounced changes.
func (w *FileWatcher) Changes() <-chan Change {
	return w.changes
}

// Errors returns the channel for receiving watcher errors.
func (w *FileWatcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and releases resources.
func (w *FileWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	w.cancel()
	err := w.fsWatcher.Close()
	w.wg.Wait()

	close(w.changes)
	close(w.errors)

	return err
}

// processEvents reads from fsnotify and queues events for the watched file.
func (w *FileWatcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}

			changeType := convertOp(event.Op)
			if changeType == "" {
				continue
			}

			w.pendingMu.Lock()
			w.pending = &Change{Path: w.path, Type: changeType, Timestamp: time.Now()}
			w.pendingMu.Unlock()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				// Drop error if channel is full
			}
		}
	}
}

// debounceProcessor periodically emits the pending change once it is stable.
func (w *FileWatcher) debounceProcessor() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.DebounceDuration / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.emitStable()
		}
	}
}

func (w *FileWatcher) emitStable() {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	if w.pending == nil || time.Since(w.pending.Timestamp) < w.config.DebounceDuration {
		return
	}

	change := *w.pending
	w.pending = nil

	select {
	case w.changes <- change:
	default:
		// Drop change if channel is full
	}
}

// convertOp maps fsnotify operations onto change types. Create counts as a
// write because rename-on-save shows up as a create of the target.
func convertOp(op fsnotify.Op) ChangeType {
	switch {
	case op.Has(fsnotify.Create), op.Has(fsnotify.Write):
		return ChangeWrite
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return ChangeRemove
	default:
		return ""
	}
}

// Package watch re-splits inputs when they change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"variantsplit/internal/job"
	"variantsplit/internal/logging"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// SplitFunc runs one split for input. *job.Runner's Run satisfies it.
type SplitFunc func(ctx context.Context, input string) (job.Result, error)

// Stats tracks watcher activity.
type Stats struct {
	Events      int
	Runs        int
	Failures    int
	Errors      int
	LastRunPath string
	LastRunTime time.Time
	LastError   string
}

// Watcher watches the directories holding its inputs and re-runs the split for
// an input after writes to it settle. Editors that save by rename are covered
// because the directory, not the file, is watched.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	split       SplitFunc
	inputs      map[string]string // absolute path -> path as given
	pending     map[string]time.Time
	debounceDur time.Duration
	logger      *zap.Logger
	onResult    func(job.Result)
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats Stats
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long an input must be quiet before it is re-split.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounceDur = d }
}

// WithLogger sets the parent logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = logging.For(l, logging.CategoryWatch) }
}

// OnResult registers a callback invoked after every triggered run.
func OnResult(fn func(job.Result)) Option {
	return func(w *Watcher) { w.onResult = fn }
}

// New creates a Watcher for inputs.
func New(inputs []string, split SplitFunc, opts ...Option) (*Watcher, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no inputs to watch")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		watcher:     fw,
		split:       split,
		inputs:      make(map[string]string, len(inputs)),
		pending:     make(map[string]time.Time),
		debounceDur: 300 * time.Millisecond,
		logger:      zap.NewNop(),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", in, err)
		}
		w.inputs[abs] = in
	}
	return w, nil
}

// Start registers the input directories and starts the event loop.
// It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dirs := make(map[string]struct{})
	for abs := range w.inputs {
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.logger.Info("watching directory", zap.String("dir", dir))
	}

	go w.run(ctx)
	return nil
}

// Stop stops the event loop and releases the fsnotify watcher.
// It is safe to call on a watcher that was never started.
func (w *Watcher) Stop() {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("error closing watcher", zap.Error(err))
	}
	w.logger.Debug("watcher stopped")
}

// GetStats returns a copy of the current counters.
func (w *Watcher) GetStats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounceDur / 3
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("context cancelled")
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case now := <-ticker.C:
			w.flush(ctx, now)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.inputs[abs]; !ok {
		return
	}
	w.stats.Events++
	w.pending[abs] = time.Now()
	w.logger.Debug("input changed", zap.String("path", abs), zap.String("op", event.Op.String()))
}

// flush runs every pending input that has been quiet for the debounce period.
// Runs happen one at a time on the loop goroutine.
func (w *Watcher) flush(ctx context.Context, now time.Time) {
	w.mu.Lock()
	var due []string
	for abs, last := range w.pending {
		if now.Sub(last) >= w.debounceDur {
			due = append(due, abs)
			delete(w.pending, abs)
		}
	}
	w.mu.Unlock()

	for _, abs := range due {
		w.mu.Lock()
		input := w.inputs[abs]
		w.mu.Unlock()

		res, err := w.split(ctx, input)

		w.mu.Lock()
		w.stats.Runs++
		w.stats.LastRunPath = input
		w.stats.LastRunTime = time.Now()
		if err != nil {
			w.stats.Failures++
			w.stats.LastError = err.Error()
		} else {
			w.stats.LastError = ""
		}
		w.mu.Unlock()

		if err != nil {
			w.logger.Warn("re-split failed", zap.String("input", input), zap.Error(err))
		} else {
			w.logger.Info("re-split", zap.String("input", input), zap.Int("lines", res.Stats.LinesRead))
		}
		if w.onResult != nil {
			w.onResult(res)
		}
	}
}

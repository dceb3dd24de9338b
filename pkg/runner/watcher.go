package runner

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchExtensions are the policy file extensions the watcher reacts to.
var watchExtensions = map[string]bool{".txt": true, ".md": true}

// Watcher watches a directory of policy text files and re-syncs a policy
// whenever its file changes. Bursts of events for one file are debounced
// into a single sync.
type Watcher struct {
	runner   *Runner
	dir      string
	debounce time.Duration

	watcher *fsnotify.Watcher
	logger  *slog.Logger

	mu       sync.Mutex
	pending  map[string]*time.Timer
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewWatcher creates a watcher over dir. Debounce guards against editors
// emitting several write events per save.
func NewWatcher(r *Runner, dir string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{
		runner:   r,
		dir:      dir,
		debounce: debounce,
		watcher:  fw,
		logger:   slog.Default().With("component", "runner.watcher"),
		pending:  make(map[string]*time.Timer),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching until Stop is called or ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
	w.logger.Info("policy watcher started", "dir", w.dir, "debounce", w.debounce)
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !watchExtensions[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}
			w.scheduleSync(ctx, event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "error", err)
		}
	}
}

// scheduleSync arms (or re-arms) the debounce timer for one file.
func (w *Watcher) scheduleSync(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		if _, err := w.runner.SyncPolicyFile(ctx, path); err != nil {
			w.logger.Error("policy sync failed", "path", path, "error", err)
		}
	})
}

// Stop halts watching and releases the underlying notifier. Safe to call
// more than once; repeated calls wait for the same shutdown.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
	})
	<-w.doneCh
}

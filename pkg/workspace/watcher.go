package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/protolens/protolens/pkg/config"
	"github.com/protolens/protolens/pkg/index"
	"github.com/protolens/protolens/pkg/observability"
)

// fileEventType classifies a debounced filesystem event.
type fileEventType int

const (
	fileEventWrite fileEventType = iota
	fileEventRemove
)

// Watcher monitors the workspace roots and keeps the index current. Bursts
// of change events are coalesced over a debounce window; each flush is
// tagged with a session id in logs.
type Watcher struct {
	watcher *fsnotify.Watcher
	scanner *Scanner
	index   *index.Index
	logger  *observability.Logger

	debounce time.Duration

	mu      sync.Mutex
	pending map[string]fileEventType
	timer   *time.Timer
	onFlush func(sessionID string, changed, removed []string)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher over the configured workspace roots. Call
// Start to begin watching and Stop to tear down.
func NewWatcher(cfg *config.Config, scanner *Scanner, idx *index.Index, logger *observability.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating filesystem watcher: %w", err)
	}
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		watcher:  fsw,
		scanner:  scanner,
		index:    idx,
		logger:   logger,
		debounce: cfg.Watcher.Debounce.Std(),
		pending:  make(map[string]fileEventType),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// SetOnFlush registers a callback invoked after each debounce flush with the
// paths that were reindexed and removed. Set it before Start.
func (w *Watcher) SetOnFlush(fn func(sessionID string, changed, removed []string)) {
	w.onFlush = fn
}

// Start registers watches on every directory under the configured roots and
// begins processing events.
func (w *Watcher) Start() error {
	for _, root := range w.scanner.cfg.Workspace.Roots {
		err := w.scanner.walkDirs(root, func(dir string) error {
			if err := w.watcher.Add(dir); err != nil {
				w.logger.WithError(err).WithField("dir", dir).Warn("failed to watch directory")
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("registering watches under %s: %w", root, err)
		}
	}

	w.wg.Add(1)
	go w.processEvents()

	w.logger.Info("workspace watcher started")
	return nil
}

// Stop stops event processing and releases the underlying watcher. Pending
// debounced events are dropped.
func (w *Watcher) Stop() error {
	w.cancel()
	err := w.watcher.Close()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	w.wg.Wait()
	w.logger.Info("workspace watcher stopped")
	return err
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
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
			w.logger.WithError(err).Warn("filesystem watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		if w.scanner.ShouldIndex(path) {
			w.enqueue(path, fileEventRemove)
		}
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		return
	}

	// New directories need their own watch so files created inside them are
	// seen.
	if info.IsDir() {
		if event.Op&fsnotify.Create != 0 {
			if err := w.watcher.Add(path); err != nil {
				w.logger.WithError(err).WithField("dir", path).Warn("failed to watch new directory")
			}
		}
		return
	}

	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if !w.scanner.ShouldIndex(path) {
		return
	}
	w.enqueue(path, fileEventWrite)
}

// enqueue records the latest event for a path and arms the debounce timer.
func (w *Watcher) enqueue(path string, eventType fileEventType) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = eventType

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

// flush applies all coalesced events to the index.
func (w *Watcher) flush() {
	w.mu.Lock()
	events := w.pending
	w.pending = make(map[string]fileEventType)
	w.mu.Unlock()

	if len(events) == 0 || w.ctx.Err() != nil {
		return
	}

	sessionID := uuid.NewString()
	log := w.logger.WithField("scan_session", sessionID)
	log.WithField("events", len(events)).Info("processing debounced file events")

	var changed, removed []string

	// Removals first, so a rename-away frees the symbols before the new
	// location claims them.
	for path, eventType := range events {
		if eventType != fileEventRemove {
			continue
		}
		w.index.RemoveFile(filepath.ToSlash(path))
		removed = append(removed, path)
		log.WithField("path", path).Debug("removed file from index")
	}

	for path, eventType := range events {
		if eventType != fileEventWrite {
			continue
		}
		if err := w.scanner.IndexFile(path); err != nil {
			log.WithError(err).WithField("path", path).Warn("skipping unparseable file")
			continue
		}
		changed = append(changed, path)
		log.WithField("path", path).Debug("reindexed file")
	}

	if w.onFlush != nil {
		w.onFlush(sessionID, changed, removed)
	}
}

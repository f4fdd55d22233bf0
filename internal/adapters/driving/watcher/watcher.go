// Package watcher monitors a dataset directory tree and keeps the
// knowledge bases in sync with it. The layout is one subdirectory per
// domain: dropping datasets/medical/anatomy.md ingests the file into
// the medical knowledge base, and deleting it removes the source.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driving"
	"github.com/switchboard-labs/switchboard-cli/internal/logger"
)

// DefaultDebounce is how long the watcher waits after the last write
// event before ingesting, so editors that save in multiple writes
// trigger a single ingest.
const DefaultDebounce = 500 * time.Millisecond

// Watcher ingests dataset files as they appear and removes their
// sources when they disappear.
type Watcher struct {
	knowledge driving.KnowledgeService
	root      string
	domains   map[domain.Domain]bool
	debounce  time.Duration

	fsw     *fsnotify.Watcher
	mu      sync.Mutex
	pending map[string]*time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the write-event debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher over root for the given domains. Each domain
// maps to the subdirectory of root with the same name; subdirectories
// for unknown domains are ignored.
func New(knowledge driving.KnowledgeService, root string, domains []domain.Domain, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		knowledge: knowledge,
		root:      root,
		domains:   make(map[domain.Domain]bool, len(domains)),
		debounce:  DefaultDebounce,
		fsw:       fsw,
		pending:   make(map[string]*time.Timer),
	}
	for _, dom := range domains {
		w.domains[dom] = true
	}
	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Run watches until the context is cancelled. Existing files are
// ingested on startup so the indexes match the directory from the
// first moment.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.fsw.Add(w.root); err != nil {
		return err
	}

	// Watch existing domain subdirectories and sync their content.
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(w.root, entry.Name())
		if !w.domains[domain.Domain(entry.Name())] {
			logger.Debug("ignoring non-domain directory %s", dir)
			continue
		}
		if err := w.addDomainDir(ctx, dir); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return w.close()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

// close cancels pending ingests and shuts the fsnotify watcher down.
func (w *Watcher) close() error {
	w.mu.Lock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()
	return w.fsw.Close()
}

// addDomainDir starts watching one domain subdirectory and ingests the
// files already in it.
func (w *Watcher) addDomainDir(ctx context.Context, dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return err
	}
	logger.Info("watching %s", dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		w.ingest(ctx, filepath.Join(dir, entry.Name()))
	}
	return nil
}

// handleEvent reacts to one filesystem event.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	dom, source, ok := w.classify(event.Name)

	switch {
	case event.Op.Has(fsnotify.Create):
		// A new directory directly under root may be a new domain dir.
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if filepath.Dir(event.Name) == w.root && w.domains[domain.Domain(filepath.Base(event.Name))] {
				if err := w.addDomainDir(ctx, event.Name); err != nil {
					logger.Warn("watch %s: %v", event.Name, err)
				}
			}
			return
		}
		if ok {
			w.scheduleIngest(ctx, event.Name)
		}
	case event.Op.Has(fsnotify.Write):
		if ok {
			w.scheduleIngest(ctx, event.Name)
		}
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		if !ok {
			return
		}
		removed, err := w.knowledge.Remove(ctx, dom, source)
		if err != nil {
			logger.Warn("remove %s from %s: %v", source, dom, err)
		} else if removed {
			logger.Info("removed %s from %s", source, dom)
		}
	}
}

// scheduleIngest (re)arms the debounce timer for one path.
func (w *Watcher) scheduleIngest(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.ingest(ctx, path)
	})
}

// ingest pushes one file into its domain's knowledge base.
func (w *Watcher) ingest(ctx context.Context, path string) {
	dom, _, ok := w.classify(path)
	if !ok {
		return
	}

	report, err := w.knowledge.IngestFile(ctx, dom, path)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedFormat) {
			logger.Debug("skipping %s: unsupported format", path)
			return
		}
		logger.Warn("ingest %s: %v", path, err)
		return
	}
	logger.Info("ingested %s into %s (%d chunks)", report.Source, report.Domain, report.Chunks)
}

// classify maps a path under root to its domain and source name.
func (w *Watcher) classify(path string) (domain.Domain, string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", "", false
	}

	dir, file := filepath.Split(rel)
	dom := domain.Domain(filepath.Clean(dir))
	if file == "" || !w.domains[dom] {
		return "", "", false
	}
	return dom, file, true
}

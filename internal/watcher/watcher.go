// Package watcher watches search-path directories with fsnotify and reports
// changed javadoc documents by document name, debounced.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/hyperjump/docreader/internal/docname"
)

const defaultDebounce = 400 * time.Millisecond

// Watcher watches directories and invokes a callback when a document below
// one of them is created, written, renamed or removed.
type Watcher struct {
	roots       []string
	onChange    func(name string)
	debounce    time.Duration
	watcher     *fsnotify.Watcher
	mu          sync.Mutex
	debounceMap map[string]*time.Timer
	done        chan struct{}
	started     bool
	stopOnce    sync.Once
	logger      *zap.Logger // optional; when set, logs debug events
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets a logger for debug output (directory changes, file events, etc.).
func WithLogger(l *zap.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce sets how long events for one document are coalesced.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a watcher over roots. onChange receives the
// slash-separated document name, relative to the root it was found under.
func NewWatcher(roots []string, onChange func(name string), opts ...WatcherOption) *Watcher {
	w := &Watcher{
		onChange:    onChange,
		debounce:    defaultDebounce,
		debounceMap: make(map[string]*time.Timer),
		done:        make(chan struct{}),
	}
	for _, root := range roots {
		if abs, err := filepath.Abs(root); err == nil {
			w.roots = append(w.roots, abs)
		}
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start starts the watcher. It runs until ctx is cancelled or Stop is called.
// Roots that are not directories are skipped. For a root that does not exist
// yet, the nearest existing parent is watched so that the root is picked up
// once it is created; missing roots are never created.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.watcher = watcher
	w.started = true
	w.debugf("watcher starting", zap.Strings("roots", w.roots))
	for _, root := range w.roots {
		if err := w.addRootLocked(root); err != nil {
			_ = w.watcher.Close()
			w.watcher = nil
			w.started = false
			w.mu.Unlock()
			return err
		}
	}
	w.mu.Unlock()
	go w.run(ctx, watcher)
	return nil
}

func (w *Watcher) run(ctx context.Context, watcher *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.debugf("watcher error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	path := ev.Name
	w.debugf("watcher event", zap.String("op", ev.Op.String()), zap.String("path", path))
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if w.relevant(filepath.Clean(path)) {
				w.handleNewDirectory(path)
			}
			return
		}
	}
	if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		for _, name := range w.documentNames(path) {
			w.debounceChange(name)
		}
	}
}

// handleNewDirectory watches a directory created (or moved) below a root and
// reports every document already inside it.
func (w *Watcher) handleNewDirectory(dirPath string) {
	w.debugf("watcher handling new directory", zap.String("path", dirPath))

	w.mu.Lock()
	watcher := w.watcher
	w.mu.Unlock()
	if watcher == nil {
		return
	}

	_ = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if !w.relevant(filepath.Clean(path)) {
				return filepath.SkipDir
			}
			if err := watcher.Add(path); err != nil {
				w.debugf("watcher failed to add directory", zap.String("path", path), zap.Error(err))
			}
			return nil
		}
		for _, name := range w.documentNames(path) {
			w.debounceChange(name)
		}
		return nil
	})
}

// documentNames returns the document name of path under every root that
// contains it.
func (w *Watcher) documentNames(path string) []string {
	clean := filepath.Clean(path)
	var names []string
	for _, root := range w.roots {
		rel, ok := relDir(root, clean)
		if !ok {
			continue
		}
		name := filepath.ToSlash(rel)
		if _, ok := docname.ToType(name); ok {
			names = append(names, name)
		}
	}
	return names
}

// relevant reports whether dir is a root, lies below one, or is an ancestor
// of a root that may still be created.
func (w *Watcher) relevant(dir string) bool {
	for _, root := range w.roots {
		if dir == root {
			return true
		}
		if _, ok := relDir(root, dir); ok {
			return true
		}
		if _, ok := relDir(dir, root); ok {
			return true
		}
	}
	return false
}

func relDir(dir, path string) (string, bool) {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

func (w *Watcher) debounceChange(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	if t, ok := w.debounceMap[name]; ok {
		t.Stop()
	}
	w.debounceMap[name] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.debounceMap, name)
		w.mu.Unlock()
		w.debugf("watcher document changed (debounced)", zap.String("document", name))
		if w.onChange != nil {
			w.onChange(name)
		}
	})
}

func (w *Watcher) addRootLocked(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return w.watchParentLocked(root)
		}
		return err
	}
	if !info.IsDir() {
		w.debugf("watcher skipping non-directory", zap.String("path", root))
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.watcher.Add(path)
	})
}

// watchParentLocked watches the nearest existing ancestor of a missing root,
// without recursing into it.
func (w *Watcher) watchParentLocked(root string) error {
	for dir := filepath.Dir(root); ; dir = filepath.Dir(dir) {
		info, err := os.Stat(dir)
		switch {
		case err == nil && info.IsDir():
			w.debugf("watcher waiting for missing directory", zap.String("path", root), zap.String("parent", dir))
			return w.watcher.Add(dir)
		case err == nil, !errors.Is(err, fs.ErrNotExist):
			w.debugf("watcher skipping missing directory", zap.String("path", root))
			return nil
		}
		if dir == filepath.Dir(dir) {
			return nil
		}
	}
}

func (w *Watcher) directories() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.roots...)
}

// Stop stops the watcher and releases resources. Pending debounced callbacks
// are dropped.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started || w.watcher == nil {
		w.mu.Unlock()
		return
	}
	for name, t := range w.debounceMap {
		t.Stop()
		delete(w.debounceMap, name)
	}
	_ = w.watcher.Close()
	w.watcher = nil
	w.started = false
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.done) })
}

func (w *Watcher) debugf(msg string, fields ...zap.Field) {
	if w.logger != nil {
		w.logger.Debug(msg, fields...)
	}
}

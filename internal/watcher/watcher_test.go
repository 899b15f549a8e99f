package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recorder struct {
	mu    sync.Mutex
	names []string
}

func (r *recorder) onChange(name string) {
	r.mu.Lock()
	r.names = append(r.names, name)
	r.mu.Unlock()
}

func (r *recorder) has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.names {
		if n == name {
			return true
		}
	}
	return false
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}

func startWatcher(t *testing.T, roots []string, rec *recorder) *Watcher {
	t.Helper()
	w := NewWatcher(roots, rec.onChange, WithDebounce(50*time.Millisecond), WithLogger(zap.NewNop()))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, w.Start(ctx))
	t.Cleanup(w.Stop)
	return w
}

func TestWatcher_reportsDocumentNames(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "com", "example")
	require.NoError(t, os.MkdirAll(sub, 0755))
	rec := &recorder{}
	startWatcher(t, []string{dir}, rec)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "SimpleType.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "notes.txt"), []byte("x"), 0644))

	assert.Eventually(t, func() bool { return rec.has("com/example/SimpleType.json") }, 2*time.Second, 20*time.Millisecond)
	for _, name := range rec.snapshot() {
		assert.NotEqual(t, "com/example/notes.txt", name)
	}
}

func TestWatcher_reportsRemoval(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Gone.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
	rec := &recorder{}
	startWatcher(t, []string{dir}, rec)

	require.NoError(t, os.Remove(path))
	assert.Eventually(t, func() bool { return rec.has("Gone.json") }, 2*time.Second, 20*time.Millisecond)
}

func TestWatcher_debouncesBursts(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, []string{dir}, rec)

	path := filepath.Join(dir, "Burst.json")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
	}
	assert.Eventually(t, func() bool { return rec.has("Burst.json") }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Len(t, rec.snapshot(), 1)
}

func TestWatcher_newDirectory(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, []string{dir}, rec)

	nested := filepath.Join(dir, "org", "sample")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "Deep.json"), []byte("{}"), 0644))

	assert.Eventually(t, func() bool { return rec.has("org/sample/Deep.json") }, 2*time.Second, 20*time.Millisecond)
}

func TestWatcher_skipsMissingRoots(t *testing.T) {
	base := t.TempDir()
	missing := filepath.Join(base, "does-not-exist")
	file := filepath.Join(base, "file.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0644))
	real := filepath.Join(base, "real")
	require.NoError(t, os.Mkdir(real, 0755))
	rec := &recorder{}
	w := startWatcher(t, []string{missing, file, real}, rec)

	_, err := os.Stat(missing)
	assert.True(t, os.IsNotExist(err), "missing roots must not be created")
	assert.Len(t, w.directories(), 3)

	require.NoError(t, os.WriteFile(filepath.Join(real, "A.json"), []byte("{}"), 0644))
	assert.Eventually(t, func() bool { return rec.has("A.json") }, 2*time.Second, 20*time.Millisecond)
}

func TestWatcher_rootCreatedAfterStart(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "build", "json")
	unrelated := filepath.Join(base, "other")
	rec := &recorder{}
	startWatcher(t, []string{root}, rec)

	require.NoError(t, os.MkdirAll(unrelated, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(unrelated, "Other.json"), []byte("{}"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "com"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "com", "Late.json"), []byte("{}"), 0644))

	assert.Eventually(t, func() bool { return rec.has("com/Late.json") }, 2*time.Second, 20*time.Millisecond)
	for _, name := range rec.snapshot() {
		assert.NotEqual(t, "Other.json", name)
	}
}

func TestWatcher_relevant(t *testing.T) {
	w := NewWatcher([]string{"/tmp/base/build/json"}, nil)
	assert.True(t, w.relevant("/tmp/base/build/json"))
	assert.True(t, w.relevant("/tmp/base/build/json/com"))
	assert.True(t, w.relevant("/tmp/base/build"))
	assert.False(t, w.relevant("/tmp/base/other"))
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := NewWatcher([]string{t.TempDir()}, nil)
	require.NoError(t, w.Start(context.Background()))
	w.Stop()
	w.Stop()
}

func TestRelDir(t *testing.T) {
	tests := []struct {
		dir    string
		path   string
		want   string
		wantOK bool
	}{
		{"/tmp/a", "/tmp/a", "", false},
		{"/tmp/a", "/tmp/a/b.json", "b.json", true},
		{"/tmp/a", "/tmp/b", "", false},
		{"/tmp/a", "/tmp/a/../b", "", false},
	}
	for _, tt := range tests {
		got, ok := relDir(tt.dir, filepath.Clean(tt.path))
		assert.Equal(t, tt.wantOK, ok, "%s in %s", tt.path, tt.dir)
		assert.Equal(t, filepath.FromSlash(tt.want), got)
	}
}

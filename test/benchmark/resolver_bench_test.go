package benchmark

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/docreader/internal/docname"
	"github.com/hyperjump/docreader/internal/javadoc"
	"github.com/hyperjump/docreader/internal/searchpath"
)

const benchDoc = `{"comment": "Type comment", "fields": {"amount": {"comment": "Amount.", "tags": {"deprecated": "Use total."}}},
"methods": {"total": {"comment": "Total.", "parameters": {"currency": "ISO currency"}}}}`

// writeBenchDocs writes n documents into the last of dirs; the earlier
// directories stay empty so every lookup walks the whole search path.
func writeBenchDocs(b *testing.B, n int, dirs ...string) []string {
	b.Helper()
	types := make([]string, n)
	last := dirs[len(dirs)-1]
	for i := 0; i < n; i++ {
		types[i] = fmt.Sprintf("com.example.bench.Type%d", i)
		name, err := docname.FromType(types[i])
		if err != nil {
			b.Fatal(err)
		}
		path := filepath.Join(last, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			b.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(benchDoc), 0644); err != nil {
			b.Fatal(err)
		}
	}
	return types
}

func benchDirs(b *testing.B) []string {
	return []string{b.TempDir(), b.TempDir(), b.TempDir()}
}

func BenchmarkResolver_Cached(b *testing.B) {
	dirs := benchDirs(b)
	types := writeBenchDocs(b, 100, dirs...)
	r := javadoc.New(javadoc.Config{SearchPath: dirs})
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.FieldTag(ctx, types[i%len(types)], "amount", "deprecated")
	}
}

func BenchmarkResolver_Uncached(b *testing.B) {
	dirs := benchDirs(b)
	types := writeBenchDocs(b, 100, dirs...)
	r := javadoc.New(javadoc.Config{SearchPath: dirs, CacheSize: -1})
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.MethodParameterComment(ctx, types[i%len(types)], "total", "currency")
	}
}

func BenchmarkResolver_CachedParallel(b *testing.B) {
	dirs := benchDirs(b)
	types := writeBenchDocs(b, 100, dirs...)
	r := javadoc.New(javadoc.Config{SearchPath: dirs})
	ctx := context.Background()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _ = r.FieldComment(ctx, types[i%len(types)], "amount")
			i++
		}
	})
}

func BenchmarkSearchPathParse(b *testing.B) {
	raw := " ,./build/json, /opt/docs/json ,, ~/more-json"
	for i := 0; i < b.N; i++ {
		_ = searchpath.Parse(raw)
	}
}

// Package javadoc resolves extracted javadoc comments for types, fields,
// methods, tags and method parameters. Documents are looked up in an ordered
// list of directories and then in a bundled fallback source.
package javadoc

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/hyperjump/docreader/internal/docname"
	"github.com/hyperjump/docreader/internal/models"
)

// DefaultCacheSize is the number of documents kept when Config.CacheSize is 0.
const DefaultCacheSize = 512

// Config configures a Resolver.
type Config struct {
	// SearchPath lists directories in priority order; the first directory
	// holding a document wins.
	SearchPath []string
	// Fallback is consulted only when no search-path directory has the
	// document. Nil means no fallback.
	Fallback Source
	// CacheSize bounds the number of cached documents. Zero selects
	// DefaultCacheSize; a negative value disables caching.
	CacheSize int
	// Logger receives debug events. Nil disables logging.
	Logger *zap.Logger
}

// Resolver resolves documentation text. It is safe for concurrent use and
// holds no process-wide state.
type Resolver struct {
	searchPath []string
	dirs       []Source
	fallback   Source
	cache      *docCache
	group      singleflight.Group
	generation atomic.Uint64
	logger     *zap.Logger
}

// New returns a Resolver for cfg.
func New(cfg Config) *Resolver {
	r := &Resolver{
		searchPath: append([]string(nil), cfg.SearchPath...),
		fallback:   cfg.Fallback,
		logger:     cfg.Logger,
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	for _, dir := range r.searchPath {
		r.dirs = append(r.dirs, DirSource(dir))
	}
	switch {
	case cfg.CacheSize == 0:
		r.cache = newDocCache(DefaultCacheSize)
	case cfg.CacheSize > 0:
		r.cache = newDocCache(cfg.CacheSize)
	}
	return r
}

// SearchPath returns a copy of the configured directories.
func (r *Resolver) SearchPath() []string {
	return append([]string(nil), r.searchPath...)
}

// Fallback returns the fallback source, or nil.
func (r *Resolver) Fallback() Source {
	return r.fallback
}

// TypeComment returns the comment on the type itself.
func (r *Resolver) TypeComment(ctx context.Context, typeName string) (string, error) {
	doc, err := r.Document(ctx, typeName)
	return doc.TypeComment(), err
}

// TypeTag returns the text of a tag on the type itself.
func (r *Resolver) TypeTag(ctx context.Context, typeName, tag string) (string, error) {
	doc, err := r.Document(ctx, typeName)
	return doc.Tag(tag), err
}

// FieldComment returns the comment on a field.
func (r *Resolver) FieldComment(ctx context.Context, typeName, field string) (string, error) {
	doc, err := r.Document(ctx, typeName)
	return doc.FieldComment(field), err
}

// FieldTag returns the text of a tag on a field.
func (r *Resolver) FieldTag(ctx context.Context, typeName, field, tag string) (string, error) {
	doc, err := r.Document(ctx, typeName)
	return doc.FieldTag(field, tag), err
}

// MethodComment returns the comment on a method.
func (r *Resolver) MethodComment(ctx context.Context, typeName, method string) (string, error) {
	doc, err := r.Document(ctx, typeName)
	return doc.MethodComment(method), err
}

// MethodTag returns the text of a tag on a method.
func (r *Resolver) MethodTag(ctx context.Context, typeName, method, tag string) (string, error) {
	doc, err := r.Document(ctx, typeName)
	return doc.MethodTag(method, tag), err
}

// MethodParameterComment returns the comment on a method parameter.
func (r *Resolver) MethodParameterComment(ctx context.Context, typeName, method, param string) (string, error) {
	doc, err := r.Document(ctx, typeName)
	return doc.MethodParameterComment(method, param), err
}

// Document returns the active document for typeName, or nil when no source
// has one. Absence is never an error; a document that exists but cannot be
// decoded is, and the error wraps models.ErrMalformed.
func (r *Resolver) Document(ctx context.Context, typeName string) (*models.ClassDoc, error) {
	name, err := docname.FromType(typeName)
	if err != nil {
		r.logger.Debug("javadoc type name not resolvable", zap.String("type", typeName), zap.Error(err))
		return nil, nil
	}
	return r.document(ctx, name)
}

func (r *Resolver) document(ctx context.Context, name string) (*models.ClassDoc, error) {
	if r.cache != nil {
		if doc, ok := r.cache.get(name); ok {
			return doc, nil
		}
	}
	generation := r.generation.Load()
	// The load is shared with every caller asking for name meanwhile, so it
	// must not stop when this caller's ctx does.
	ch := r.group.DoChan(name, func() (interface{}, error) {
		return r.load(context.WithoutCancel(ctx), name)
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	doc := res.Val.(*models.ClassDoc)
	// Entries loaded across an invalidation may be stale.
	if r.cache != nil && r.generation.Load() == generation {
		r.cache.set(name, doc)
	}
	return doc, nil
}

func (r *Resolver) load(ctx context.Context, name string) (*models.ClassDoc, error) {
	for _, dir := range r.dirs {
		doc, found, err := r.loadFrom(ctx, dir, name)
		if found || err != nil {
			return doc, err
		}
	}
	if r.fallback != nil {
		doc, found, err := r.loadFrom(ctx, r.fallback, name)
		if found || err != nil {
			if found {
				r.logger.Debug("javadoc resolved from fallback", zap.String("document", name), zap.Stringer("source", r.fallback))
			}
			return doc, err
		}
	}
	r.logger.Debug("javadoc document not found", zap.String("document", name))
	return nil, nil
}

func (r *Resolver) loadFrom(ctx context.Context, src Source, name string) (*models.ClassDoc, bool, error) {
	data, err := src.Load(ctx, name)
	if errors.Is(err, fs.ErrNotExist) {
		r.logger.Debug("javadoc document not in source", zap.String("document", name), zap.Stringer("source", src))
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s from %s: %w", name, src, err)
	}
	doc, err := models.ParseClassDoc(data)
	if err != nil {
		return nil, true, fmt.Errorf("%s in %s: %w", name, src, err)
	}
	return doc, true, nil
}

// Invalidate drops the cached document for typeName.
func (r *Resolver) Invalidate(typeName string) {
	name, err := docname.FromType(typeName)
	if err != nil {
		return
	}
	r.InvalidateName(name)
}

// InvalidateName drops the cached document stored under a document name.
func (r *Resolver) InvalidateName(name string) {
	r.generation.Add(1)
	r.group.Forget(name)
	if r.cache != nil {
		r.cache.remove(name)
	}
	r.logger.Debug("javadoc cache entry invalidated", zap.String("document", name))
}

// Purge drops every cached document.
func (r *Resolver) Purge() {
	r.generation.Add(1)
	if r.cache != nil {
		r.cache.purge()
	}
}

// cachedDocuments reports how many documents, including recorded misses, are
// cached.
func (r *Resolver) cachedDocuments() int {
	if r.cache == nil {
		return 0
	}
	return r.cache.len()
}

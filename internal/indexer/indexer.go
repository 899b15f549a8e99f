// Package indexer packs extracted javadoc documents from a directory tree into
// a bundle database.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/docreader/internal/docname"
	"github.com/hyperjump/docreader/internal/models"
	"github.com/hyperjump/docreader/internal/storage"
)

// Indexer stores javadoc documents in a bundle.
type Indexer struct {
	storage storage.Storage
	logger  *zap.Logger // optional; when set, logs debug events
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for debug output (file indexed, file skipped, etc.).
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// NewIndexer creates an indexer writing to store.
func NewIndexer(store storage.Storage, opts ...IndexerOption) *Indexer {
	idx := &Indexer{storage: store}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// IndexFile validates the document at path and stores it under its name
// relative to root. A document that does not decode is rejected, so a broken
// extraction never reaches a bundle. Files already stored with the same size
// and mtime are skipped.
func (idx *Indexer) IndexFile(ctx context.Context, root, path string) error {
	if idx.logger != nil {
		idx.logger.Debug("indexer indexing file", zap.String("path", path))
	}
	name, absPath, err := documentName(root, path)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", absPath)
	}
	if idx.shouldSkipFile(ctx, name, absPath, info) {
		if idx.logger != nil {
			idx.logger.Debug("indexer skipping unchanged file", zap.String("path", absPath))
		}
		return nil
	}
	content, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	if _, err := models.ParseClassDoc(content); err != nil {
		return fmt.Errorf("%s: %w", absPath, err)
	}
	doc := &models.StoredDocument{
		Name:        name,
		Content:     content,
		SourcePath:  absPath,
		SourceMtime: info.ModTime().UnixNano(),
		SourceSize:  info.Size(),
	}
	if err := idx.storage.PutDocument(ctx, doc); err != nil {
		return fmt.Errorf("failed to store document: %w", err)
	}
	if idx.logger != nil {
		idx.logger.Debug("indexer file indexed", zap.String("path", absPath), zap.String("document", name))
	}
	return nil
}

// documentName returns the slash-separated document name of path below root.
func documentName(root, path string) (name, absPath string, err error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", "", fmt.Errorf("absolute path: %w", err)
	}
	absPath, err = filepath.Abs(path)
	if err != nil {
		return "", "", fmt.Errorf("absolute path: %w", err)
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", "", fmt.Errorf("%s is not below %s", absPath, absRoot)
	}
	name = filepath.ToSlash(rel)
	if _, ok := docname.ToType(name); !ok {
		return "", "", fmt.Errorf("not a javadoc document name: %s", name)
	}
	return name, absPath, nil
}

// shouldSkipFile returns true if the file is already stored with the same
// source path, mtime and size.
func (idx *Indexer) shouldSkipFile(ctx context.Context, name, absPath string, info os.FileInfo) bool {
	doc, err := idx.storage.GetDocument(ctx, name)
	if err != nil {
		return false
	}
	return doc.SourcePath == absPath &&
		doc.SourceMtime == info.ModTime().UnixNano() &&
		doc.SourceSize == info.Size()
}

// IndexDirectory walks dir recursively and indexes each regular file with the
// document extension, naming documents relative to dir. Returns the number of
// files indexed and the first error encountered, if any.
func (idx *Indexer) IndexDirectory(ctx context.Context, dir string) (n int, err error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return 0, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", absDir)
	}
	err = filepath.WalkDir(absDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), docname.Extension) {
			return nil
		}
		// Resolve symlinks so we only index regular files
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		if indexErr := idx.IndexFile(ctx, absDir, path); indexErr != nil {
			return indexErr
		}
		n++
		return nil
	})
	return n, err
}

const pruneBatchSize = 500

// PruneDirectory removes bundled documents that were packed from below dir
// and whose source file no longer exists. Documents packed from other
// directories are left alone. Returns the number of documents removed.
func (idx *Indexer) PruneDirectory(ctx context.Context, dir string) (int, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	var stale []string
	for offset := 0; ; offset += pruneBatchSize {
		docs, err := idx.storage.ListDocuments(ctx, offset, pruneBatchSize)
		if err != nil {
			return 0, fmt.Errorf("failed to list documents: %w", err)
		}
		for _, doc := range docs {
			if doc.SourcePath == "" {
				continue
			}
			rel, err := filepath.Rel(absDir, doc.SourcePath)
			if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				continue
			}
			if _, err := os.Stat(doc.SourcePath); errors.Is(err, fs.ErrNotExist) {
				stale = append(stale, doc.Name)
			}
		}
		if len(docs) < pruneBatchSize {
			break
		}
	}
	for _, name := range stale {
		if err := idx.DeleteDocument(ctx, name); err != nil {
			return 0, err
		}
	}
	return len(stale), nil
}

// DeleteDocument removes a document from the bundle.
func (idx *Indexer) DeleteDocument(ctx context.Context, name string) error {
	if idx.logger != nil {
		idx.logger.Debug("indexer deleting document", zap.String("document", name))
	}
	if err := idx.storage.DeleteDocument(ctx, name); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

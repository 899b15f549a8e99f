package javadoc

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/hyperjump/docreader/internal/storage"
)

// Source loads raw documents by document name. Load returns an error
// satisfying errors.Is(err, fs.ErrNotExist) when the source has no such
// document; any other error is reported to the caller.
type Source interface {
	Load(ctx context.Context, name string) ([]byte, error)
	String() string
}

// DirSource reads documents from a directory on disk. The directory does not
// have to exist.
type DirSource string

// Load reads name below the directory. A missing directory, a directory
// entry that is not a directory, or a name that resolves to a directory all
// count as not found.
func (d DirSource) Load(_ context.Context, name string) ([]byte, error) {
	p := filepath.Join(string(d), filepath.FromSlash(name))
	info, err := os.Stat(p)
	if err != nil {
		if isNotFound(err) {
			return nil, fs.ErrNotExist
		}
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fs.ErrNotExist
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if isNotFound(err) {
			return nil, fs.ErrNotExist
		}
		return nil, err
	}
	return data, nil
}

func (d DirSource) String() string { return string(d) }

func isNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

type fsSource struct {
	fsys fs.FS
	name string
}

// FSSource wraps a file system holding bundled documents, such as an
// embed.FS or os.DirFS. label is only used in logs and status output.
func FSSource(fsys fs.FS, label string) Source {
	return &fsSource{fsys: fsys, name: label}
}

func (s *fsSource) Load(_ context.Context, name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, fs.ErrNotExist
	}
	info, err := fs.Stat(s.fsys, name)
	if err != nil {
		if isNotFound(err) {
			return nil, fs.ErrNotExist
		}
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fs.ErrNotExist
	}
	return fs.ReadFile(s.fsys, name)
}

func (s *fsSource) String() string { return s.name }

type storageSource struct {
	store storage.Storage
	label string
}

// StorageSource reads bundled documents from a bundle database.
func StorageSource(store storage.Storage, label string) Source {
	return &storageSource{store: store, label: label}
}

func (s *storageSource) Load(ctx context.Context, name string) ([]byte, error) {
	doc, err := s.store.GetDocument(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fs.ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %w", s.label, err)
	}
	return doc.Content, nil
}

func (s *storageSource) String() string { return s.label }

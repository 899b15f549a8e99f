// Package storage defines the persistence interface for bundled javadoc
// documents.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/docreader/internal/models"
)

// ErrNotFound is returned when a bundle has no document of the given name.
var ErrNotFound = errors.New("document not found")

// Storage keeps raw javadoc documents keyed by document name.
type Storage interface {
	PutDocument(ctx context.Context, doc *models.StoredDocument) error
	GetDocument(ctx context.Context, name string) (*models.StoredDocument, error)
	DeleteDocument(ctx context.Context, name string) error
	ListDocuments(ctx context.Context, offset, limit int) ([]*models.StoredDocument, error)
	CountDocuments(ctx context.Context) (int64, error)

	BundleInfo(ctx context.Context) (*models.BundleInfo, error)

	Close() error
}

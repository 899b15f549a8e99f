package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/docreader/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a bundle database at dbPath and initializes
// the schema. Parent directories are created if they do not exist. A new
// database is stamped with a random bundle id.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS bundle (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS documents (
		name TEXT PRIMARY KEY,
		content BLOB NOT NULL,
		source_path TEXT,
		source_mtime INTEGER,
		source_size INTEGER,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	_, err := db.Exec(
		`INSERT INTO bundle (id, created_at)
		 SELECT ?, ? WHERE NOT EXISTS (SELECT 1 FROM bundle)`,
		uuid.New().String(), time.Now(),
	)
	return err
}

// PutDocument inserts a document or replaces the content of an existing one.
func (s *SQLiteStorage) PutDocument(ctx context.Context, doc *models.StoredDocument) error {
	if doc.Name == "" {
		return errors.New("document name is required")
	}
	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (name, content, source_path, source_mtime, source_size, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			content = excluded.content,
			source_path = excluded.source_path,
			source_mtime = excluded.source_mtime,
			source_size = excluded.source_size,
			updated_at = excluded.updated_at`,
		doc.Name, doc.Content, doc.SourcePath, doc.SourceMtime, doc.SourceSize, doc.CreatedAt, doc.UpdatedAt,
	)
	return err
}

// GetDocument returns a document by name, or an error wrapping ErrNotFound.
func (s *SQLiteStorage) GetDocument(ctx context.Context, name string) (*models.StoredDocument, error) {
	var doc models.StoredDocument
	var sourcePath sql.NullString
	var sourceMtime, sourceSize sql.NullInt64

	err := s.db.QueryRowContext(ctx,
		`SELECT name, content, source_path, source_mtime, source_size, created_at, updated_at
		 FROM documents WHERE name = ?`, name,
	).Scan(&doc.Name, &doc.Content, &sourcePath, &sourceMtime, &sourceSize, &doc.CreatedAt, &doc.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	doc.SourcePath = sourcePath.String
	doc.SourceMtime = sourceMtime.Int64
	doc.SourceSize = sourceSize.Int64
	return &doc, nil
}

// DeleteDocument removes a document by name. Deleting a missing name is not
// an error.
func (s *SQLiteStorage) DeleteDocument(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE name = ?`, name)
	return err
}

// ListDocuments returns documents ordered by name, without their content.
func (s *SQLiteStorage) ListDocuments(ctx context.Context, offset, limit int) ([]*models.StoredDocument, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, source_path, source_mtime, source_size, created_at, updated_at
		 FROM documents ORDER BY name LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.StoredDocument
	for rows.Next() {
		var doc models.StoredDocument
		var sourcePath sql.NullString
		var sourceMtime, sourceSize sql.NullInt64
		if err := rows.Scan(&doc.Name, &sourcePath, &sourceMtime, &sourceSize, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		doc.SourcePath = sourcePath.String
		doc.SourceMtime = sourceMtime.Int64
		doc.SourceSize = sourceSize.Int64
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// CountDocuments returns the total number of documents.
func (s *SQLiteStorage) CountDocuments(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}

// BundleInfo returns the id and creation time stamped on the database.
func (s *SQLiteStorage) BundleInfo(ctx context.Context) (*models.BundleInfo, error) {
	var info models.BundleInfo
	err := s.db.QueryRowContext(ctx, `SELECT id, created_at FROM bundle LIMIT 1`).
		Scan(&info.ID, &info.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle info: %w", err)
	}
	return &info, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

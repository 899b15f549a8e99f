// Package models defines the javadoc document read for a type and the rows a
// document bundle stores.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMalformed marks a document whose content could not be decoded.
var ErrMalformed = errors.New("malformed javadoc document")

// ClassDoc is the extracted documentation of one type. It is never mutated
// after ParseClassDoc returns it.
type ClassDoc struct {
	Comment string               `json:"comment,omitempty"`
	Tags    map[string]string    `json:"tags,omitempty"`
	Fields  map[string]FieldDoc  `json:"fields,omitempty"`
	Methods map[string]MethodDoc `json:"methods,omitempty"`
}

// FieldDoc is the documentation of a single field.
type FieldDoc struct {
	Comment string            `json:"comment,omitempty"`
	Tags    map[string]string `json:"tags,omitempty"`
}

// MethodDoc is the documentation of a single method, keyed in ClassDoc by
// method name.
type MethodDoc struct {
	Comment    string            `json:"comment,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty"`
	Tags       map[string]string `json:"tags,omitempty"`
}

// ParseClassDoc decodes a javadoc document. Unknown keys are ignored; syntax
// errors, type mismatches and a top-level null wrap ErrMalformed. Text is kept
// as written, except that invalid UTF-8 bytes in a string decode to U+FFFD.
func ParseClassDoc(data []byte) (*ClassDoc, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}
	var doc ClassDoc
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &doc, nil
}

// Tag returns the type-level tag text, or "" when absent.
func (c *ClassDoc) Tag(tag string) string {
	if c == nil {
		return ""
	}
	return c.Tags[tag]
}

// TypeComment returns the type-level comment, or "" when absent.
func (c *ClassDoc) TypeComment() string {
	if c == nil {
		return ""
	}
	return c.Comment
}

// FieldComment returns the comment of field, or "" when absent.
func (c *ClassDoc) FieldComment(field string) string {
	if c == nil {
		return ""
	}
	return c.Fields[field].Comment
}

// FieldTag returns the text of tag on field, or "" when absent.
func (c *ClassDoc) FieldTag(field, tag string) string {
	if c == nil {
		return ""
	}
	return c.Fields[field].Tags[tag]
}

// MethodComment returns the comment of method, or "" when absent.
func (c *ClassDoc) MethodComment(method string) string {
	if c == nil {
		return ""
	}
	return c.Methods[method].Comment
}

// MethodTag returns the text of tag on method, or "" when absent.
func (c *ClassDoc) MethodTag(method, tag string) string {
	if c == nil {
		return ""
	}
	return c.Methods[method].Tags[tag]
}

// MethodParameterComment returns the comment of param on method, or "" when
// absent.
func (c *ClassDoc) MethodParameterComment(method, param string) string {
	if c == nil {
		return ""
	}
	return c.Methods[method].Parameters[param]
}

// StoredDocument is a raw document kept in a bundle under its document name.
type StoredDocument struct {
	Name        string    `json:"name" db:"name"`
	Content     []byte    `json:"-" db:"content"`
	SourcePath  string    `json:"source_path,omitempty" db:"source_path"`
	SourceMtime int64     `json:"source_mtime,omitempty" db:"source_mtime"`
	SourceSize  int64     `json:"source_size,omitempty" db:"source_size"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// BundleInfo identifies a bundle database.
type BundleInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

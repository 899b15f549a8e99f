// Package docname maps fully-qualified type names onto the relative file names
// the javadoc doclet writes, and back.
package docname

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Extension is appended to every document name.
const Extension = ".json"

// ErrInvalidTypeName is returned for names that cannot address a document.
var ErrInvalidTypeName = errors.New("invalid type name")

// FromType returns the slash-separated document name for a binary type name.
// Package separators become directories and nested-type separators ('$') are
// written as '.', matching the canonical names used by the doclet:
//
//	com.example.Outer$Inner -> com/example/Outer.Inner.json
func FromType(typeName string) (string, error) {
	if typeName == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidTypeName)
	}
	if strings.ContainsAny(typeName, `/\`) {
		return "", fmt.Errorf("%w: %q contains a path separator", ErrInvalidTypeName, typeName)
	}
	segments := strings.Split(typeName, ".")
	for _, s := range segments {
		if s == "" || strings.HasPrefix(s, "$") || strings.HasSuffix(s, "$") || strings.Contains(s, "$$") {
			return "", fmt.Errorf("%w: %q", ErrInvalidTypeName, typeName)
		}
	}
	last := len(segments) - 1
	segments[last] = strings.ReplaceAll(segments[last], "$", ".")
	return path.Join(segments...) + Extension, nil
}

// ToType is the inverse of FromType. It reports false when name is not a
// document name.
func ToType(name string) (string, bool) {
	name = strings.TrimPrefix(path.Clean(strings.ReplaceAll(name, `\`, "/")), "/")
	if !strings.HasSuffix(name, Extension) {
		return "", false
	}
	name = strings.TrimSuffix(name, Extension)
	if name == "" || name == "." || strings.HasPrefix(name, "../") {
		return "", false
	}
	dir, base := path.Split(name)
	if base == "" {
		return "", false
	}
	base = strings.ReplaceAll(base, ".", "$")
	pkg := strings.ReplaceAll(strings.TrimSuffix(dir, "/"), "/", ".")
	if pkg == "" {
		return base, true
	}
	return pkg + "." + base, true
}

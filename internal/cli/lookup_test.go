package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/docreader/internal/javadoc"
)

const simpleTypeJSON = `{
  "comment": "Simple type comment",
  "tags": {"since": "1.0"},
  "fields": {
    "simpleField": {
      "comment": "Simple field comment",
      "tags": {"deprecated": "Deprecation comment"}
    }
  },
  "methods": {
    "simpleMethod": {
      "comment": "Simple method comment",
      "parameters": {"simpleParameter": "Simple parameter comment"},
      "tags": {"title": "Simple method title"}
    }
  }
}`

// writeDocs writes name -> content pairs below a fresh directory.
func writeDocs(t *testing.T, docs map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range docs {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func TestLookupValidate(t *testing.T) {
	tests := []struct {
		name    string
		lookup  Lookup
		wantErr error
	}{
		{"type only", Lookup{Type: "T"}, nil},
		{"type tag", Lookup{Type: "T", Tag: "since"}, nil},
		{"field", Lookup{Type: "T", Field: "f"}, nil},
		{"field tag", Lookup{Type: "T", Field: "f", Tag: "deprecated"}, nil},
		{"method param", Lookup{Type: "T", Method: "m", Param: "p"}, nil},
		{"missing type", Lookup{Field: "f"}, errMissingType},
		{"field and method", Lookup{Type: "T", Field: "f", Method: "m"}, errFieldAndMethod},
		{"param without method", Lookup{Type: "T", Param: "p"}, errParamWithoutOwner},
		{"param and tag", Lookup{Type: "T", Method: "m", Param: "p", Tag: "x"}, errParamAndTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.lookup.Validate(), tt.wantErr)
		})
	}
}

func TestResolve(t *testing.T) {
	dir := writeDocs(t, map[string]string{"com/example/SimpleType.json": simpleTypeJSON})
	r := javadoc.New(javadoc.Config{SearchPath: []string{dir}})
	ctx := context.Background()
	const typ = "com.example.SimpleType"

	tests := []struct {
		lookup Lookup
		want   string
	}{
		{Lookup{Type: typ}, "Simple type comment"},
		{Lookup{Type: typ, Tag: "since"}, "1.0"},
		{Lookup{Type: typ, Field: "simpleField"}, "Simple field comment"},
		{Lookup{Type: typ, Field: "simpleField", Tag: "deprecated"}, "Deprecation comment"},
		{Lookup{Type: typ, Method: "simpleMethod"}, "Simple method comment"},
		{Lookup{Type: typ, Method: "simpleMethod", Tag: "title"}, "Simple method title"},
		{Lookup{Type: typ, Method: "simpleMethod", Param: "simpleParameter"}, "Simple parameter comment"},
		{Lookup{Type: typ, Field: "missing"}, ""},
		{Lookup{Type: "com.example.Missing", Method: "simpleMethod"}, ""},
	}
	for _, tt := range tests {
		got, err := Resolve(ctx, r, tt.lookup)
		require.NoError(t, err, "%+v", tt.lookup)
		assert.Equal(t, tt.want, got, "%+v", tt.lookup)
	}

	_, err := Resolve(ctx, r, Lookup{Field: "simpleField"})
	assert.ErrorIs(t, err, errMissingType)
}

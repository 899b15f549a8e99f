package e2e

import (
	"fmt"
	"os"
	"path/filepath"
)

// SimpleTypeJSON returns the canonical SimpleType document, each text suffixed
// with suffix so copies in different locations can be told apart.
func SimpleTypeJSON(suffix string) []byte {
	return []byte(fmt.Sprintf(`{
  "comment": "Simple type comment%[1]s",
  "fields": {
    "simpleField": {
      "comment": "Simple field comment%[1]s",
      "tags": {"deprecated": "Deprecation comment%[1]s"}
    }
  },
  "methods": {
    "simpleMethod": {
      "comment": "Simple method comment%[1]s",
      "parameters": {"simpleParameter": "Simple parameter comment%[1]s"},
      "tags": {"title": "Simple method title%[1]s"}
    }
  }
}`, suffix))
}

// WriteDocuments writes docs below dir, creating package directories as
// needed. Document names are slash-separated.
func WriteDocuments(dir string, docs map[string][]byte) error {
	for name, data := range docs {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return err
		}
	}
	return nil
}

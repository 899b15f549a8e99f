// Package e2e provides end-to-end tests over a generated corpus of javadoc
// documents spread across search-path directories and a bundle.
package e2e

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/hyperjump/docreader/internal/cli"
	"github.com/hyperjump/docreader/internal/docname"
	"github.com/hyperjump/docreader/internal/models"
)

// E2EType is one documented type in the corpus.
type E2EType struct {
	Name string
	Doc  *models.ClassDoc
}

// LookupTestCase is a lookup and the exact text it must resolve to.
type LookupTestCase struct {
	Lookup      cli.Lookup
	Expected    string
	Description string
}

// Corpus holds types and lookup test cases for E2E tests.
type Corpus struct {
	Types        []E2EType
	TestCases    []LookupTestCase
	TotalTypes   int
	TotalLookups int
}

// BuildCorpus returns a corpus of 60 types across several packages, every
// fifth one a nested type. Each comment embeds the type's index so a lookup
// that lands on the wrong document is caught.
func BuildCorpus() *Corpus {
	types := buildTypes(60)
	cases := buildLookupTestCases(types)
	return &Corpus{
		Types:        types,
		TestCases:    cases,
		TotalTypes:   len(types),
		TotalLookups: len(cases),
	}
}

var packages = []string{
	"com.example.billing",
	"com.example.auth",
	"org.acme.util",
	"", // default package
}

func buildTypes(n int) []E2EType {
	types := make([]E2EType, 0, n)
	for i := 0; i < n; i++ {
		pkg := packages[i%len(packages)]
		simple := fmt.Sprintf("Invoice%d", i)
		if i%5 == 0 {
			simple = fmt.Sprintf("Outer%d$Inner", i)
		}
		name := simple
		if pkg != "" {
			name = pkg + "." + simple
		}

		doc := &models.ClassDoc{
			Comment: fmt.Sprintf("Type comment %d with <b>markup</b> kept as is.", i),
			Tags:    map[string]string{"since": fmt.Sprintf("1.%d", i)},
			Fields: map[string]models.FieldDoc{
				"amount": {Comment: fmt.Sprintf("Amount of type %d.", i)},
			},
			Methods: map[string]models.MethodDoc{
				"total": {
					Comment:    fmt.Sprintf("Computes the total for %d.\n\nSecond paragraph.", i),
					Parameters: map[string]string{"currency": fmt.Sprintf("ISO currency for %d", i)},
					Tags:       map[string]string{"title": fmt.Sprintf("Total %d", i)},
				},
			},
		}
		if i%2 == 0 {
			doc.Fields["legacyAmount"] = models.FieldDoc{
				Comment: "Old amount.",
				Tags:    map[string]string{"deprecated": fmt.Sprintf("Use amount instead (%d).", i)},
			}
		}
		types = append(types, E2EType{Name: name, Doc: doc})
	}
	return types
}

func buildLookupTestCases(types []E2EType) []LookupTestCase {
	var cases []LookupTestCase
	for i, typ := range types {
		cases = append(cases,
			LookupTestCase{
				Lookup:      cli.Lookup{Type: typ.Name},
				Expected:    typ.Doc.Comment,
				Description: "type comment",
			},
			LookupTestCase{
				Lookup:      cli.Lookup{Type: typ.Name, Field: "amount"},
				Expected:    typ.Doc.FieldComment("amount"),
				Description: "field comment",
			},
			LookupTestCase{
				Lookup:      cli.Lookup{Type: typ.Name, Method: "total", Param: "currency"},
				Expected:    typ.Doc.MethodParameterComment("total", "currency"),
				Description: "parameter comment",
			},
			LookupTestCase{
				Lookup:      cli.Lookup{Type: typ.Name, Method: "total", Tag: "title"},
				Expected:    typ.Doc.MethodTag("total", "title"),
				Description: "method tag",
			},
			LookupTestCase{
				Lookup:      cli.Lookup{Type: typ.Name, Field: "legacyAmount", Tag: "deprecated"},
				Expected:    typ.Doc.FieldTag("legacyAmount", "deprecated"),
				Description: "field tag, empty on odd types",
			},
		)
		if i%10 == 0 {
			cases = append(cases, LookupTestCase{
				Lookup:      cli.Lookup{Type: typ.Name, Method: "missing"},
				Description: "undocumented method",
			})
		}
	}
	cases = append(cases, LookupTestCase{
		Lookup:      cli.Lookup{Type: "com.example.billing.DoesNotExist", Field: "amount"},
		Description: "missing document",
	})
	return cases
}

// Documents returns the corpus encoded as document name -> JSON content.
func (c *Corpus) Documents() (map[string][]byte, error) {
	docs := make(map[string][]byte, len(c.Types))
	for _, typ := range c.Types {
		name, err := docname.FromType(typ.Name)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(typ.Doc)
		if err != nil {
			return nil, err
		}
		docs[name] = data
	}
	return docs, nil
}

// SplitDocuments deals docs round-robin, in name order, into n sets.
func SplitDocuments(docs map[string][]byte, n int) []map[string][]byte {
	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	sort.Strings(names)
	sets := make([]map[string][]byte, n)
	for i := range sets {
		sets[i] = map[string][]byte{}
	}
	for i, name := range names {
		sets[i%n][name] = docs[name]
	}
	return sets
}

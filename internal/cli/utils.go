package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is the bare resolved text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates a --output value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, "":
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// WriteResult writes one lookup result to w in the given format. Text output
// is the resolved text followed by a newline, and an empty line when the
// member is undocumented.
func WriteResult(w io.Writer, result *Result, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return json.NewEncoder(w).Encode(result)
	default:
		_, err := fmt.Fprintln(w, result.Text)
		return err
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

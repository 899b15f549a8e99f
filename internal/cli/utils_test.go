package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputText, false},
		{"text", OutputText, false},
		{"json", OutputJSON, false},
		{"yaml", "", true},
		{"JSON", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteResult_Text(t *testing.T) {
	var buf bytes.Buffer
	result := &Result{Lookup: Lookup{Type: "SimpleType", Field: "simpleField"}, Text: "Simple field comment"}
	require.NoError(t, WriteResult(&buf, result, OutputText))
	assert.Equal(t, "Simple field comment\n", buf.String())
}

func TestWriteResult_TextUndocumented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, &Result{Lookup: Lookup{Type: "SimpleType"}}, OutputText))
	assert.Equal(t, "\n", buf.String())
}

func TestWriteResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	result := &Result{
		Lookup: Lookup{Type: "SimpleType", Method: "simpleMethod", Param: "simpleParameter"},
		Text:   "Simple parameter comment",
	}
	require.NoError(t, WriteResult(&buf, result, OutputJSON))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, map[string]string{
		"type":   "SimpleType",
		"method": "simpleMethod",
		"param":  "simpleParameter",
		"text":   "Simple parameter comment",
	}, decoded)
}

func TestWriteJSON_Indented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

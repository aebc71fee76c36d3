package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_EffectiveMode(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		mode Mode
		want Mode
	}{
		{ModeAuto, ModeMarkdown}, // a buffer is not a terminal
		{"", ModeMarkdown},
		{ModeText, ModeText},
		{ModeJSON, ModeJSON},
		{ModeYAML, ModeYAML},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewRenderer(&buf, &buf, tt.mode).EffectiveMode(), string(tt.mode))
	}
}

func TestRenderer_NonTTYHasNoEscapes(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeText)

	r.Success("loaded")
	r.Error("boom")
	r.Muted("quiet")

	assert.Equal(t, "✓ loaded\nquiet\n", out.String())
	assert.Equal(t, "✗ boom\n", errOut.String())
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestRenderer_Structured(t *testing.T) {
	payload := struct {
		Name  string `json:"name" yaml:"name"`
		Count int    `json:"count" yaml:"count"`
	}{"Age", 3}

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, &buf, ModeJSON).Structured(payload))
	assert.JSONEq(t, `{"name":"Age","count":3}`, buf.String())

	buf.Reset()
	require.NoError(t, NewRenderer(&buf, &buf, ModeYAML).Structured(payload))
	assert.Equal(t, "name: Age\ncount: 3\n", buf.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Columns", FormatHeader(2, "Columns"))
	assert.Equal(t, "- **Rows**: 3", FormatKeyValue("Rows", "3"))
}

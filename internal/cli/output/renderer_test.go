package output

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode Mode
		tty  bool
		want Mode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{"", false, ModeMarkdown},
		{ModeJSON, true, ModeJSON},
		{ModeText, false, ModeText},
		{ModeMarkdown, true, ModeMarkdown},
	}
	for _, tt := range tests {
		r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.tty, tt.mode)
		assert.Equal(t, tt.want, r.EffectiveMode(), "%s tty=%v", tt.mode, tt.tty)
	}
}

func TestRenderer_Markdown(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	r := NewRendererWithTTY(out, errOut, false, ModeAuto)

	r.Header(1, "Models")
	r.StatusLine("orders.view.lkml", "success", "")
	r.Warning("1 model skipped")

	assert.Equal(t, "# Models\n\n- ✓ orders.view.lkml\n", out.String())
	assert.Equal(t, "**!** 1 model skipped\n", errOut.String())
}

func TestRenderer_TextWithoutTTYHasNoANSI(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeText)

	r.Header(1, "Models")
	r.Success("done")
	assert.False(t, ansi.MatchString(out.String()))
	assert.Contains(t, out.String(), "Models")
	assert.Contains(t, out.String(), "✓ done")
}

func TestRenderer_Table(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeMarkdown)

	r.Table([]string{"Name", "Columns"}, [][]string{{"orders", "4"}})
	assert.Contains(t, out.String(), "| orders | 4 |")
}

func TestRenderer_JSON(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeJSON)

	require.NoError(t, r.JSON(ListOutput{Project: "shop", Models: []ModelInfo{{Name: "orders"}}}))
	assert.Contains(t, out.String(), `"project": "shop"`)
	assert.Contains(t, out.String(), `"name": "orders"`)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "## Views", FormatHeader(2, "Views"))
	assert.Equal(t, "# Views", FormatHeader(0, "Views"))
	assert.Equal(t, "- **Project:** shop", FormatKeyValue("Project", "shop"))
}

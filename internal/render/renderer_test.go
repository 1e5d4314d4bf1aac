package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLRendersMarkdown(t *testing.T) {
	report := "# Does X work?\n\n## Results\n\n| Theme/Tech | a |\n|------------|---|\n| t1 | GAP |\n\n```\nmeter block\n```\n"
	got, err := NewRenderer().HTML(report, "Does X work?")
	require.NoError(t, err)

	assert.Contains(t, got, "<title>Does X work?</title>")
	assert.Contains(t, got, "<h1")
	// GFM tables must render as real tables, not raw pipes.
	assert.Contains(t, got, "<table>")
	assert.Contains(t, got, "<td>GAP</td>")
	assert.Contains(t, got, "meter block")
}

func TestHTMLEscapesTitle(t *testing.T) {
	got, err := NewRenderer().HTML("body", `<script>alert(1)</script>`)
	require.NoError(t, err)
	assert.NotContains(t, got, "<script>alert(1)</script></title>")
	assert.Contains(t, got, "&lt;script&gt;")
}

func TestHTMLPreservesMeterGlyphs(t *testing.T) {
	report := "```\n│  YES      ████████░░░░  50%  (5)   │\n```\n"
	got, err := NewRenderer().HTML(report, "t")
	require.NoError(t, err)
	assert.True(t, strings.Contains(got, "████████░░░░"), "meter glyphs must survive conversion")
}

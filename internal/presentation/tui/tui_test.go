package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintStatus(t *testing.T) {
	t.Run("Plain Output When Not A Terminal", func(t *testing.T) {
		var buf bytes.Buffer
		PrintStatus(&buf, "Opened firefox", true)
		assert.Equal(t, "Opened firefox\n", buf.String())
	})

	t.Run("Empty Status Prints Nothing", func(t *testing.T) {
		var buf bytes.Buffer
		PrintStatus(&buf, "", false)
		assert.Empty(t, buf.String())
	})
}

func TestPrintBanner_NotTerminal(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "0.1.0")
	assert.Empty(t, buf.String())
}

func TestHelpMarkdown(t *testing.T) {
	md := HelpMarkdown([]string{"firefox", "vscode"}, []string{"empty_trash"})
	assert.Contains(t, md, "## Applications")
	assert.Contains(t, md, "`firefox`, `vscode`")
	assert.Contains(t, md, "`empty_trash`")

	md = HelpMarkdown(nil, nil)
	assert.NotContains(t, md, "## Tasks")
}

func TestNewRenderer_Passthrough(t *testing.T) {
	var buf bytes.Buffer
	render := NewRenderer(&buf)
	out, err := render("# Title")
	assert.NoError(t, err)
	assert.Equal(t, "# Title", out)
}

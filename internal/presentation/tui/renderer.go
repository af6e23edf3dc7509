package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// NewRenderer returns a function that renders markdown using glamour.
// Outside a terminal the markdown is returned unchanged.
func NewRenderer(w io.Writer) func(string) (string, error) {
	if !IsTerminal(w) {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return r.Render
}

// PrintStatus writes the status line of a submission: green when every
// action succeeded, yellow otherwise.
func PrintStatus(w io.Writer, status string, ok bool) {
	if status == "" {
		return
	}
	if !IsTerminal(w) {
		fmt.Fprintln(w, status)
		return
	}
	p := termenv.EnvColorProfile()
	color := "#22c55e"
	if !ok {
		color = "#eab308"
	}
	fmt.Fprintln(w, termenv.String(status).Foreground(p.Color(color)))
}

// HelpMarkdown builds the REPL help page for the given catalog.
func HelpMarkdown(aliases, tasks []string) string {
	var b strings.Builder
	b.WriteString("# Companion\n\n")
	b.WriteString("Type a request in plain language. Several requests can be combined in one line.\n\n")
	b.WriteString("## Examples\n\n")
	b.WriteString("- `open firefox`\n")
	b.WriteString("- `open vscode and create a python script for a snake game`\n")
	b.WriteString("- `make a website about cats`\n")
	b.WriteString("- `empty the trash`\n")
	b.WriteString("- `reset` to forget the current editor workspace\n")
	b.WriteString("- `exit` or `quit` to leave\n")
	if len(aliases) > 0 {
		b.WriteString("\n## Applications\n\n")
		b.WriteString(strings.Join(quote(aliases), ", "))
		b.WriteString("\n")
	}
	if len(tasks) > 0 {
		b.WriteString("\n## Tasks\n\n")
		b.WriteString(strings.Join(quote(tasks), ", "))
		b.WriteString("\n")
	}
	return b.String()
}

func quote(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = "`" + n + "`"
	}
	return out
}

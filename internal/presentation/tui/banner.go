package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// PrintBanner outputs the companion banner. Nothing is printed when w is
// not a terminal.
func PrintBanner(w io.Writer, version string) {
	if !IsTerminal(w) {
		return
	}
	p := termenv.EnvColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   ___                                  _              ", "#34d399"},
		{"  / __|___ _ __  _ __  __ _ _ _  (_)___ _ _          ", "#2dd4bf"},
		{" | (__/ _ \\ '  \\| '_ \\/ _` | ' \\ | / _ \\ ' \\         ", "#22d3ee"},
		{"  \\___\\___/_|_|_| .__/\\__,_|_||_||_\\___/_||_|        ", "#38bdf8"},
		{"                |_|                                 ", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+version+"  type 'help' for examples, 'exit' to leave").Faint())
	fmt.Fprintln(w)
}

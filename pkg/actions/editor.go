package actions

import (
	"github.com/aretw0/companion/pkg/domain"
	"github.com/aretw0/companion/pkg/session"
)

// Editor describes the code editor that gets workspace handling.
type Editor struct {
	// Command is the editor executable, possibly followed by fixed arguments.
	Command string
	// Names are the application names (case-insensitive) that refer to the editor.
	Names []string
	// Key is the session record key used for this editor.
	Key string
}

// DefaultEditorNames are the names that select the code editor.
var DefaultEditorNames = []string{"vscode", "code", "vs code", "visual studio code", "editor"}

// DefaultEditor returns Visual Studio Code.
func DefaultEditor() Editor {
	return Editor{
		Command: "code",
		Names:   DefaultEditorNames,
		Key:     session.DefaultKey,
	}
}

// Matches reports whether app names this editor.
func (e Editor) Matches(app string) bool {
	return domain.IsEditorName(app, e.Names)
}

func (e Editor) withDefaults() Editor {
	d := DefaultEditor()
	if e.Command == "" {
		e.Command = d.Command
	}
	if len(e.Names) == 0 {
		e.Names = d.Names
	}
	if e.Key == "" {
		e.Key = d.Key
	}
	return e
}

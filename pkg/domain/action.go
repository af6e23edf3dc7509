package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Action is one step of a user command, as decoded from the model response.
// The set of variants is closed; the executor matches them exhaustively.
type Action interface {
	// Kind returns the discriminant ("open_app", "quit", ...).
	Kind() string
	isAction()
}

// OpenApp launches a desktop application by friendly name.
type OpenApp struct {
	App string `json:"app" mapstructure:"app"`
}

// SystemTask runs a named, allow-listed task.
type SystemTask struct {
	Task string `json:"task" mapstructure:"task"`
}

// CreateFile generates content with the model and saves it.
type CreateFile struct {
	Type  string `json:"type" mapstructure:"type"`
	Topic string `json:"topic" mapstructure:"topic"`
}

// Quit asks the host to stop.
type Quit struct{}

// Unknown is returned by the model when the command made no sense to it.
type Unknown struct{}

// Failure carries a diagnostic produced while interpreting the command.
type Failure struct {
	Message string `json:"message" mapstructure:"message"`
}

// Invalid is a descriptor whose discriminant is known but which lacks required fields.
type Invalid struct {
	Action  string   `json:"-"`
	Missing []string `json:"-"`
}

// Unrecognized is a descriptor with a discriminant outside the known set.
type Unrecognized struct {
	Action string `json:"-"`
}

func (OpenApp) Kind() string        { return KindOpenApp }
func (SystemTask) Kind() string     { return KindSystemTask }
func (CreateFile) Kind() string     { return KindCreateFile }
func (Quit) Kind() string           { return KindQuit }
func (Unknown) Kind() string        { return KindUnknown }
func (Failure) Kind() string        { return KindError }
func (a Invalid) Kind() string      { return a.Action }
func (a Unrecognized) Kind() string { return a.Action }

func (OpenApp) isAction()      {}
func (SystemTask) isAction()   {}
func (CreateFile) isAction()   {}
func (Quit) isAction()         {}
func (Unknown) isAction()      {}
func (Failure) isAction()      {}
func (Invalid) isAction()      {}
func (Unrecognized) isAction() {}

// MissingMessage renders the status reported for an Invalid descriptor.
func (a Invalid) MissingMessage() string {
	if len(a.Missing) == 0 {
		return "Missing parameters"
	}
	return fmt.Sprintf("Missing %s parameter", strings.Join(a.Missing, " or "))
}

// Describe renders an action back into its descriptor form.
func Describe(a Action) map[string]any {
	m := map[string]any{KeyAction: a.Kind()}
	switch v := a.(type) {
	case OpenApp:
		m["app"] = v.App
	case SystemTask:
		m["task"] = v.Task
	case CreateFile:
		m["type"] = v.Type
		m["topic"] = v.Topic
	case Failure:
		m["message"] = v.Message
	case Invalid:
		m["missing"] = v.Missing
	}
	return m
}

// ActionList is an ordered list of actions that marshals as descriptors.
type ActionList []Action

// MarshalJSON emits the descriptor form of every action.
func (l ActionList) MarshalJSON() ([]byte, error) {
	out := make([]map[string]any, 0, len(l))
	for _, a := range l {
		out = append(out, Describe(a))
	}
	return json.Marshal(out)
}

// IsEditorLaunch reports whether a is an OpenApp naming one of the given editor names.
func IsEditorLaunch(a Action, editorNames []string) bool {
	open, ok := a.(OpenApp)
	if !ok {
		return false
	}
	return IsEditorName(open.App, editorNames)
}

// IsEditorName compares case-insensitively after trimming.
func IsEditorName(app string, editorNames []string) bool {
	name := strings.ToLower(strings.TrimSpace(app))
	for _, n := range editorNames {
		if name == strings.ToLower(n) {
			return true
		}
	}
	return false
}

package domain

// ExecContext is the mutable state shared by the actions of one submission.
// A fresh value is created per submission and discarded afterwards.
type ExecContext struct {
	// SubmissionID identifies the submission in logs, events and traces.
	SubmissionID string

	// Index is the position of the running action in its list.
	Index int

	// EditorOpened is set once an editor launch happened earlier in the same list.
	// Later editor actions reuse that window instead of spawning a new one.
	EditorOpened bool

	// QuitRequested is set by the Quit action. The caller owns stopping the host.
	QuitRequested bool
}

// NewExecContext returns an empty context for submission id.
func NewExecContext(id string) *ExecContext {
	return &ExecContext{SubmissionID: id}
}

package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventSubmit      EventType = "submit"
	EventSubmitDone  EventType = "submit_done"
	EventActionStart EventType = "action_start"
	EventActionDone  EventType = "action_done"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp    time.Time `json:"timestamp"`
	Type         EventType `json:"type"`
	SubmissionID string    `json:"submission_id"`
}

// SubmitEvent represents the start or the end of one submission.
type SubmitEvent struct {
	EventBase
	Text     string        `json:"text,omitempty"`
	Actions  int           `json:"actions,omitempty"`
	Status   string        `json:"status,omitempty"`
	Quit     bool          `json:"quit,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// ActionEvent represents the execution of one action.
type ActionEvent struct {
	EventBase
	Index    int           `json:"index"`
	Kind     string        `json:"kind"`
	Status   string        `json:"status,omitempty"`
	Failed   bool          `json:"failed,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// LifecycleHooks defines callbacks for pipeline observability.
type LifecycleHooks struct {
	OnSubmit      func(context.Context, *SubmitEvent)
	OnSubmitDone  func(context.Context, *SubmitEvent)
	OnActionStart func(context.Context, *ActionEvent)
	OnActionDone  func(context.Context, *ActionEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnSubmit:      chainSubmit(h.OnSubmit, other.OnSubmit),
		OnSubmitDone:  chainSubmit(h.OnSubmitDone, other.OnSubmitDone),
		OnActionStart: chainAction(h.OnActionStart, other.OnActionStart),
		OnActionDone:  chainAction(h.OnActionDone, other.OnActionDone),
	}
}

func chainSubmit(a, b func(context.Context, *SubmitEvent)) func(context.Context, *SubmitEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *SubmitEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainAction(a, b func(context.Context, *ActionEvent)) func(context.Context, *ActionEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *ActionEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

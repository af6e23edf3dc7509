package listener

import (
	"context"
	"errors"

	"github.com/aretw0/companion"
)

// DefaultQueueSize bounds the submissions waiting for the consumer.
const DefaultQueueSize = 16

// ErrStop is returned by a command handler to end its source.
var ErrStop = errors.New("listener stopped")

// Submission is one utterance waiting to be executed.
type Submission struct {
	Text   string
	Source string
	// Reply receives the outcome when set. It must be buffered or read.
	Reply chan<- companion.Outcome
}

// Source produces submissions until ctx is done or its input ends.
type Source interface {
	Listen(ctx context.Context, q *Queue) error
}

// Queue is the hand-off between the sources and the consumer.
type Queue struct {
	ch chan Submission
}

// NewQueue creates a queue holding up to size pending submissions.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{ch: make(chan Submission, size)}
}

// Submit enqueues s, blocking while the queue is full.
func (q *Queue) Submit(ctx context.Context, s Submission) error {
	select {
	case q.ch <- s:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ask enqueues text and waits for its outcome.
func (q *Queue) Ask(ctx context.Context, text, source string) (companion.Outcome, error) {
	reply := make(chan companion.Outcome, 1)
	if err := q.Submit(ctx, Submission{Text: text, Source: source, Reply: reply}); err != nil {
		return companion.Outcome{}, err
	}
	select {
	case out := <-reply:
		return out, nil
	case <-ctx.Done():
		return companion.Outcome{}, ctx.Err()
	}
}

// Submissions is the receiving side used by the consumer.
func (q *Queue) Submissions() <-chan Submission {
	return q.ch
}

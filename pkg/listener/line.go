package listener

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/companion"
)

// SourceLine names submissions typed by the user.
const SourceLine = "line"

// CommandFunc handles a line locally instead of submitting it.
// Returning ErrStop ends the source.
type CommandFunc func(ctx context.Context) error

// LineSource reads one utterance per line, waits for its outcome and
// prompts again. Listen must be called at most once per reader.
type LineSource struct {
	reader   *bufio.Reader
	writer   io.Writer
	prompt   string
	commands map[string]CommandFunc
	onReply  func(companion.Outcome)
}

// LineOption configures a LineSource.
type LineOption func(*LineSource)

// WithPrompt sets the prompt written before each read. Empty disables it.
func WithPrompt(prompt string) LineOption {
	return func(s *LineSource) {
		s.prompt = prompt
	}
}

// WithCommand handles the literal word (case-insensitive) locally.
func WithCommand(word string, fn CommandFunc) LineOption {
	return func(s *LineSource) {
		s.commands[strings.ToLower(word)] = fn
	}
}

// WithReply is called with the outcome of every submission.
func WithReply(fn func(companion.Outcome)) LineOption {
	return func(s *LineSource) {
		s.onReply = fn
	}
}

// NewLineSource creates a source reading r and prompting on w.
// "exit" and "quit" end the source without reaching the model.
func NewLineSource(r io.Reader, w io.Writer, opts ...LineOption) *LineSource {
	if w == nil {
		w = io.Discard
	}
	stop := func(context.Context) error { return ErrStop }
	s := &LineSource{
		reader: bufio.NewReader(r),
		writer: w,
		prompt: "> ",
		commands: map[string]CommandFunc{
			"exit": stop,
			"quit": stop,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type lineResult struct {
	text string
	err  error
}

// Listen returns nil when the input ends or a stop command is typed.
func (s *LineSource) Listen(ctx context.Context, q *Queue) error {
	lines := make(chan lineResult)
	done := make(chan struct{})
	defer close(done)
	go s.pump(lines, done)

	for {
		if s.prompt != "" {
			fmt.Fprint(s.writer, s.prompt)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case res, ok := <-lines:
			if !ok {
				return nil
			}
			if res.err != nil {
				return fmt.Errorf("input error: %w", res.err)
			}

			text, err := Sanitize(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(s.writer, "Error: %v. Please try again.\n", err)
				continue
			}
			if text == "" {
				continue
			}

			if fn, ok := s.commands[strings.ToLower(text)]; ok {
				if err := fn(ctx); err != nil {
					if errors.Is(err, ErrStop) {
						return nil
					}
					return err
				}
				continue
			}

			out, err := q.Ask(ctx, text, SourceLine)
			if err != nil {
				return err
			}
			if s.onReply != nil {
				s.onReply(out)
			}
			if out.Quit {
				return nil
			}
		}
	}
}

// pump moves lines from the blocking reader onto a channel so that Listen
// can select on cancellation. It exits at EOF or once done is closed.
func (s *LineSource) pump(out chan<- lineResult, done <-chan struct{}) {
	defer close(out)
	for {
		text, err := s.reader.ReadString('\n')
		if text != "" {
			select {
			case out <- lineResult{text: text}:
			case <-done:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				select {
				case out <- lineResult{err: err}:
				case <-done:
				}
			}
			return
		}
	}
}

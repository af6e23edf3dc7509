package listener

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/aretw0/companion"
	"github.com/aretw0/companion/internal/logging"
	"github.com/aretw0/companion/pkg/ports"
)

const (
	// SourceVoice names submissions captured after the wake word.
	SourceVoice = "voice"

	DefaultWakeWord = "comp"
	DefaultWindow   = 10 * time.Second
)

// TranscriptFunc opens a stream of transcript lines.
type TranscriptFunc func(ctx context.Context) (io.ReadCloser, error)

// CommandTranscripts runs an external speech-to-text program that prints
// one transcript per line on its standard output.
func CommandTranscripts(argv []string) TranscriptFunc {
	return func(ctx context.Context) (io.ReadCloser, error) {
		if len(argv) == 0 || argv[0] == "" {
			return nil, errors.New("no transcription command configured")
		}
		cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, err
		}
		if err := cmd.Start(); err != nil {
			return nil, err
		}
		return &commandStream{stdout: stdout, cmd: cmd}, nil
	}
}

// commandStream serializes reads so Close can wait for the last one to
// return before reaping the process.
type commandStream struct {
	stdout io.ReadCloser
	cmd    *exec.Cmd

	mu     sync.Mutex
	closed bool
}

func (c *commandStream) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, io.EOF
	}
	return c.stdout.Read(p)
}

// Close kills the process and unblocks a pending read, then reaps it.
func (c *commandStream) Close() error {
	_ = c.cmd.Process.Kill()
	_ = c.stdout.Close()

	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	_ = c.cmd.Wait()
	return nil
}

// WakeWordSource submits what is said after the wake word. Text following
// the wake word on the same transcript line is submitted at once; otherwise
// the next non-empty line within the capture window is.
type WakeWordSource struct {
	transcripts TranscriptFunc
	wakeWord    string
	window      time.Duration
	feedback    func(ctx context.Context)
	onReply     func(companion.Outcome)
	logger      *slog.Logger
}

// VoiceOption configures a WakeWordSource.
type VoiceOption func(*WakeWordSource)

// WithWakeWord sets the word that arms capture (case-insensitive).
func WithWakeWord(word string) VoiceOption {
	return func(s *WakeWordSource) {
		if w := strings.ToLower(strings.TrimSpace(word)); w != "" {
			s.wakeWord = w
		}
	}
}

// WithWindow sets how long capture stays armed after a bare wake word.
func WithWindow(d time.Duration) VoiceOption {
	return func(s *WakeWordSource) {
		if d > 0 {
			s.window = d
		}
	}
}

// WithFeedback starts argv (e.g. spd-say "Yes?") whenever the wake word is heard.
func WithFeedback(spawner ports.Spawner, argv []string) VoiceOption {
	return func(s *WakeWordSource) {
		if spawner == nil || len(argv) == 0 {
			return
		}
		s.feedback = func(ctx context.Context) {
			cmd := ports.Command{Name: argv[0], Args: argv[1:]}
			if err := spawner.Start(ctx, cmd); err != nil {
				s.logger.Warn("Feedback command failed", "command", argv[0], "err", err)
			}
		}
	}
}

// WithVoiceReply is called with the outcome of every voice submission.
func WithVoiceReply(fn func(companion.Outcome)) VoiceOption {
	return func(s *WakeWordSource) {
		s.onReply = fn
	}
}

// WithVoiceLogger configures the structured logger.
func WithVoiceLogger(logger *slog.Logger) VoiceOption {
	return func(s *WakeWordSource) {
		s.logger = logger
	}
}

// NewWakeWordSource creates a source reading transcripts.
func NewWakeWordSource(transcripts TranscriptFunc, opts ...VoiceOption) *WakeWordSource {
	s := &WakeWordSource{
		transcripts: transcripts,
		wakeWord:    DefaultWakeWord,
		window:      DefaultWindow,
		feedback:    func(context.Context) {},
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Listen returns nil when the transcript stream ends or a submission quits.
func (s *WakeWordSource) Listen(ctx context.Context, q *Queue) error {
	stream, err := s.transcripts(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transcription: %w", err)
	}
	defer stream.Close()

	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(stream)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	s.logger.Info("Listening for wake word", "wake_word", s.wakeWord)

	var timer *time.Timer
	var expired <-chan time.Time
	disarm := func() {
		if timer != nil {
			timer.Stop()
		}
		expired = nil
	}
	defer disarm()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-expired:
			expired = nil
			s.logger.Debug("Capture window expired")
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			text, err := Sanitize(line)
			if err != nil || text == "" {
				continue
			}

			armed := expired != nil
			rest, found := afterWakeWord(text, s.wakeWord)
			switch {
			case found:
				s.logger.Debug("Wake word detected", "transcript", text)
				s.feedback(ctx)
				if rest == "" {
					disarm()
					timer = time.NewTimer(s.window)
					expired = timer.C
					continue
				}
				text = rest
			case !armed:
				continue
			}

			disarm()
			out, err := q.Ask(ctx, text, SourceVoice)
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

// afterWakeWord reports whether text contains word and returns what follows
// the token holding it.
func afterWakeWord(text, word string) (string, bool) {
	lower := strings.ToLower(text)
	if len(lower) != len(text) {
		text = lower
	}
	i := strings.Index(lower, word)
	if i < 0 {
		return "", false
	}
	j := i + len(word)
	for j < len(text) && !unicode.IsSpace(rune(text[j])) {
		j++
	}
	rest := strings.TrimLeft(text[j:], " \t,.!?:;")
	return strings.TrimSpace(rest), true
}

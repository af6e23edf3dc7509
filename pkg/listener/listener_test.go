package listener

import (
	"context"
	"io"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/companion"
	"github.com/aretw0/companion/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// echoConsumer answers every submission until ctx is done and records the
// texts in arrival order.
type echoConsumer struct {
	mu    sync.Mutex
	texts []string
	quit  string
	wg    sync.WaitGroup
}

func startConsumer(ctx context.Context, q *Queue, quit string) *echoConsumer {
	c := &echoConsumer{quit: quit}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case sub := <-q.Submissions():
				c.mu.Lock()
				c.texts = append(c.texts, sub.Source+":"+sub.Text)
				c.mu.Unlock()
				if sub.Reply != nil {
					sub.Reply <- companion.Outcome{
						Status: "done " + sub.Text,
						Quit:   sub.Text == c.quit,
					}
				}
			}
		}
	}()
	return c
}

func (c *echoConsumer) Texts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.texts...)
}

type recordingSpawner struct {
	mu      sync.Mutex
	started []ports.Command
}

func (s *recordingSpawner) Start(ctx context.Context, cmd ports.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = append(s.started, cmd)
	return nil
}

func (s *recordingSpawner) Run(ctx context.Context, cmd ports.Command) error { return nil }

func (s *recordingSpawner) LookPath(file string) (string, error) { return "/usr/bin/" + file, nil }

func (s *recordingSpawner) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.started)
}

func TestQueue(t *testing.T) {
	t.Run("Ask Round Trip", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		q := NewQueue(1)
		c := startConsumer(ctx, q, "")

		out, err := q.Ask(ctx, "open firefox", "test")
		require.NoError(t, err)
		assert.Equal(t, "done open firefox", out.Status)

		cancel()
		c.wg.Wait()
		assert.Equal(t, []string{"test:open firefox"}, c.Texts())
	})

	t.Run("Submit Respects Cancellation When Full", func(t *testing.T) {
		q := NewQueue(1)
		require.NoError(t, q.Submit(context.Background(), Submission{Text: "first"}))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		err := q.Submit(ctx, Submission{Text: "second"})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestLineSource(t *testing.T) {
	t.Run("Submits Lines In Order Until Exit", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		q := NewQueue(0)
		c := startConsumer(ctx, q, "")

		var out strings.Builder
		var replies []string
		helps := 0
		src := NewLineSource(
			strings.NewReader("open firefox\n\n  HELP \nempty the trash\nexit\nopen vlc\n"),
			&out,
			WithCommand("help", func(context.Context) error { helps++; return nil }),
			WithReply(func(o companion.Outcome) { replies = append(replies, o.Status) }),
		)

		require.NoError(t, src.Listen(ctx, q))
		cancel()
		c.wg.Wait()

		assert.Equal(t, []string{"line:open firefox", "line:empty the trash"}, c.Texts())
		assert.Equal(t, []string{"done open firefox", "done empty the trash"}, replies)
		assert.Equal(t, 1, helps)
		assert.True(t, strings.HasPrefix(out.String(), "> "))
	})

	t.Run("EOF Ends Source", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		q := NewQueue(0)
		c := startConsumer(ctx, q, "")

		src := NewLineSource(strings.NewReader("open firefox"), nil, WithPrompt(""))
		require.NoError(t, src.Listen(ctx, q))
		cancel()
		c.wg.Wait()
		assert.Equal(t, []string{"line:open firefox"}, c.Texts())
	})

	t.Run("Quit Outcome Ends Source", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		q := NewQueue(0)
		c := startConsumer(ctx, q, "close the assistant")

		src := NewLineSource(strings.NewReader("close the assistant\nopen vlc\n"), nil)
		require.NoError(t, src.Listen(ctx, q))
		cancel()
		c.wg.Wait()
		assert.Equal(t, []string{"line:close the assistant"}, c.Texts())
	})

	t.Run("Rejects Oversized Input", func(t *testing.T) {
		t.Setenv(EnvMaxInputSize, "8")
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		q := NewQueue(0)
		c := startConsumer(ctx, q, "")

		var out strings.Builder
		src := NewLineSource(strings.NewReader("open libreoffice\nopen vlc\n"), &out)
		require.NoError(t, src.Listen(ctx, q))
		cancel()
		c.wg.Wait()

		assert.Equal(t, []string{"line:open vlc"}, c.Texts())
		assert.Contains(t, out.String(), "Please try again")
	})

	t.Run("Cancellation Stops Listen", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		pr, pw := io.Pipe()
		src := NewLineSource(pr, nil)

		errCh := make(chan error, 1)
		go func() { errCh <- src.Listen(ctx, NewQueue(0)) }()

		cancel()
		select {
		case err := <-errCh:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(2 * time.Second):
			t.Fatal("Listen did not return after cancellation")
		}
		// Unblocks the reader goroutine.
		pw.Close()
	})
}

func TestWakeWordSource(t *testing.T) {
	transcripts := func(text string) TranscriptFunc {
		return func(context.Context) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(text)), nil
		}
	}

	t.Run("Captures After Wake Word", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		q := NewQueue(0)
		c := startConsumer(ctx, q, "")
		sp := &recordingSpawner{}

		src := NewWakeWordSource(
			transcripts("hello there\nComp, open firefox\nrandom chatter\ncomp\n\nempty the trash\nmore chatter\n"),
			WithFeedback(sp, []string{"spd-say", "Yes?"}),
		)
		require.NoError(t, src.Listen(ctx, q))
		cancel()
		c.wg.Wait()

		assert.Equal(t, []string{"voice:open firefox", "voice:empty the trash"}, c.Texts())
		assert.Equal(t, 2, sp.Count())
	})

	t.Run("Window Expires", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		q := NewQueue(0)
		c := startConsumer(ctx, q, "")

		pr, pw := io.Pipe()
		src := NewWakeWordSource(
			func(context.Context) (io.ReadCloser, error) { return pr, nil },
			WithWakeWord("Jarvis"),
			WithWindow(20*time.Millisecond),
		)

		errCh := make(chan error, 1)
		go func() { errCh <- src.Listen(ctx, q) }()

		_, err := io.WriteString(pw, "jarvis\n")
		require.NoError(t, err)
		time.Sleep(100 * time.Millisecond)
		_, err = io.WriteString(pw, "open firefox\n")
		require.NoError(t, err)
		pw.Close()

		require.NoError(t, <-errCh)
		cancel()
		c.wg.Wait()
		assert.Empty(t, c.Texts())
	})

	t.Run("Quit Stops Transcription Command", func(t *testing.T) {
		if _, err := exec.LookPath("sh"); err != nil {
			t.Skip("sh not available")
		}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		q := NewQueue(0)
		c := startConsumer(ctx, q, "open firefox")

		src := NewWakeWordSource(CommandTranscripts([]string{"sh", "-c", "echo 'comp open firefox'; exec sleep 30"}))

		start := time.Now()
		require.NoError(t, src.Listen(ctx, q))
		assert.Less(t, time.Since(start), 10*time.Second)

		cancel()
		c.wg.Wait()
		assert.Equal(t, []string{"voice:open firefox"}, c.Texts())
	})

	t.Run("Closing A Blocked Stream Returns", func(t *testing.T) {
		if _, err := exec.LookPath("sh"); err != nil {
			t.Skip("sh not available")
		}
		stream, err := CommandTranscripts([]string{"sh", "-c", "exec sleep 30"})(context.Background())
		require.NoError(t, err)

		readDone := make(chan error, 1)
		go func() {
			_, err := io.ReadAll(stream)
			readDone <- err
		}()
		time.Sleep(50 * time.Millisecond)

		require.NoError(t, stream.Close())
		select {
		case <-readDone:
		case <-time.After(5 * time.Second):
			t.Fatal("read did not return after Close")
		}
	})

	t.Run("Transcription Start Failure", func(t *testing.T) {
		src := NewWakeWordSource(CommandTranscripts(nil))
		err := src.Listen(context.Background(), NewQueue(0))
		assert.ErrorContains(t, err, "failed to start transcription")
	})
}

func TestAfterWakeWord(t *testing.T) {
	cases := map[string]struct {
		rest  string
		found bool
	}{
		"comp open firefox":       {"open firefox", true},
		"Comp, make a website":    {"make a website", true},
		"computer open vlc":       {"open vlc", true},
		"comp":                    {"", true},
		"nothing to see here":     {"", false},
		"hey comp. empty the bin": {"empty the bin", true},
	}
	for text, want := range cases {
		t.Run(text, func(t *testing.T) {
			rest, found := afterWakeWord(text, "comp")
			assert.Equal(t, want.found, found)
			assert.Equal(t, want.rest, rest)
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "open firefox", "open firefox"},
		{"Trimmed", "  open firefox \n", "open firefox"},
		{"ANSI Code", "\x1b[31mRed\x1b[0m", "[31mRed[0m"},
		{"Null Byte", "Null\x00Byte", "NullByte"},
		{"Inner Newline", "open\nfirefox", "open firefox"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sanitize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	t.Run("Invalid UTF8", func(t *testing.T) {
		_, err := Sanitize("\xbd\xb2\x3d\xbc")
		assert.ErrorIs(t, err, ErrInvalidUTF8)
	})

	t.Run("Env Override", func(t *testing.T) {
		t.Setenv(EnvMaxInputSize, "10")
		_, err := Sanitize("12345678901")
		assert.ErrorIs(t, err, ErrInputTooLarge)
		_, err = Sanitize("12345")
		assert.NoError(t, err)
	})
}

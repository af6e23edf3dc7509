package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/companion"
	"github.com/aretw0/companion/internal/config"
	"github.com/aretw0/companion/internal/presentation/tui"
	"github.com/aretw0/companion/pkg/adapters/process"
	"github.com/aretw0/companion/pkg/listener"
	"github.com/aretw0/companion/pkg/session"
	"golang.org/x/sync/errgroup"
)

// RunOptions configures the interactive session.
type RunOptions struct {
	In    io.Reader
	Out   io.Writer
	Voice bool
	// Watch applies catalog changes on disk between submissions.
	Watch bool
}

// Run starts the interactive session: typed lines, and the wake-word source
// when enabled, feed one consumer until exit, quit or cancellation.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tui.PrintBanner(opts.Out, strings.TrimSpace(companion.Version))
	render := tui.NewRenderer(opts.Out)

	var outMu sync.Mutex
	printOutcome := func(prefix string) func(companion.Outcome) {
		return func(o companion.Outcome) {
			outMu.Lock()
			defer outMu.Unlock()
			if prefix != "" && o.Status != "" {
				fmt.Fprint(opts.Out, prefix)
			}
			tui.PrintStatus(opts.Out, o.Status, o.OK())
		}
	}
	help := func(context.Context) error {
		md, err := render(tui.HelpMarkdown(a.Catalog.AliasNames(), a.Catalog.TaskNames()))
		if err != nil {
			return err
		}
		outMu.Lock()
		defer outMu.Unlock()
		fmt.Fprintln(opts.Out, strings.TrimSpace(md))
		return nil
	}

	reset := func(ctx context.Context) error {
		outMu.Lock()
		defer outMu.Unlock()
		if err := a.Tracker.Forget(ctx, session.DefaultKey); err != nil {
			a.Logger.Warn("Failed to forget editor workspace", "err", err)
			printSystemMessage(opts.Out, "Could not reset the editor workspace: %v", err)
			return nil
		}
		printSystemMessage(opts.Out, "Editor workspace forgotten; the next editor launch creates one under %s", a.Tracker.Root())
		return nil
	}

	q := listener.NewQueue(0)
	line := listener.NewLineSource(opts.In, opts.Out,
		listener.WithCommand("help", help),
		listener.WithCommand("reset", reset),
		listener.WithReply(printOutcome("")),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return Consume(gctx, a.Assistant, q, ConsumeOptions{
			Reloads: a.watch(gctx, opts.Watch),
			Catalog: a.Catalog,
			OnQuit:  cancel,
			Logger:  a.Logger,
		})
	})

	g.Go(func() error {
		defer cancel()
		return line.Listen(gctx, q)
	})

	if opts.Voice {
		voice := a.voiceSource(printOutcome("[voice] "))
		g.Go(func() error {
			if err := voice.Listen(gctx, q); err != nil && !isInterrupted(err) {
				a.Logger.Error("Voice input stopped", "err", err)
				printSystemMessage(opts.Out, "Voice input unavailable: %v", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !isInterrupted(err) {
		return err
	}
	return nil
}

func (a *App) voiceSource(reply func(companion.Outcome)) *listener.WakeWordSource {
	v := a.Config.Voice
	return listener.NewWakeWordSource(listener.CommandTranscripts(v.Command),
		listener.WithWakeWord(v.WakeWord),
		listener.WithWindow(v.Window),
		listener.WithFeedback(a.Spawner, v.Feedback),
		listener.WithVoiceReply(reply),
		listener.WithVoiceLogger(a.Logger),
	)
}

// watch starts the catalog watcher. A nil channel disables reloads.
func (a *App) watch(ctx context.Context, enabled bool) <-chan *process.CatalogFile {
	if !enabled {
		return nil
	}
	reloads, err := config.WatchCatalog(ctx, a.Config, a.Logger)
	if err != nil {
		a.Logger.Warn("Catalog reload disabled", "err", err)
		return nil
	}
	return reloads
}

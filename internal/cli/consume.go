package cli

import (
	"context"
	"log/slog"

	"github.com/aretw0/companion"
	"github.com/aretw0/companion/internal/logging"
	"github.com/aretw0/companion/pkg/adapters/process"
	"github.com/aretw0/companion/pkg/listener"
)

// Submitter runs one utterance through the pipeline.
type Submitter interface {
	Submit(ctx context.Context, utterance string) companion.Outcome
}

// ConsumeOptions configures the consumer loop.
type ConsumeOptions struct {
	// Reloads delivers catalogs to apply between submissions.
	Reloads <-chan *process.CatalogFile
	Catalog *process.Catalog
	// OnQuit is called after a submission that asked to quit.
	OnQuit func()
	// Sink observes every completed submission.
	Sink   func(listener.Submission, companion.Outcome)
	Logger *slog.Logger
}

// Consume is the single consumer of q. Submissions run one at a time in
// arrival order until ctx is done.
func Consume(ctx context.Context, s Submitter, q *listener.Queue, opts ConsumeOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	reloads := opts.Reloads

	for {
		select {
		case <-ctx.Done():
			return nil
		case file, ok := <-reloads:
			if !ok {
				reloads = nil
				continue
			}
			if opts.Catalog != nil {
				opts.Catalog.Update(file)
				logger.Info("Catalog applied", "aliases", len(file.Aliases), "tasks", len(file.Tasks))
			}
		case sub := <-q.Submissions():
			out := s.Submit(ctx, sub.Text)
			logger.Debug("Submission done", "source", sub.Source, "submission_id", out.ID, "status", out.Status)
			if sub.Reply != nil {
				select {
				case sub.Reply <- out:
				default:
					logger.Warn("Reply dropped", "source", sub.Source, "submission_id", out.ID)
				}
			}
			if opts.Sink != nil {
				opts.Sink(sub, out)
			}
			if out.Quit && opts.OnQuit != nil {
				opts.OnQuit()
			}
		}
	}
}

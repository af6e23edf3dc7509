package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/companion/pkg/adapters/http"
	"github.com/aretw0/companion/pkg/adapters/mcp"
	"github.com/aretw0/companion/pkg/listener"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Serve exposes the assistant on addr until ctx is done or a submission quits.
func (a *App) Serve(ctx context.Context, addr string, out io.Writer) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return a.serveOn(ctx, ln, out)
}

func (a *App) serveOn(ctx context.Context, ln net.Listener, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	q := listener.NewQueue(0)
	srv := &http.Server{
		Handler: httpAdapter.NewHandler(q,
			httpAdapter.WithGatherer(a.Registry),
			httpAdapter.WithLogger(a.Logger),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return Consume(gctx, a.Assistant, q, ConsumeOptions{
			Reloads: a.watch(gctx, true),
			Catalog: a.Catalog,
			OnQuit:  cancel,
			Logger:  a.Logger,
		})
	})
	g.Go(func() error {
		printSystemMessage(out, "Listening on http://%s", ln.Addr())
		a.Logger.Info("HTTP server listening", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		printSystemMessage(out, "Server stopped")
		return nil
	})

	return g.Wait()
}

// ServeMCP exposes the assistant as MCP tools over stdio or SSE.
func (a *App) ServeMCP(ctx context.Context, transport, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	q := listener.NewQueue(0)
	srv := mcp.NewServer(q, a.Interpreter, mcp.WithLogger(a.Logger))

	var serve func(context.Context) error
	switch transport {
	case "stdio":
		serve = srv.ServeStdio
	case "sse":
		serve = func(ctx context.Context) error { return srv.ServeSSE(ctx, addr) }
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio, sse)", transport)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return Consume(gctx, a.Assistant, q, ConsumeOptions{
			Catalog: a.Catalog,
			OnQuit:  cancel,
			Logger:  a.Logger,
		})
	})
	g.Go(func() error {
		defer cancel()
		return serve(gctx)
	})
	if err := g.Wait(); err != nil && !isInterrupted(err) {
		return err
	}
	return nil
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/companion"
	"github.com/aretw0/companion/internal/presentation/tui"
	"github.com/aretw0/companion/pkg/domain"
)

// Do runs a single utterance and prints its status line.
func (a *App) Do(ctx context.Context, utterance string, out io.Writer) companion.Outcome {
	o := a.Assistant.Submit(ctx, utterance)
	tui.PrintStatus(out, o.Status, o.OK())
	return o
}

// Interpret prints the actions an utterance maps to, without executing them.
// raw also prints the model reply the actions were extracted from.
func (a *App) Interpret(ctx context.Context, utterance string, raw bool, out io.Writer) error {
	actions, reply := a.Interpreter.InterpretRaw(ctx, strings.TrimSpace(utterance))
	if raw {
		fmt.Fprintln(out, "--- model reply ---")
		fmt.Fprintln(out, strings.TrimSpace(reply))
		fmt.Fprintln(out, "--- actions ---")
	}

	data, err := json.MarshalIndent(domain.ActionList(actions), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode actions: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

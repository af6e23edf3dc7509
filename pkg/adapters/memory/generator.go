package memory

import (
	"context"
	"strings"
	"sync"
)

// Reply is one scripted generator answer.
type Reply struct {
	Text string
	Err  error
}

// Generator implements ports.TextGenerator from a script of replies.
// Replies are consumed in order; prompts containing a registered key are
// answered from the matching rule first. Safe for concurrent use.
type Generator struct {
	mu      sync.Mutex
	script  []Reply
	rules   []rule
	prompts []string
	// Fallback answers once the script is exhausted and no rule matches.
	Fallback Reply
}

type rule struct {
	contains string
	reply    Reply
}

// NewGenerator creates a Generator that answers with replies in order.
func NewGenerator(replies ...Reply) *Generator {
	return &Generator{
		script:   replies,
		Fallback: Reply{Text: `{"action": "unknown"}`},
	}
}

// When answers every prompt containing substr with reply.
func (g *Generator) When(substr string, reply Reply) *Generator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rules = append(g.rules, rule{contains: substr, reply: reply})
	return g
}

// Generate returns the next scripted answer.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)

	for _, r := range g.rules {
		if strings.Contains(prompt, r.contains) {
			return r.reply.Text, r.reply.Err
		}
	}
	if len(g.script) > 0 {
		next := g.script[0]
		g.script = g.script[1:]
		return next.Text, next.Err
	}
	return g.Fallback.Text, g.Fallback.Err
}

// Prompts returns the prompts seen so far.
func (g *Generator) Prompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}

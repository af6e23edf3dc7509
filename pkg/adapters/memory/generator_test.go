package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/companion/pkg/adapters/memory"
	"github.com/stretchr/testify/assert"
)

func TestGenerator(t *testing.T) {
	ctx := context.Background()

	t.Run("Script Order Then Fallback", func(t *testing.T) {
		gen := memory.NewGenerator(memory.Reply{Text: "one"}, memory.Reply{Err: errors.New("two")})

		text, err := gen.Generate(ctx, "a")
		assert.NoError(t, err)
		assert.Equal(t, "one", text)

		_, err = gen.Generate(ctx, "b")
		assert.EqualError(t, err, "two")

		text, err = gen.Generate(ctx, "c")
		assert.NoError(t, err)
		assert.Equal(t, `{"action": "unknown"}`, text)

		assert.Equal(t, []string{"a", "b", "c"}, gen.Prompts())
	})

	t.Run("Rules Win Over Script", func(t *testing.T) {
		gen := memory.NewGenerator(memory.Reply{Text: "scripted"}).
			When("Python code", memory.Reply{Text: "print('hi')"})

		text, _ := gen.Generate(ctx, "Generate complete, executable Python code for 'x'")
		assert.Equal(t, "print('hi')", text)

		text, _ = gen.Generate(ctx, "anything else")
		assert.Equal(t, "scripted", text)
	})

	t.Run("Canceled Context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := memory.NewGenerator().Generate(cctx, "x")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

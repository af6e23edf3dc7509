package extract_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/companion/pkg/domain"
	"github.com/aretw0/companion/pkg/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	t.Run("Plain Object", func(t *testing.T) {
		v, err := extract.Extract(`{"action": "open_app", "app": "vscode"}`)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"action": "open_app", "app": "vscode"}, v)
	})

	t.Run("Array Preserves Order", func(t *testing.T) {
		v, err := extract.Extract(`[{"action": "open_app", "app": "vscode"}, {"action": "quit"}]`)
		require.NoError(t, err)
		list, ok := v.([]any)
		require.True(t, ok)
		require.Len(t, list, 2)
		assert.Equal(t, "open_app", list[0].(map[string]any)["action"])
		assert.Equal(t, "quit", list[1].(map[string]any)["action"])
	})

	t.Run("Fenced Block Wins Over Prose", func(t *testing.T) {
		text := "Sure! Here is {the} plan:\n```json\n{\"action\": \"quit\"}\n```\nAnything else?"
		v, err := extract.Extract(text)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"action": "quit"}, v)
	})

	t.Run("Untagged Fence", func(t *testing.T) {
		v, err := extract.Extract("```\n[{\"action\": \"unknown\"}]\n```")
		require.NoError(t, err)
		assert.Len(t, v, 1)
	})

	t.Run("Fence Is Idempotent", func(t *testing.T) {
		inner := `[{"action": "create_file", "type": "python", "topic": "CNN model"}]`
		direct, err := extract.Extract(inner)
		require.NoError(t, err)
		fenced, err := extract.Extract("```json\n" + inner + "\n```")
		require.NoError(t, err)
		assert.Equal(t, direct, fenced)
	})

	t.Run("Surrounding Prose", func(t *testing.T) {
		v, err := extract.Extract(`The answer is {"action": "system_task", "task": "empty_trash"} as requested.`)
		require.NoError(t, err)
		assert.Equal(t, "empty_trash", v.(map[string]any)["task"])
	})

	t.Run("Single Quotes Are Repaired", func(t *testing.T) {
		repaired, err := extract.Extract(`{'action': 'open_app', 'app': 'vscode'}`)
		require.NoError(t, err)
		strict, err := extract.Extract(`{"action": "open_app", "app": "vscode"}`)
		require.NoError(t, err)
		assert.Equal(t, strict, repaired)
	})

	t.Run("Python Literals Are Repaired", func(t *testing.T) {
		v, err := extract.Extract(`{'action': 'quit', 'force': True, 'why': None, 'note': 'True story'}`)
		require.NoError(t, err)
		m := v.(map[string]any)
		assert.Equal(t, true, m["force"])
		assert.Nil(t, m["why"])
		assert.Equal(t, "True story", m["note"])
	})

	t.Run("Numbers Keep Precision", func(t *testing.T) {
		v, err := extract.Extract(`{"action": "open_app", "app": 12345678901234567890}`)
		require.NoError(t, err)
		assert.Equal(t, json.Number("12345678901234567890"), v.(map[string]any)["app"])
	})

	t.Run("Failure Cases", func(t *testing.T) {
		cases := map[string]string{
			"empty":      "",
			"prose":      "I could not understand that.",
			"broken":     `{"action": "open_app", "app": }`,
			"reversed":   `} nothing {`,
			"two values": `{"a": 1} {"b": 2}`,
		}
		for name, text := range cases {
			t.Run(name, func(t *testing.T) {
				v, err := extract.Extract(text)
				assert.Nil(t, v)
				assert.ErrorIs(t, err, domain.ErrNoStructuredData)
			})
		}
	})
}

func TestRepair(t *testing.T) {
	t.Run("Escapes Inner Double Quotes", func(t *testing.T) {
		assert.Equal(t, `{"msg": "say \"hi\""}`, extract.Repair(`{'msg': 'say "hi"'}`))
	})

	t.Run("Unescapes Single Quote", func(t *testing.T) {
		assert.Equal(t, `{"msg": "it's"}`, extract.Repair(`{'msg': 'it\'s'}`))
	})

	t.Run("Leaves Double Quoted Text Alone", func(t *testing.T) {
		in := `{"msg": "don't say True"}`
		assert.Equal(t, in, extract.Repair(in))
	})

	t.Run("Identifiers Containing Literals", func(t *testing.T) {
		assert.Equal(t, `{"a": Trueish}`, extract.Repair(`{'a': Trueish}`))
	})
}

func TestCandidate(t *testing.T) {
	c, ok := extract.Candidate(`noise [{"a": 1}] more {"b": 2} end`)
	require.True(t, ok)
	assert.Equal(t, `[{"a": 1}] more {"b": 2}`, c)

	_, ok = extract.Candidate("no braces here")
	assert.False(t, ok)
}

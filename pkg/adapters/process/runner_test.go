package process

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Execute(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("tasks run through a POSIX shell")
	}

	catalog := NewCatalog(&CatalogFile{
		Tasks: []TaskConfig{
			{Name: "Say_Hello", Command: "echo hello"},
			{Name: "fail", Command: "echo oops >&2; exit 3"},
			{Name: "slow", Command: "sleep 5", Timeout: 100 * time.Millisecond},
			{Name: "where", Command: "pwd"},
		},
	})
	dir := t.TempDir()
	runner := NewRunner(catalog, WithBaseDir(dir))

	t.Run("Executes Registered Command", func(t *testing.T) {
		out, err := runner.Execute(context.Background(), "say_hello")
		assert.NoError(t, err)
		assert.Equal(t, "hello", out)
	})

	t.Run("Lookup Is Case Insensitive", func(t *testing.T) {
		assert.True(t, runner.Allowed("SAY_HELLO"))
		assert.False(t, runner.Allowed("delete_system32"))
	})

	t.Run("Fails For Unregistered Command", func(t *testing.T) {
		_, err := runner.Execute(context.Background(), "delete_system32")
		assert.ErrorIs(t, err, ErrTaskNotAllowed)
	})

	t.Run("Reports Stderr", func(t *testing.T) {
		_, err := runner.Execute(context.Background(), "fail")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "oops")
		assert.Contains(t, err.Error(), "exit status 3")
	})

	t.Run("Honors Task Timeout", func(t *testing.T) {
		start := time.Now()
		_, err := runner.Execute(context.Background(), "slow")
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), 4*time.Second)
	})

	t.Run("Runs In Base Dir", func(t *testing.T) {
		out, err := runner.Execute(context.Background(), "where")
		require.NoError(t, err)
		resolved, _ := filepath.EvalSymlinks(dir)
		assert.Contains(t, []string{dir, resolved}, out)
	})
}

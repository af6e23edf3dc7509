package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/companion/internal/config"
	"github.com/aretw0/companion/pkg/adapters/memory"
	"github.com/aretw0/companion/pkg/adapters/process"
	"github.com/aretw0/companion/pkg/domain"
	"github.com/aretw0/companion/pkg/ports"
	"github.com/aretw0/companion/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	browserUtterance = "launch the browser please"
	browserReply     = `{"action": "open_app", "app": "firefox"}`
	quitUtterance    = "shut yourself down"
	quitReply        = `[{"action": "quit"}]`
)

type fakeSpawner struct {
	mu      sync.Mutex
	started []ports.Command
}

func (s *fakeSpawner) Start(ctx context.Context, cmd ports.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = append(s.started, cmd)
	return nil
}

func (s *fakeSpawner) Run(ctx context.Context, cmd ports.Command) error { return nil }

func (s *fakeSpawner) LookPath(file string) (string, error) {
	if file == "firefox" {
		return "/usr/bin/firefox", nil
	}
	return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
}

func (s *fakeSpawner) Started() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var names []string
	for _, c := range s.started {
		names = append(names, c.Name)
	}
	return names
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Path = filepath.Join(dir, "config.yaml")
	cfg.Editor.WorkspaceRoot = dir
	cfg.Editor.ReadyDelay = 0
	cfg.OutputDir = dir
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) (*App, *fakeSpawner) {
	t.Helper()
	gen := memory.NewGenerator().
		When(browserUtterance, memory.Reply{Text: browserReply}).
		When(quitUtterance, memory.Reply{Text: quitReply})
	sp := &fakeSpawner{}

	app, err := Build(context.Background(), cfg, BuildOptions{Generator: gen, Spawner: sp, Quiet: true})
	require.NoError(t, err)
	t.Cleanup(func() { app.Close(context.Background()) })
	return app, sp
}

func TestApp_Do(t *testing.T) {
	app, sp := newTestApp(t, testConfig(t))

	var out bytes.Buffer
	o := app.Do(context.Background(), browserUtterance, &out)

	assert.Equal(t, "Opened firefox", o.Status)
	assert.True(t, o.OK())
	assert.Equal(t, "Opened firefox\n", out.String())
	assert.Equal(t, []string{"firefox"}, sp.Started())

	families, err := app.Registry.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "companion_submissions_total")
}

func TestApp_MissingKey(t *testing.T) {
	const env = "COMPANION_TEST_MISSING_KEY"
	t.Setenv(env, "")

	cfg := testConfig(t)
	cfg.APIKeyEnv = env

	app, err := Build(context.Background(), cfg, BuildOptions{Spawner: &fakeSpawner{}, Quiet: true})
	require.NoError(t, err, "a missing key must not fail startup")
	defer app.Close(context.Background())

	o := app.Do(context.Background(), "open firefox", io.Discard)
	assert.Contains(t, o.Status, "Error: text generation service unavailable")
	assert.Contains(t, o.Status, env)
}

func TestApp_Interpret(t *testing.T) {
	app, sp := newTestApp(t, testConfig(t))

	var out bytes.Buffer
	require.NoError(t, app.Interpret(context.Background(), browserUtterance, true, &out))

	assert.Contains(t, out.String(), "--- model reply ---")
	assert.Contains(t, out.String(), browserReply)
	assert.Contains(t, out.String(), `"action": "open_app"`)
	assert.Empty(t, sp.Started(), "interpret never executes")
}

func TestApp_Run(t *testing.T) {
	app, sp := newTestApp(t, testConfig(t))

	var out bytes.Buffer
	in := strings.NewReader(browserUtterance + "\nhelp\nexit\n" + browserUtterance + "\n")
	require.NoError(t, app.Run(context.Background(), RunOptions{In: in, Out: &out}))

	assert.Contains(t, out.String(), "Opened firefox")
	assert.Contains(t, out.String(), "# Companion")
	assert.Equal(t, []string{"firefox"}, sp.Started(), "nothing runs after exit")
}

func TestApp_RunQuit(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))

	var out bytes.Buffer
	in := strings.NewReader(quitUtterance + "\n" + browserUtterance + "\n")
	require.NoError(t, app.Run(context.Background(), RunOptions{In: in, Out: &out}))
	assert.Contains(t, out.String(), "Application closed")
	assert.NotContains(t, out.String(), "Opened firefox")
}

func TestApp_RunReset(t *testing.T) {
	cfg := testConfig(t)
	app, _ := newTestApp(t, cfg)
	ctx := context.Background()

	_, err := app.Tracker.NewWorkspace(ctx, session.DefaultKey)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, app.Run(ctx, RunOptions{In: strings.NewReader("reset\nexit\n"), Out: &out}))

	assert.Contains(t, out.String(), "Editor workspace forgotten")
	assert.Contains(t, out.String(), cfg.Editor.WorkspaceRoot)
	_, err = app.Tracker.Current(ctx, session.DefaultKey)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestBuild_AppliesConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Editor.Opener = "site-viewer"
	cfg.Editor.WorkspacePrefix = "ws_"
	cfg.Prompts.Command = "CUSTOM {command}"
	cfg.Prompts.Website = "SITE ABOUT {topic}"
	cfg.Runner.Dir = t.TempDir()
	cfg.Catalog.Tasks = []process.TaskConfig{{Name: "where", Command: "pwd > where.txt"}}

	gen := memory.NewGenerator().
		When("make a cats site", memory.Reply{Text: `{"action": "create_file", "type": "website", "topic": "cats"}`}).
		When("SITE ABOUT cats", memory.Reply{Text: "<html></html>"}).
		When("where am i", memory.Reply{Text: `{"action": "system_task", "task": "where"}`})
	sp := &fakeSpawner{}
	app, err := Build(context.Background(), cfg, BuildOptions{Generator: gen, Spawner: sp, Quiet: true})
	require.NoError(t, err)
	defer app.Close(context.Background())
	ctx := context.Background()

	t.Run("Prompts And Opener", func(t *testing.T) {
		o := app.Do(ctx, "make a cats site", io.Discard)
		assert.Equal(t, "Created and opened cats.html in browser", o.Status)
		assert.Equal(t, []string{"site-viewer"}, sp.Started())
		assert.Contains(t, gen.Prompts(), "CUSTOM make a cats site")
	})

	t.Run("Workspace Prefix", func(t *testing.T) {
		rec, err := app.Tracker.NewWorkspace(ctx, session.DefaultKey)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(filepath.Base(rec.Folder), "ws_"), rec.Folder)
	})

	t.Run("Runner Directory", func(t *testing.T) {
		if _, err := exec.LookPath("sh"); err != nil {
			t.Skip("sh not available")
		}
		o := app.Do(ctx, "where am i", io.Discard)
		assert.Equal(t, "Performed task: where", o.Status)
		assert.FileExists(t, filepath.Join(cfg.Runner.Dir, "where.txt"))
	})
}

func TestApp_Serve(t *testing.T) {
	app, sp := newTestApp(t, testConfig(t))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- app.serveOn(context.Background(), ln, io.Discard) }()

	base := "http://" + ln.Addr().String()
	post := func(text string) map[string]any {
		body, _ := json.Marshal(map[string]string{"text": text})
		resp, err := http.Post(base+"/submit", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	assert.Equal(t, "Opened firefox", post(browserUtterance)["status"])
	assert.Equal(t, true, post(quitUtterance)["quit"])

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after quit")
	}
	assert.Equal(t, []string{"firefox"}, sp.Started())
}

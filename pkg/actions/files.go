package actions

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/aretw0/companion/internal/logging"
	"github.com/aretw0/companion/pkg/domain"
	"github.com/aretw0/companion/pkg/ports"
	"github.com/aretw0/companion/pkg/session"
)

// DefaultOpener opens a file with the desktop's default handler.
const DefaultOpener = "xdg-open"

// Files generates content with the model, writes it to disk and opens it.
type Files struct {
	gen       ports.TextGenerator
	spawner   ports.Spawner
	tracker   *session.Tracker
	editor    Editor
	outputDir string
	opener    string
	prompts   map[string]string
	logger    *slog.Logger
}

// FilesOption configures a Files handler.
type FilesOption func(*Files)

// WithFilesEditor configures the code editor used for Python files.
func WithFilesEditor(e Editor) FilesOption {
	return func(f *Files) {
		f.editor = e.withDefaults()
	}
}

// WithOutputDir sets the fallback directory used when no editor workspace exists.
func WithOutputDir(dir string) FilesOption {
	return func(f *Files) {
		f.outputDir = dir
	}
}

// WithOpener sets the program used to open websites.
func WithOpener(opener string) FilesOption {
	return func(f *Files) {
		if opener != "" {
			f.opener = opener
		}
	}
}

// WithContentPrompt replaces the generation prompt for a content kind.
func WithContentPrompt(kind, template string) FilesOption {
	return func(f *Files) {
		if template != "" {
			f.prompts[kind] = template
		}
	}
}

// WithFilesLogger configures the structured logger.
func WithFilesLogger(logger *slog.Logger) FilesOption {
	return func(f *Files) {
		f.logger = logger
	}
}

// NewFiles creates a Files handler.
func NewFiles(gen ports.TextGenerator, spawner ports.Spawner, tracker *session.Tracker, opts ...FilesOption) *Files {
	f := &Files{
		gen:     gen,
		spawner: spawner,
		tracker: tracker,
		editor:  DefaultEditor(),
		opener:  DefaultOpener,
		prompts: map[string]string{
			domain.ContentPython:  PythonPrompt,
			domain.ContentWebsite: WebsitePrompt,
		},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type contentKind struct {
	ext          string
	failedStatus string
}

var kinds = map[string]contentKind{
	domain.ContentPython:  {ext: ".py", failedStatus: "Failed to generate Python code"},
	domain.ContentWebsite: {ext: ".html", failedStatus: "Failed to generate website content"},
}

// Create generates a file of the given kind about topic. reuse tells whether an
// editor window was already opened earlier in the same command.
func (f *Files) Create(ctx context.Context, kind, topic string, reuse bool) string {
	spec, ok := kinds[kind]
	if !ok {
		return fmt.Sprintf("Unsupported content type: %s", kind)
	}

	content, err := f.generate(ctx, renderTopic(f.prompts[kind], topic))
	if err != nil {
		f.logger.Error("Content generation failed", "type", kind, "topic", topic, "err", err)
		return spec.failedStatus
	}

	filename := SanitizeFilename(topic) + spec.ext
	dir, inWorkspace := f.placement(ctx)
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		f.logger.Error("Failed to write file", "path", path, "err", err)
		return fmt.Sprintf("Failed to write file %s: %v", filename, err)
	}
	f.logger.Info("File created", "path", path, "bytes", len(content))

	switch kind {
	case domain.ContentPython:
		return f.openPython(ctx, filename, path, inWorkspace, reuse)
	default:
		if err := f.spawner.Start(ctx, ports.Command{Name: f.opener, Args: []string{path}}); err != nil {
			f.logger.Error("Failed to open website", "path", path, "err", err)
			return fmt.Sprintf("Created %s but failed to open it: %v", filename, err)
		}
		return fmt.Sprintf("Created and opened %s in browser", filename)
	}
}

func (f *Files) openPython(ctx context.Context, filename, path string, inWorkspace, reuse bool) string {
	fields := strings.Fields(f.editor.Command)
	if len(fields) == 0 {
		return fmt.Sprintf("Created %s but no editor is configured", filename)
	}
	cmd := ports.Command{Name: fields[0], Args: fields[1:]}

	if inWorkspace {
		cmd.Args = append(cmd.Args, "--goto", path)
		if err := f.spawner.Run(ctx, cmd); err != nil {
			f.logger.Warn("Could not focus file in editor", "path", path, "err", err)
		}
		return fmt.Sprintf("Created %s in the editor workspace", filename)
	}

	cmd.Args = append(cmd.Args, path)
	if reuse {
		cmd.Args = append(cmd.Args, "--reuse-window")
	}
	if err := f.spawner.Start(ctx, cmd); err != nil {
		f.logger.Error("Failed to open file in editor", "path", path, "err", err)
		return fmt.Sprintf("Created %s but failed to open it: %v", filename, err)
	}
	return fmt.Sprintf("Created and opened %s", filename)
}

// placement returns the live editor workspace, or the output directory.
func (f *Files) placement(ctx context.Context) (string, bool) {
	if rec, err := f.tracker.Current(ctx, f.editor.Key); err == nil {
		return rec.Folder, true
	}

	dir := f.outputDir
	if dir == "" {
		dir = "."
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return dir, false
}

func (f *Files) generate(ctx context.Context, prompt string) (string, error) {
	text, err := f.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	text = StripFence(text)
	if text == "" {
		return "", domain.ErrEmptyResponse
	}
	return text, nil
}

// StripFence removes a code fence wrapping the whole text, if any.
func StripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	nl := strings.IndexByte(text, '\n')
	if nl == -1 {
		return strings.TrimSpace(strings.Trim(text, "`"))
	}
	body := text[nl+1:]
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}

// SanitizeFilename derives a safe file name from a topic: lowercase, whitespace
// runs become "_", characters outside [a-z0-9_.-] are dropped and leading dots
// trimmed. An empty result becomes "untitled".
func SanitizeFilename(topic string) string {
	var sb strings.Builder
	space := false
	for _, r := range strings.ToLower(strings.TrimSpace(topic)) {
		switch {
		case unicode.IsSpace(r):
			if !space {
				sb.WriteByte('_')
			}
			space = true
			continue
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			sb.WriteRune(r)
		}
		space = false
	}
	name := strings.TrimLeft(sb.String(), ".")
	if name == "" {
		return "untitled"
	}
	return name
}

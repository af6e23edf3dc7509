// Package config loads the companion configuration file and the model
// credential.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/companion/internal/logging"
	"github.com/aretw0/companion/pkg/actions"
	"github.com/aretw0/companion/pkg/adapters/process"
	"github.com/aretw0/companion/pkg/domain"
	"github.com/aretw0/companion/pkg/interpreter"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"

	// DefaultAPIKeyEnv names the environment variable holding the Gemini key.
	DefaultAPIKeyEnv = "GENAI_API_KEY"
	DefaultServeAddr = "127.0.0.1:8765"
	DefaultWakeWord  = "comp"
	DefaultWindow    = 10 * time.Second
	DefaultDelay     = 3 * time.Second

	redacted = "REDACTED"
)

// EditorConfig describes the workspace editor. Opener opens generated
// websites (default xdg-open).
type EditorConfig struct {
	Command         string        `yaml:"command"`
	Names           []string      `yaml:"names,omitempty"`
	WorkspaceRoot   string        `yaml:"workspace_root,omitempty"`
	WorkspacePrefix string        `yaml:"workspace_prefix,omitempty"`
	ReadyDelay      time.Duration `yaml:"ready_delay"`
	Opener          string        `yaml:"opener,omitempty"`
}

// RunnerConfig controls how allow-listed tasks run.
type RunnerConfig struct {
	Shell   string        `yaml:"shell"`
	Timeout time.Duration `yaml:"timeout"`
	Dir     string        `yaml:"dir,omitempty"`
}

// PromptsConfig overrides the model prompts. Command must contain {command};
// the content prompts must contain {topic}.
type PromptsConfig struct {
	Command string `yaml:"command,omitempty"`
	Python  string `yaml:"python,omitempty"`
	Website string `yaml:"website,omitempty"`
}

// LogConfig selects the log sinks.
type LogConfig struct {
	Level   string              `yaml:"level"`
	File    logging.FileOptions `yaml:"file,omitempty"`
	Journal bool                `yaml:"journal,omitempty"`
}

// VoiceConfig configures the wake-word transcript source.
// Command is an external speech-to-text program printing one transcript per line.
type VoiceConfig struct {
	Command  []string      `yaml:"command,omitempty"`
	WakeWord string        `yaml:"wake_word"`
	Window   time.Duration `yaml:"window"`
	Feedback []string      `yaml:"feedback,omitempty"`
}

// ServeConfig configures the local submission endpoint.
type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// TracingConfig configures span export.
type TracingConfig struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file,omitempty"`
}

// Config is the effective configuration.
type Config struct {
	Provider    string              `yaml:"provider"`
	Model       string              `yaml:"model,omitempty"`
	Host        string              `yaml:"host,omitempty"`
	Temperature *float64            `yaml:"temperature,omitempty"`
	APIKeyEnv   string              `yaml:"api_key_env"`
	APIKey      string              `yaml:"api_key,omitempty"`
	Editor      EditorConfig        `yaml:"editor"`
	Catalog     process.CatalogFile `yaml:"catalog,omitempty"`
	CatalogFile string              `yaml:"catalog_file,omitempty"`
	Runner      RunnerConfig        `yaml:"runner"`
	Prompts     PromptsConfig       `yaml:"prompts,omitempty"`
	OutputDir   string              `yaml:"output_dir,omitempty"`
	Log         LogConfig           `yaml:"log"`
	Voice       VoiceConfig         `yaml:"voice"`
	Serve       ServeConfig         `yaml:"serve"`
	Tracing     TracingConfig       `yaml:"tracing"`

	// Path is the file the configuration was read from.
	Path string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Provider:  ProviderGemini,
		APIKeyEnv: DefaultAPIKeyEnv,
		Editor: EditorConfig{
			Command:    "code",
			ReadyDelay: DefaultDelay,
		},
		Runner: RunnerConfig{
			Shell:   "sh",
			Timeout: process.DefaultTaskTimeout,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Voice: VoiceConfig{
			WakeWord: DefaultWakeWord,
			Window:   DefaultWindow,
		},
		Serve: ServeConfig{
			Addr: DefaultServeAddr,
		},
	}
}

// DefaultPath returns ~/.config/companion/config.yaml (or the platform equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "companion", "config.yaml")
}

// Load reads the configuration at path (DefaultPath when empty) on top of
// the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	cfg.Path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields that have a closed set of values.
func (c *Config) Validate() error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	switch c.Provider {
	case "":
		c.Provider = ProviderGemini
	case ProviderGemini, ProviderOllama:
	default:
		return fmt.Errorf("unknown provider %q (expected %s or %s)", c.Provider, ProviderGemini, ProviderOllama)
	}
	if c.Editor.ReadyDelay < 0 {
		return fmt.Errorf("editor.ready_delay must not be negative")
	}
	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 2) {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if c.Runner.Timeout < 0 {
		return fmt.Errorf("runner.timeout must not be negative")
	}
	if c.Runner.Shell == "" {
		c.Runner.Shell = "sh"
	}
	if p := c.Prompts.Command; p != "" && !strings.Contains(p, interpreter.CommandPlaceholder) {
		return fmt.Errorf("prompts.command must contain %s", interpreter.CommandPlaceholder)
	}
	for _, p := range []struct{ name, text string }{
		{domain.ContentPython, c.Prompts.Python},
		{domain.ContentWebsite, c.Prompts.Website},
	} {
		if p.text != "" && !strings.Contains(p.text, actions.TopicPlaceholder) {
			return fmt.Errorf("prompts.%s must contain %s", p.name, actions.TopicPlaceholder)
		}
	}
	if c.Voice.Window <= 0 {
		c.Voice.Window = DefaultWindow
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = DefaultAPIKeyEnv
	}
	return nil
}

// EffectiveCatalog layers the built-in catalog, the inline catalog section
// and the external catalog file, in that order.
func (c *Config) EffectiveCatalog() (*process.CatalogFile, error) {
	out := process.DefaultCatalogFile().Merge(&c.Catalog)
	if c.CatalogFile == "" {
		return out, nil
	}
	file, err := process.LoadCatalog(c.CatalogFile)
	if err != nil {
		return nil, err
	}
	return out.Merge(file), nil
}

// LoadEnv loads KEY=VALUE files into the environment. Missing files are
// skipped and variables already set are kept.
func LoadEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ResolveAPIKey returns the key from the environment, falling back to the
// api_key field. The environment is read once per call.
func (c *Config) ResolveAPIKey() string {
	name := c.APIKeyEnv
	if name == "" {
		name = DefaultAPIKeyEnv
	}
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return strings.TrimSpace(c.APIKey)
}

// Redacted renders the configuration as YAML with the key hidden.
func (c *Config) Redacted() ([]byte, error) {
	cp := *c
	if cp.APIKey != "" {
		cp.APIKey = redacted
	}
	return yaml.Marshal(&cp)
}

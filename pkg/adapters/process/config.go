package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// TaskConfig is one allow-listed system task.
type TaskConfig struct {
	Name        string        `yaml:"name" json:"name"`
	Command     string        `yaml:"command" json:"command"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// UnmarshalJSON accepts the timeout either as a duration string ("30s"),
// matching the YAML form, or as a number of nanoseconds.
func (t *TaskConfig) UnmarshalJSON(data []byte) error {
	type plain TaskConfig
	var raw struct {
		plain
		Timeout json.RawMessage `json:"timeout,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = TaskConfig(raw.plain)
	t.Timeout = 0

	value := strings.TrimSpace(string(raw.Timeout))
	switch {
	case value == "" || value == "null":
	case strings.HasPrefix(value, `"`):
		var text string
		if err := json.Unmarshal(raw.Timeout, &text); err != nil {
			return err
		}
		if text == "" {
			break
		}
		d, err := time.ParseDuration(text)
		if err != nil {
			return fmt.Errorf("invalid timeout for task %q: %w", t.Name, err)
		}
		t.Timeout = d
	default:
		var ns int64
		if err := json.Unmarshal(raw.Timeout, &ns); err != nil {
			return fmt.Errorf("invalid timeout for task %q: %w", t.Name, err)
		}
		t.Timeout = time.Duration(ns)
	}
	return nil
}

// CatalogFile is the on-disk form of the alias table and the task allow-list.
type CatalogFile struct {
	Aliases map[string]string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Tasks   []TaskConfig      `yaml:"tasks,omitempty" json:"tasks,omitempty"`
}

// DefaultCatalogFile returns the built-in aliases and tasks for a GNOME desktop.
func DefaultCatalogFile() *CatalogFile {
	return &CatalogFile{
		Aliases: map[string]string{
			"vscode":      "code",
			"trash":       "nautilus trash:///",
			"brave":       "brave-browser",
			"firefox":     "firefox",
			"terminal":    "gnome-terminal",
			"files":       "nautilus",
			"chrome":      "google-chrome",
			"libreoffice": "libreoffice",
			"calculator":  "gnome-calculator",
			"gedit":       "gedit",
			"text editor": "gedit",
			"vlc":         "vlc",
			"settings":    "gnome-control-center",
		},
		Tasks: []TaskConfig{
			{
				Name:        "empty_trash",
				Command:     "rm -rf ~/.local/share/Trash/*",
				Description: "Empty the desktop trash",
			},
		},
	}
}

// Merge returns a copy of f with other's aliases and tasks layered on top.
// Entries in other replace entries of f with the same name.
func (f *CatalogFile) Merge(other *CatalogFile) *CatalogFile {
	out := &CatalogFile{Aliases: make(map[string]string)}
	index := make(map[string]int)
	for _, src := range []*CatalogFile{f, other} {
		if src == nil {
			continue
		}
		for k, v := range src.Aliases {
			out.Aliases[normalize(k)] = v
		}
		for _, task := range src.Tasks {
			name := normalize(task.Name)
			if name == "" {
				continue
			}
			task.Name = name
			if i, ok := index[name]; ok {
				out.Tasks[i] = task
				continue
			}
			index[name] = len(out.Tasks)
			out.Tasks = append(out.Tasks, task)
		}
	}
	return out
}

// LoadCatalog reads a catalog file (YAML or JSON, chosen by extension).
// A missing file yields an empty catalog.
func LoadCatalog(path string) (*CatalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &CatalogFile{}, nil
		}
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var cfg CatalogFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse catalog json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
		}
	}
	return &cfg, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

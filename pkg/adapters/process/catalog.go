package process

import (
	"sort"
	"sync"
)

// Catalog is the live alias table and task allow-list.
// It can be swapped as a whole while the program runs. Safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	aliases map[string]string
	tasks   map[string]TaskConfig
}

// NewCatalog creates a Catalog from file. A nil file gives an empty catalog.
func NewCatalog(file *CatalogFile) *Catalog {
	c := &Catalog{}
	c.Update(file)
	return c
}

// Update replaces the whole content of the catalog.
func (c *Catalog) Update(file *CatalogFile) {
	aliases := make(map[string]string)
	tasks := make(map[string]TaskConfig)
	if file != nil {
		for k, v := range file.Aliases {
			aliases[normalize(k)] = v
		}
		for _, t := range file.Tasks {
			if name := normalize(t.Name); name != "" && t.Command != "" {
				tasks[name] = t
			}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.aliases = aliases
	c.tasks = tasks
}

// Alias returns the launch command registered for an application name.
func (c *Catalog) Alias(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cmd, ok := c.aliases[normalize(name)]
	return cmd, ok
}

// Task returns the allow-listed task with the given name (case-insensitive).
func (c *Catalog) Task(name string) (TaskConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tasks[normalize(name)]
	return t, ok
}

// TaskNames returns the allow-listed task names, sorted.
func (c *Catalog) TaskNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.tasks))
	for n := range c.tasks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AliasNames returns the known application names, sorted.
func (c *Catalog) AliasNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.aliases))
	for n := range c.aliases {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

package tool

import (
	"sort"
	"strings"
	"sync"

	"github.com/carlmei/promptcache/providers/ai"
)

// Catalog is a concurrency-safe registry of tools keyed by lowercased name,
// so lookups are case-insensitive and two names differing only in case
// replace each other.
type Catalog struct {
	mu    sync.RWMutex
	tools map[string]GenericTool
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{tools: make(map[string]GenericTool)}
}

// NewCatalogWithTools returns a catalog pre-populated with tools, named by
// their ToolInfo().Name.
func NewCatalogWithTools(tools ...GenericTool) *Catalog {
	catalog := NewCatalog()
	catalog.AddTools(tools...)
	return catalog
}

// AddTools registers tools, replacing any existing entry with the same
// (case-insensitive) name.
func (c *Catalog) AddTools(tools ...GenericTool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range tools {
		c.tools[strings.ToLower(t.ToolInfo().Name)] = t
	}
}

// Get looks up a tool by name, case-insensitively.
func (c *Catalog) Get(name string) (GenericTool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tools[strings.ToLower(name)]
	return t, ok
}

// Has reports whether a tool with the given name is registered.
func (c *Catalog) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Remove unregisters a tool by name and reports whether it was present.
func (c *Catalog) Remove(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := strings.ToLower(name)
	_, ok := c.tools[key]
	delete(c.tools, key)
	return ok
}

// Clear drops every registered tool.
func (c *Catalog) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tools = make(map[string]GenericTool)
}

// Size reports the number of registered tools.
func (c *Catalog) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tools)
}

// Tools returns a copy of the registry, keyed by lowercased name. Mutating
// the returned map does not affect the catalog.
func (c *Catalog) Tools() map[string]GenericTool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]GenericTool, len(c.tools))
	for name, t := range c.tools {
		out[name] = t
	}
	return out
}

// Descriptions returns the ToolInfo of every registered tool, sorted by name
// so request payloads are deterministic.
func (c *Catalog) Descriptions() []ai.ToolDescription {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.tools))
	for name := range c.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	descriptions := make([]ai.ToolDescription, 0, len(names))
	for _, name := range names {
		descriptions = append(descriptions, c.tools[name].ToolInfo())
	}
	return descriptions
}

// Merge copies every tool from other into c, overwriting name collisions.
// A nil other is a no-op.
func (c *Catalog) Merge(other *Catalog) {
	if other == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	other.mu.RLock()
	defer other.mu.RUnlock()

	for name, t := range other.tools {
		c.tools[name] = t
	}
}

// Clone returns an independent catalog holding the same tools.
func (c *Catalog) Clone() *Catalog {
	clone := NewCatalog()
	clone.Merge(c)
	return clone
}

// Validate reports registration problems as warnings. Name normalization
// currently rules them all out, so it returns nil; it exists so callers can
// keep a validation step in their setup.
func (c *Catalog) Validate() []string {
	return nil
}

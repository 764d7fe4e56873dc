// Package info holds the text shown for pickable park objects.
package info

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrUnknownEntry is returned by Lookup for names without an entry.
var ErrUnknownEntry = errors.New("unknown info entry")

//go:embed catalog.yaml
var defaultCatalog []byte

// Entry is one overlay's content.
type Entry struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
	Link    string `yaml:"link,omitempty"`
}

// Catalog maps object names to entries.
type Catalog map[string]Entry

// Default returns the built-in catalog for the stock park.
func Default() Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("info: built-in catalog: %v", err))
	}
	return c
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for name, e := range c {
		if e.Title == "" {
			return nil, fmt.Errorf("parse catalog: entry %q has no title", name)
		}
	}
	return c, nil
}

// Load reads a YAML catalog file. An empty path returns the built-in one.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Lookup returns the entry for name.
func (c Catalog) Lookup(name string) (Entry, error) {
	e, ok := c[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownEntry, name)
	}
	return e, nil
}

// Names returns the entry names, sorted.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

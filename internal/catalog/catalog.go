// Package catalog embeds the built-in fitness class dataset and exposes
// typed lookups over it. The data ships inside the binary so the seed
// command and the read-only catalog endpoint work without any backing
// store.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/classes.yaml
var classesYAML []byte

// Class is one catalog entry.
type Class struct {
	Name        string `yaml:"name" json:"name"`
	Duration    int    `yaml:"duration" json:"duration"`
	Description string `yaml:"description" json:"description"`
	Difficulty  string `yaml:"difficulty" json:"difficulty"`
	Equipment   string `yaml:"equipment" json:"equipment"`
}

// Category groups related classes.
type Category struct {
	ID      string  `yaml:"id" json:"id"`
	Name    string  `yaml:"name" json:"name"`
	Icon    string  `yaml:"icon" json:"icon"`
	Classes []Class `yaml:"classes" json:"classes"`
}

// Catalog is the full embedded dataset.
type Catalog struct {
	Categories []Category `yaml:"categories" json:"categories"`
}

var (
	loadOnce sync.Once
	loaded   *Catalog
	loadErr  error
)

// Load parses the embedded dataset. The parse happens once; subsequent
// calls return the same value.
func Load() (*Catalog, error) {
	loadOnce.Do(func() {
		var c Catalog
		if err := yaml.Unmarshal(classesYAML, &c); err != nil {
			loadErr = fmt.Errorf("parsing embedded class catalog: %w", err)
			return
		}
		loaded = &c
	})
	return loaded, loadErr
}

// AllClasses flattens the catalog into a single list, in category order.
func (c *Catalog) AllClasses() []Class {
	var out []Class
	for _, cat := range c.Categories {
		out = append(out, cat.Classes...)
	}
	return out
}

// FindCategory returns the category with the given id.
func (c *Catalog) FindCategory(id string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// FindClass looks a class up by name, case-insensitively.
func (c *Catalog) FindClass(name string) (Class, bool) {
	for _, cat := range c.Categories {
		for _, cl := range cat.Classes {
			if strings.EqualFold(cl.Name, name) {
				return cl, true
			}
		}
	}
	return Class{}, false
}

// ByDifficulty filters the flattened class list by difficulty label.
func (c *Catalog) ByDifficulty(difficulty string) []Class {
	var out []Class
	for _, cl := range c.AllClasses() {
		if strings.EqualFold(cl.Difficulty, difficulty) {
			out = append(out, cl)
		}
	}
	return out
}

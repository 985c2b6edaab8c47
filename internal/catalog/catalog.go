// Package catalog holds the static table of standardized accessibility
// feature identifiers. The catalog is documentation and validation support
// only: resolution never consults it to gate a decision, and unknown ids
// flow through the engine untouched.
package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/testbridge/toolgate/internal/model"
)

// Category groups feature identifiers by the kind of need they serve.
type Category string

const (
	Visual     Category = "visual"
	Auditory   Category = "auditory"
	Motor      Category = "motor"
	Cognitive  Category = "cognitive"
	Reading    Category = "reading"
	Navigation Category = "navigation"
	Linguistic Category = "linguistic"
	Assessment Category = "assessment"
)

// CustomPrefix marks integrator-defined feature ids. Ids under this
// namespace are intentionally outside the standardized table.
const CustomPrefix = "custom:"

// Catalog is a read-only feature table, loaded once and never mutated.
type Catalog struct {
	version    string
	categories map[model.FeatureID]Category
}

// New builds a catalog from a category table.
func New(version string, categories map[model.FeatureID]Category) *Catalog {
	m := make(map[model.FeatureID]Category, len(categories))
	for id, c := range categories {
		m[id] = c
	}
	return &Catalog{version: version, categories: m}
}

// NewDefault returns a catalog with the built-in standardized table.
func NewDefault() *Catalog {
	return New(DefaultVersion, defaultCategories())
}

// Version returns the catalog's version string.
func (c *Catalog) Version() string { return c.version }

// IsKnown reports whether id is in the standardized table.
func (c *Catalog) IsKnown(id model.FeatureID) bool {
	_, ok := c.categories[id]
	return ok
}

// IsCustom reports whether id is explicitly namespaced as
// integrator-defined.
func IsCustom(id model.FeatureID) bool {
	return strings.HasPrefix(string(id), CustomPrefix)
}

// CategoryOf returns the category for a standardized id.
func (c *Catalog) CategoryOf(id model.FeatureID) (Category, bool) {
	cat, ok := c.categories[id]
	return cat, ok
}

// Features returns the standardized ids in sorted order.
func (c *Catalog) Features() []model.FeatureID {
	ids := make([]model.FeatureID, 0, len(c.categories))
	for id := range c.categories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Unrecognized returns the ids that are neither standardized nor custom
// namespaced, in input order. Used by validation tooling to surface likely
// typos; never consulted during resolution.
func (c *Catalog) Unrecognized(ids []model.FeatureID) []model.FeatureID {
	var out []model.FeatureID
	for _, id := range ids {
		if !c.IsKnown(id) && !IsCustom(id) {
			out = append(out, id)
		}
	}
	return out
}

// catalogFile is the YAML shape for catalog extensions.
type catalogFile struct {
	Version  string                       `yaml:"version"`
	Features map[string][]model.FeatureID `yaml:"features"`
}

// Load reads a catalog from a YAML file. Missing file returns the default
// catalog. File entries extend the default table; a file-level version
// replaces the default version string.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return NewDefault(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDefault(), nil
		}
		return nil, fmt.Errorf("failed to read feature catalog: %w", err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse feature catalog: %w", err)
	}

	categories := defaultCategories()
	for cat, ids := range f.Features {
		switch Category(cat) {
		case Visual, Auditory, Motor, Cognitive, Reading, Navigation, Linguistic, Assessment:
		default:
			return nil, fmt.Errorf("feature catalog: unknown category %q", cat)
		}
		for _, id := range ids {
			categories[id] = Category(cat)
		}
	}

	version := f.Version
	if version == "" {
		version = DefaultVersion
	}
	return New(version, categories), nil
}

// Package catalog describes the platform root folders seeded on first load.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Loader reads the catalog from a file, or the built-in one when no file is set.
type Loader struct {
	filePath string
}

// NewLoader creates a loader. An empty path selects the built-in catalog.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the catalog.
func (l *Loader) Load() (Catalog, error) {
	data := defaultCatalog
	if l.filePath != "" {
		var err error
		data, err = os.ReadFile(l.filePath)
		if err != nil {
			return Catalog{}, fmt.Errorf("failed to read catalog file: %w", err)
		}
	}
	return Parse(data)
}

// Parse decodes catalog YAML.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return c
}

package seed

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var envRef = regexp.MustCompile(`\$\{([A-Z0-9_]+)\}`)

// Loader handles loading and parsing of a catalog file
type Loader struct {
	filePath string
}

// NewLoader creates a new catalog loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the catalog file
func (l *Loader) Load() (Catalog, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog document. ${VAR} references are replaced with
// the environment value, or an empty string when unset.
func Parse(data []byte) (Catalog, error) {
	data = expandEnv(data)

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}
	if len(catalog.Categories) == 0 {
		return Catalog{}, fmt.Errorf("no categories found in catalog")
	}
	return catalog, nil
}

func expandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(m []byte) []byte {
		name := envRef.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})
}

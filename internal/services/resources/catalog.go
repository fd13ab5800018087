package resources

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/KirkDiggler/aura/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type catalogFile struct {
	Resources []*models.Resource `yaml:"resources"`
}

// DefaultCatalog returns the built-in resource library
func DefaultCatalog() ([]*models.Resource, error) {
	return LoadCatalog(bytes.NewReader(defaultCatalog))
}

// LoadCatalogFile reads a catalog from a YAML file
func LoadCatalogFile(path string) ([]*models.Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	return LoadCatalog(f)
}

// LoadCatalog decodes a YAML catalog and checks every entry
func LoadCatalog(r io.Reader) ([]*models.Resource, error) {
	var file catalogFile

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	for i, res := range file.Resources {
		if res == nil || res.Title == "" {
			return nil, fmt.Errorf("%w: entry %d has no title", ErrInvalidCatalog, i)
		}
		if !res.Type.IsValid() {
			return nil, fmt.Errorf("%w: %q has unknown type %q", ErrInvalidCatalog, res.Title, res.Type)
		}
	}

	return file.Resources, nil
}

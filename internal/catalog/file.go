package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"wizkid-challenge/internal/domain"
)

type fileCatalog struct {
	Questions []domain.Question `yaml:"questions"`
}

// FileLoader reads a YAML question bank from disk.
type FileLoader struct {
	path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) LoadCatalog(_ context.Context) (domain.Catalog, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCatalogNotFound, l.path)
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML question bank.
func Parse(data []byte) (domain.Catalog, error) {
	var raw fileCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	c := FromQuestions(raw.Questions)
	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

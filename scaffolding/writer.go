package scaffolding

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// SingleFileName is the file written when all entities share one document.
const SingleFileName = "model.yaml"

// Writer writes a scaffold model as YAML files.
type Writer struct {
	SchemaAware bool // Place entity files under one directory per schema
	SingleFile  bool // Write the whole model to SingleFileName
}

// NewWriter creates a new model writer
func NewWriter(schemaAware, singleFile bool) *Writer {
	return &Writer{
		SchemaAware: schemaAware,
		SingleFile:  singleFile,
	}
}

// Write writes model under outputPath and returns the files it created.
func (w *Writer) Write(model *Model, outputPath string) ([]string, error) {
	if model == nil {
		return nil, ErrNilModel
	}

	if outputPath == "" {
		return nil, ErrOutputPathMissing
	}

	if w.SingleFile {
		filename := filepath.Join(outputPath, SingleFileName)
		if err := w.writeFile(filename, model); err != nil {
			return nil, err
		}

		return []string{filename}, nil
	}

	files := make([]string, 0, len(model.Entities))

	for _, entity := range model.Entities {
		filename := filepath.Join(w.entityDir(outputPath, entity.Schema), entity.Table+".yaml")

		doc := entityDocument{Dialect: model.Dialect, Entity: entity}
		if err := w.writeFile(filename, doc); err != nil {
			return files, err
		}

		files = append(files, filename)
	}

	return files, nil
}

// Encode writes model as a single YAML document.
func (w *Writer) Encode(out io.Writer, model *Model) error {
	if model == nil {
		return ErrNilModel
	}

	return encodeYAML(out, model)
}

type entityDocument struct {
	Dialect string  `yaml:"dialect,omitempty"`
	Entity  *Entity `yaml:"entity"`
}

func (w *Writer) writeFile(filename string, data any) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDirectoryCreateFailed, filepath.Dir(filename), err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileWriteFailed, filename, err)
	}
	defer file.Close()

	if err := encodeYAML(file, data); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileWriteFailed, filename, err)
	}

	return nil
}

// entityDir returns the directory for an entity file
func (w *Writer) entityDir(outputPath, schemaName string) string {
	if !w.SchemaAware {
		return outputPath
	}

	// Use 'global' for empty or default schemas
	if schemaName == "" || schemaName == "main" {
		schemaName = "global"
	}

	return filepath.Join(outputPath, schemaName)
}

func encodeYAML(out io.Writer, data any) error {
	encoder := yaml.NewEncoder(out, yaml.IndentSequence(true))
	defer encoder.Close()

	return encoder.Encode(data)
}

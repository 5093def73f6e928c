package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level structure of a project plan file.
type ImportSchema struct {
	Project      ProjectImport      `json:"project" yaml:"project"`
	Phases       []PhaseImport      `json:"phases" yaml:"phases"`
	Dependencies []DependencyImport `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// ProjectImport defines the project-level fields in the plan file.
type ProjectImport struct {
	ShortID string `json:"short_id" yaml:"short_id"`
	Name    string `json:"name" yaml:"name"`
}

// PhaseImport defines one phase. Ref is a file-local handle used by
// dependencies; it is not persisted.
type PhaseImport struct {
	Ref       string `json:"ref" yaml:"ref"`
	Name      string `json:"name" yaml:"name"`
	StartDate string `json:"start_date" yaml:"start_date"`
	EndDate   string `json:"end_date" yaml:"end_date"`
	Order     *int   `json:"order,omitempty" yaml:"order,omitempty"`
	Notes     string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// DependencyImport links two phases by ref. Type defaults to FS.
type DependencyImport struct {
	PredecessorRef string `json:"predecessor_ref" yaml:"predecessor_ref"`
	SuccessorRef   string `json:"successor_ref" yaml:"successor_ref"`
	Type           string `json:"type,omitempty" yaml:"type,omitempty"`
	LagDays        int    `json:"lag_days,omitempty" yaml:"lag_days,omitempty"`
}

// LoadImportSchema reads a plan file. The format follows the extension:
// .yaml and .yml are parsed as YAML, everything else as JSON.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

func ParseJSON(data []byte) (*ImportSchema, error) {
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}

func ParseYAML(data []byte) (*ImportSchema, error) {
	var schema ImportSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}

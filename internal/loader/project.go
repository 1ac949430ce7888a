package loader

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/leaplook/pkg/core"
	"gopkg.in/yaml.v3"
)

// ProjectFile is the dbt project file name.
const ProjectFile = "dbt_project.yml"

type projectYAML struct {
	Name string `yaml:"name"`
}

// LoadProject reads dbt_project.yml from dir.
func LoadProject(dir string) (*core.Project, error) {
	path := filepath.Join(dir, ProjectFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ParseError{File: path, Message: "dbt project file not found, use --project-dir to change the search path"}
		}
		return nil, &ParseError{File: path, Message: "reading project", Err: err}
	}

	var raw projectYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{File: path, Message: "invalid YAML", Err: err}
	}
	if raw.Name == "" {
		return nil, &ParseError{File: path, Message: "project has no name"}
	}
	return &core.Project{Name: raw.Name}, nil
}

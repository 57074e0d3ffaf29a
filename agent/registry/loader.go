package registry

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	contractx "supervisor-agent/agent/contract"
)

type registryFile struct {
	Agents []contractx.AgentMetadata `yaml:"agents"`
}

// Load reads agent definitions from a YAML file and layers them over the
// built-in agents. An empty path, or a path that does not exist, yields
// the builtins alone.
func Load(path string) (contractx.Registry, error) {
	agents := builtinAgents()

	if path != "" {
		fileAgents, err := readFile(path)
		if err != nil {
			return nil, err
		}
		agents = append(agents, fileAgents...)
	}

	return New(agents...)
}

func readFile(path string) ([]contractx.AgentMetadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read registry file %s: %w", path, err)
	}

	var file registryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse registry file %s: %w", path, err)
	}
	return file.Agents, nil
}

package view

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// PresentTreeYAML writes TreeOutput as YAML to w.
func PresentTreeYAML(w io.Writer, tree TreeOutput) error {
	yamlBytes, err := yaml.Marshal(tree)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	_, err = w.Write(yamlBytes)
	return err
}

// PresentNodeYAML writes a single node as YAML to w.
func PresentNodeYAML(w io.Writer, node Node) error {
	yamlBytes, err := yaml.Marshal(node)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	_, err = w.Write(yamlBytes)
	return err
}

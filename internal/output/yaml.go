package output

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats values as a YAML document.
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(value any, _ Table) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(value); err != nil {
		return "", fmt.Errorf("failed to marshal output to YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("failed to marshal output to YAML: %w", err)
	}
	return buf.String(), nil
}

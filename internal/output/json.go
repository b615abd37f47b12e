package output

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSONFormatter formats values as indented JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(value any, _ Table) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(value); err != nil {
		return "", fmt.Errorf("failed to marshal output to JSON: %w", err)
	}
	return buf.String(), nil
}

// Package payload moves request and result documents between files, input
// streams, and the console.
package payload

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Console is the destination Emit reports when the document went to the
// writer instead of a file.
const Console = ""

// ReadDocument reads path and parses it into a structured document. JSON is
// the default; files named .yaml or .yml parse as YAML. Read and parse
// failures propagate unchanged, they are not recoverable here and the
// original error says exactly what went wrong.
func ReadDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc any
	if isYAMLPath(path) {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

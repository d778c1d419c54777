package payload

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Emit serializes doc to dest, or pretty-prints it to w when dest is empty.
// It returns the absolute path it wrote, or Console when the document went
// to w, so callers can confirm file writes and stay quiet otherwise. File
// and console output carry the same serialization.
func Emit(w io.Writer, doc any, dest string) (string, error) {
	data, err := marshalFor(dest, doc)
	if err != nil {
		return "", err
	}

	if dest == "" {
		if _, err := w.Write(data); err != nil {
			return "", err
		}
		return Console, nil
	}

	resolved, err := filepath.Abs(dest)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(resolved, data, 0644); err != nil {
		return "", err
	}
	return resolved, nil
}

// marshalFor renders doc for dest: YAML when the destination says so by
// extension, two-space indented JSON otherwise. Console output always takes
// the JSON form.
func marshalFor(dest string, doc any) ([]byte, error) {
	if isYAMLPath(dest) {
		return yaml.Marshal(doc)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Package settings persists the per-directory settings file that supplies
// the middle-precedence configuration source.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/stevengum97/botbuilder-tools/pkg/config"
)

// FileName is the settings file every tool in the suite reads and writes.
const FileName = ".luisrc"

// File mirrors the Configuration shape on disk. Fields serialize in
// declaration order so saved files stay diffable.
type File struct {
	AuthoringKey string `json:"authoringKey"`
	EndpointBase string `json:"endpointBase"`
	AppID        string `json:"appId"`
	VersionID    string `json:"versionId"`
}

// Path returns the settings file location inside dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load reads the settings file in dir. A missing or unparseable file is not
// an error: it loads as an empty File and configuration validation reports
// whatever ends up unresolved.
func Load(dir string) *File {
	v := viper.New()
	v.SetConfigFile(Path(dir))
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return &File{}
	}
	return &File{
		AuthoringKey: v.GetString(config.FieldAuthoringKey),
		EndpointBase: v.GetString(config.FieldEndpointBase),
		AppID:        v.GetString(config.FieldAppID),
		VersionID:    v.GetString(config.FieldVersionID),
	}
}

// Source exposes the file as a resolver source, skipping empty fields.
func (f *File) Source() config.Source {
	src := config.Source{}
	for field, value := range map[string]string{
		config.FieldAuthoringKey: f.AuthoringKey,
		config.FieldEndpointBase: f.EndpointBase,
		config.FieldAppID:        f.AppID,
		config.FieldVersionID:    f.VersionID,
	} {
		if value != "" {
			src[field] = value
		}
	}
	return src
}

// Save writes f to the settings file in dir, replacing what was there.
// The write goes through a temp file and a rename so the destination is
// never left holding a partial document.
func Save(dir string, f *File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}
	data = append(data, '\n')

	path := Path(dir)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save settings file: %w", err)
	}
	return nil
}

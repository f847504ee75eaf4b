package prefs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/jask/fintrack/internal/database/repository"
)

// presetFile is the on-disk layout of mappings.toml:
//
//	[[mapping]]
//	name = "Chase checking"
//	source = "chase"
//	[mapping.mappings]
//	date = "Posting Date"
//	...
type presetFile struct {
	Mappings []repository.FieldMapping `toml:"mapping"`
}

// LoadMappings reads mapping presets from path. A missing file yields no presets.
func LoadMappings(path string) ([]repository.FieldMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var f presetFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	for i, m := range f.Mappings {
		if m.Name == "" {
			return nil, fmt.Errorf("decode %s: mapping %d has no name", path, i+1)
		}
	}
	return f.Mappings, nil
}

// SaveMappings writes presets to path atomically.
func SaveMappings(path string, mappings []repository.FieldMapping) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(presetFile{Mappings: mappings}); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

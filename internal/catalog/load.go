package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the on-disk encoding of a dataset file
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor picks the format from a file extension; anything but .json is YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// LoadFile reads a dataset from a YAML or JSON file.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	ds, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return ds, nil
}

// Parse decodes and validates a dataset. Unknown keys are rejected so that a
// misspelled field does not silently fall back to an architecture default.
func Parse(data []byte, format Format) (*Dataset, error) {
	var ds Dataset
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&ds); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&ds); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}
	ds.normalize()
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Load returns the dataset at path, or the embedded default when path is empty.
// SQLite databases (.db, .sqlite) are read through a Store.
func Load(path string) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case "":
		if path == "" {
			return Default()
		}
		return LoadFile(path)
	case ".db", ".sqlite", ".sqlite3":
		store, err := OpenStore(path)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Load()
	default:
		return LoadFile(path)
	}
}

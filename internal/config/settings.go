package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings holds tool settings loaded from .tcogo.yaml
type Settings struct {
	Catalog  string `yaml:"catalog"`  // dataset file or SQLite database; empty means the embedded dataset
	Database string `yaml:"database"` // SQLite path used by "catalog import"
	Listen   string `yaml:"listen"`   // address for "serve"
	Format   string `yaml:"format"`   // default output format
	Workers  int    `yaml:"workers"`  // per-comparison worker limit
	Industry string `yaml:"industry"` // default industry when an input omits it
}

// Default settings values
const (
	DefaultDatabase = "tcogo.db"
	DefaultListen   = "127.0.0.1:8080"
	DefaultFormat   = "table"
)

// WithDefaults fills unset fields.
func (s Settings) WithDefaults() Settings {
	if s.Database == "" {
		s.Database = DefaultDatabase
	}
	if s.Listen == "" {
		s.Listen = DefaultListen
	}
	if s.Format == "" {
		s.Format = DefaultFormat
	}
	return s
}

// LoadSettings searches for .tcogo.yaml or .tcogo.yml in the given directory
// and returns the parsed settings. Returns empty Settings if no file is found.
func LoadSettings(dir string) (Settings, error) {
	candidates := []string{
		filepath.Join(dir, ".tcogo.yaml"),
		filepath.Join(dir, ".tcogo.yml"),
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Settings{}, fmt.Errorf("read config %s: %w", path, err)
		}

		var s Settings
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		if s.Workers < 0 {
			return Settings{}, fmt.Errorf("config %s: workers cannot be negative", path)
		}
		return s, nil
	}

	return Settings{}, nil
}

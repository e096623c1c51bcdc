// Package config reads the TOML batch-build manifest accepted by
// cmd/aether's -c/--config flag: it unmarshals into a plain struct and lets
// the toml package do the work.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// BuildSpec is one [[build]] table: a single invocation's worth of flags,
// so a manifest can drive several generations in one run.
type BuildSpec struct {
	Input    string `toml:"input"`
	Output   string `toml:"output"`
	Package  string `toml:"package"`
	Language string `toml:"language"`
	NoCache  bool   `toml:"no_cache"`
}

// Manifest is the top-level shape of a -c/--config file.
type Manifest struct {
	Build []BuildSpec `toml:"build"`
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(m.Build) == 0 {
		return nil, fmt.Errorf("%s: no [[build]] tables defined", path)
	}
	return &m, nil
}

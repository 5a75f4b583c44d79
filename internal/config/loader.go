// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader builds an AppConfig from an optional YAML file plus the
// environment.
type Loader struct {
	path string
}

// NewLoader creates a loader. path may be empty, in which case only defaults
// and environment variables apply.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load resolves the configuration: defaults, then the YAML file, then
// environment overrides. The YAML parse is strict; unknown keys fail.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.path != "" {
		raw, err := os.ReadFile(l.path) // #nosec G304
		if err != nil {
			return AppConfig{}, fmt.Errorf("read config file: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return AppConfig{}, fmt.Errorf("parse config file %s: %w", l.path, err)
		}
	}

	return FromEnv(cfg), nil
}

// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the settings of the derdump command. Settings are read
// from a JSON or YAML file and completed with defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"codello.dev/x509der/der"
)

// EnvVar names the environment variable holding the path of the configuration
// file that is used if no file is given on the command line.
const EnvVar = "DERDUMP_CONFIG"

// Output formats.
const (
	FormatText  = "text"
	FormatYAML  = "yaml"
	FormatJSON  = "json"
	FormatTable = "table"
)

// Decoding modes.
const (
	ModeCertificate = "cert"
	ModeAny         = "any"
)

// Formats lists the supported output formats.
var Formats = []string{FormatText, FormatYAML, FormatJSON, FormatTable}

// Modes lists the supported decoding modes.
var Modes = []string{ModeCertificate, ModeAny}

// ErrInvalid is returned by [Config.Validate] for settings out of range.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the settings of a derdump run.
type Config struct {
	// Format selects the output format: text, yaml, json or table.
	Format string `json:"format" yaml:"format"`
	// Mode selects whether the input is decoded as a certificate or as
	// arbitrary DER.
	Mode string `json:"mode" yaml:"mode"`
	// Indent is the indentation per nesting level of the text format.
	Indent int `json:"indent" yaml:"indent"`
	// MaxDepth limits the nesting of constructed values.
	MaxDepth int `json:"maxDepth" yaml:"maxDepth"`
	// AllowTrailing accepts bytes following the decoded value.
	AllowTrailing bool `json:"allowTrailing" yaml:"allowTrailing"`
	// Verbose enables debug logging.
	Verbose bool `json:"verbose" yaml:"verbose"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Format:   FormatText,
		Mode:     ModeCertificate,
		Indent:   2,
		MaxDepth: der.DefaultMaxDepth,
	}
}

// isYAML reports whether path names a YAML file. All other files are read as
// JSON.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads the configuration file at path. Settings missing from the file
// keep their default values. If path is empty, Load returns [Default].
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if isYAML(path) {
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	} else if err = json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse JSON config file: %w", err)
	}
	return cfg, cfg.Validate()
}

// LoadFromEnv loads the configuration file named by [EnvVar].
func LoadFromEnv() (Config, error) {
	return Load(os.Getenv(EnvVar))
}

// Validate checks that all settings of c are in range.
func (c Config) Validate() error {
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("%w: unknown format %q", ErrInvalid, c.Format)
	}
	if !slices.Contains(Modes, c.Mode) {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalid, c.Mode)
	}
	if c.Indent < 0 {
		return fmt.Errorf("%w: negative indent %d", ErrInvalid, c.Indent)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("%w: max depth must be positive, got %d", ErrInvalid, c.MaxDepth)
	}
	return nil
}

// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

const (
	StoreSQLite = "sqlite"
	StoreYAML   = "yaml"

	PartialKeep   = "keep"
	PartialRemove = "remove"

	DefaultBufferSize = 64 * 1024
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config represents the complete configuration
type Config struct {
	// Database is the sqlite file holding values (and settings for the sqlite store)
	Database string `json:"database,omitempty" yaml:"database,omitempty" hcl:"database,optional"`
	// SettingsStore is "sqlite" or "yaml"
	SettingsStore string `json:"settings_store,omitempty" yaml:"settings_store,omitempty" hcl:"settings_store,optional"`
	// SettingsFile is the yaml settings file, used with the yaml store
	SettingsFile string `json:"settings_file,omitempty" yaml:"settings_file,omitempty" hcl:"settings_file,optional"`
	// BufferSize is the streaming chunk size in bytes
	BufferSize int `json:"buffer_size,omitempty" yaml:"buffer_size,omitempty" hcl:"buffer_size,optional"`
	// PartialOutput is "keep" or "remove", applied to failed exports
	PartialOutput string `json:"partial_output,omitempty" yaml:"partial_output,omitempty" hcl:"partial_output,optional"`
	// OpenFilters are doublestar globs a file must match to be imported
	OpenFilters []string `json:"open_filters,omitempty" yaml:"open_filters,omitempty" hcl:"open_filters,optional"`
	LogLevel    string   `json:"log_level,omitempty" yaml:"log_level,omitempty" hcl:"log_level,optional"`
}

// Dir returns the directory configuration and data live in by default
func Dir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "contentxfer")
	}
	return ".contentxfer"
}

// 🏗️ Default returns the configuration used when no file is present
func Default() *Config {
	dir := Dir()
	return &Config{
		Database:      filepath.Join(dir, "contentxfer.db"),
		SettingsStore: StoreSQLite,
		SettingsFile:  filepath.Join(dir, "settings.yaml"),
		BufferSize:    DefaultBufferSize,
		PartialOutput: PartialKeep,
		LogLevel:      "info",
	}
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadDefault loads the first config file found in Dir, or Default when
// there is none
func LoadDefault(ctx context.Context) (*Config, error) {
	for _, name := range []string{"config.yaml", "config.yml", "config.hcl", "config.json"} {
		path := filepath.Join(Dir(), name)
		if _, err := os.Stat(path); err == nil {
			return Load(ctx, path)
		}
	}
	zerolog.Ctx(ctx).Debug().Str("dir", Dir()).Msg("no config file found, using defaults")
	return Default(), nil
}

// 🔍 Validate fills in defaults and rejects unknown values
func (cfg *Config) Validate() error {
	def := Default()

	// Set defaults
	if cfg.Database == "" {
		cfg.Database = def.Database
	}
	if cfg.SettingsStore == "" {
		cfg.SettingsStore = def.SettingsStore
	}
	if cfg.SettingsFile == "" {
		cfg.SettingsFile = def.SettingsFile
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = def.BufferSize
	}
	if cfg.PartialOutput == "" {
		cfg.PartialOutput = def.PartialOutput
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}

	switch cfg.SettingsStore {
	case StoreSQLite, StoreYAML:
	default:
		return errors.Errorf("settings_store must be %q or %q, got %q", StoreSQLite, StoreYAML, cfg.SettingsStore)
	}

	switch cfg.PartialOutput {
	case PartialKeep, PartialRemove:
	default:
		return errors.Errorf("partial_output must be %q or %q, got %q", PartialKeep, PartialRemove, cfg.PartialOutput)
	}

	if cfg.BufferSize < 0 {
		return errors.Errorf("buffer_size must be positive, got %d", cfg.BufferSize)
	}

	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return errors.Errorf("log_level: %w", err)
	}

	for _, f := range cfg.OpenFilters {
		if !doublestar.ValidatePattern(f) {
			return errors.Errorf("open_filters: invalid pattern %q", f)
		}
	}

	// Clean up paths
	cfg.Database = filepath.Clean(cfg.Database)
	cfg.SettingsFile = filepath.Clean(cfg.SettingsFile)

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("db=%s settings=%s buffer=%s partial=%s",
		cfg.Database, cfg.SettingsStore, humanize.IBytes(uint64(cfg.BufferSize)), cfg.PartialOutput)
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}

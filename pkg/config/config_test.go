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
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid_yaml",
			file: "config.yaml",
			config: `
database: /var/lib/contentxfer/values.db
settings_store: yaml
settings_file: /etc/contentxfer/settings.yaml
buffer_size: 4096
partial_output: remove
open_filters:
  - "*.md"
  - "docs/**/*.txt"
log_level: debug
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/var/lib/contentxfer/values.db", cfg.Database, "database should match")
				assert.Equal(t, StoreYAML, cfg.SettingsStore, "settings store should match")
				assert.Equal(t, "/etc/contentxfer/settings.yaml", cfg.SettingsFile, "settings file should match")
				assert.Equal(t, 4096, cfg.BufferSize, "buffer size should match")
				assert.Equal(t, PartialRemove, cfg.PartialOutput, "partial output should match")
				assert.Equal(t, []string{"*.md", "docs/**/*.txt"}, cfg.OpenFilters, "filters should match")
				assert.Equal(t, "debug", cfg.LogLevel, "log level should match")
			},
		},
		{
			name:   "minimal_yaml",
			file:   "config.yml",
			config: "log_level: warn\n",
			check: func(t *testing.T, cfg *Config) {
				def := Default()
				assert.Equal(t, def.Database, cfg.Database, "database should have default value")
				assert.Equal(t, StoreSQLite, cfg.SettingsStore, "store should have default value")
				assert.Equal(t, DefaultBufferSize, cfg.BufferSize, "buffer size should have default value")
				assert.Equal(t, PartialKeep, cfg.PartialOutput, "partial output should have default value")
			},
		},
		{
			name: "valid_hcl",
			file: "config.hcl",
			config: `
database       = "${config_dir}/values.db"
settings_store = "sqlite"
buffer_size    = 1024
open_filters   = ["*.txt"]
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, filepath.Join(Dir(), "values.db"), cfg.Database, "database should be interpolated")
				assert.Equal(t, 1024, cfg.BufferSize, "buffer size should match")
				assert.Equal(t, []string{"*.txt"}, cfg.OpenFilters, "filters should match")
			},
		},
		{
			name:   "valid_json",
			file:   "config.json",
			config: `{"partial_output": "remove", "buffer_size": 2048}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, PartialRemove, cfg.PartialOutput, "partial output should match")
				assert.Equal(t, 2048, cfg.BufferSize, "buffer size should match")
			},
		},
		{
			name:        "unknown_yaml_field",
			file:        "config.yaml",
			config:      "destination: /tmp\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:        "unknown_json_field",
			file:        "config.json",
			config:      `{"async": true}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:        "bad_hcl",
			file:        "config.hcl",
			config:      "database = ",
			wantErr:     true,
			errContains: "parsing HCL",
		},
		{
			name:        "bad_store",
			file:        "config.yaml",
			config:      "settings_store: redis\n",
			wantErr:     true,
			errContains: "settings_store must be",
		},
		{
			name:        "bad_partial",
			file:        "config.yaml",
			config:      "partial_output: rollback\n",
			wantErr:     true,
			errContains: "partial_output must be",
		},
		{
			name:        "negative_buffer",
			file:        "config.yaml",
			config:      "buffer_size: -1\n",
			wantErr:     true,
			errContains: "buffer_size must be positive",
		},
		{
			name:        "bad_filter",
			file:        "config.yaml",
			config:      "open_filters: [\"[oops\"]\n",
			wantErr:     true,
			errContains: "invalid pattern",
		},
		{
			name:        "bad_log_level",
			file:        "config.yaml",
			config:      "log_level: loud\n",
			wantErr:     true,
			errContains: "log_level",
		},
		{
			name:        "unknown_extension",
			file:        "config.toml",
			config:      "x = 1",
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	ctx := zerolog.New(os.Stderr).WithContext(context.Background())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create temporary config file
			configPath := filepath.Join(t.TempDir(), tt.file)
			err := os.WriteFile(configPath, []byte(tt.config), 0644)
			require.NoError(t, err, "writing config file should succeed")

			// Load config
			cfg, err := Load(ctx, configPath)
			if tt.wantErr {
				require.Error(t, err, "Load should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}

			require.NoError(t, err, "Load should succeed")
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate(), "defaults should validate")
	assert.Equal(t, "contentxfer.db", filepath.Base(cfg.Database))
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		Database:      "/tmp/x.db",
		SettingsStore: StoreYAML,
		BufferSize:    64 * 1024,
		PartialOutput: PartialKeep,
	}
	assert.Equal(t, "db=/tmp/x.db settings=yaml buffer=64 KiB partial=keep", cfg.String(), "String() should match")
}

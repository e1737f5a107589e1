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
		filename    string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:     "valid_yaml_config",
			filename: ".patchrc.yaml",
			config: `
patches:
  - file: src/tests/CubeMoveTests.cs
    replacements:
      - old: CubeColor.Orange
        new: CubeColor.Red
      - old: CubeFace.Right
        new: CubeFace.Left
        must_match: true
message: Test file updated with color scheme fixes
strict: false
async: true
`,
			check: func(t *testing.T, cfg *Config) {
				require.Len(t, cfg.Patches, 1, "should have 1 patch")
				assert.Equal(t, filepath.Clean("src/tests/CubeMoveTests.cs"), cfg.Patches[0].File, "file should match")
				require.Len(t, cfg.Patches[0].Replacements, 2, "should have 2 replacements")
				assert.Equal(t, "CubeColor.Orange", cfg.Patches[0].Replacements[0].Old, "first replacement old should match")
				assert.Equal(t, "CubeColor.Red", cfg.Patches[0].Replacements[0].New, "first replacement new should match")
				assert.False(t, cfg.Patches[0].Replacements[0].MustMatch, "first replacement must_match should default false")
				assert.True(t, cfg.Patches[0].Replacements[1].MustMatch, "second replacement must_match should be set")
				assert.Equal(t, "Test file updated with color scheme fixes", cfg.Message, "message should match")
				assert.False(t, cfg.Strict, "strict should be false")
				assert.True(t, cfg.Async, "async should be true")
			},
		},
		{
			name:     "minimal_yaml_config",
			filename: "patch.yaml",
			config: `
patches:
  - file: a.txt
    replacements:
      - old: foo
        new: bar
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultMessage, cfg.Message, "message should default")
				assert.False(t, cfg.Strict, "strict should default false")
				assert.False(t, cfg.Async, "async should default false")
			},
		},
		{
			name:     "multiline_replacement_yaml",
			filename: "patch.yaml",
			config: `
patches:
  - file: a.cs
    replacements:
      - old: "AssertStickersEqual(cube, CubeFace.Left,\n            CubeColor.Orange"
        new: "AssertStickersEqual(cube, CubeFace.Left,\n            CubeColor.Red"
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Contains(t, cfg.Patches[0].Replacements[0].Old, "\n", "old should include the literal newline")
			},
		},
		{
			name:     "valid_json_config",
			filename: "patch.json",
			config: `{
  "patches": [
    {
      "file": "a.txt",
      "replacements": [
        {"old": "foo", "new": "bar"}
      ]
    }
  ],
  "strict": true
}`,
			check: func(t *testing.T, cfg *Config) {
				require.Len(t, cfg.Patches, 1, "should have 1 patch")
				assert.True(t, cfg.Strict, "strict should be true")
			},
		},
		{
			name:     "valid_hcl_config",
			filename: "patch.hcl",
			config: `
message = "Test file updated with color scheme fixes"

patch "a.txt" {
  replacement {
    old = "foo"
    new = "bar"
  }
  replacement {
    old        = "baz"
    new        = "qux"
    must_match = true
  }
}
`,
			check: func(t *testing.T, cfg *Config) {
				require.Len(t, cfg.Patches, 1, "should have 1 patch")
				assert.Equal(t, "a.txt", cfg.Patches[0].File, "file label should match")
				require.Len(t, cfg.Patches[0].Replacements, 2, "should have 2 replacements")
				assert.True(t, cfg.Patches[0].Replacements[1].MustMatch, "must_match should be set")
				assert.Equal(t, "Test file updated with color scheme fixes", cfg.Message, "message should match")
			},
		},
		{
			name:     "patchrc_probes_yaml_then_hcl",
			filename: ".patchrc",
			config: `
patch "a.txt" {
  replacement {
    old = "foo"
    new = "bar"
  }
}
`,
			check: func(t *testing.T, cfg *Config) {
				require.Len(t, cfg.Patches, 1, "should have 1 patch from HCL fallback")
			},
		},
		{
			name:        "no_patches",
			filename:    "patch.yaml",
			config:      `message: hello`,
			wantErr:     true,
			errContains: "at least one patch is required",
		},
		{
			name:     "missing_file",
			filename: "patch.yaml",
			config: `
patches:
  - replacements:
      - old: foo
        new: bar
`,
			wantErr:     true,
			errContains: "file is required",
		},
		{
			name:     "missing_replacements",
			filename: "patch.yaml",
			config: `
patches:
  - file: a.txt
`,
			wantErr:     true,
			errContains: "at least one replacement is required",
		},
		{
			name:     "empty_old",
			filename: "patch.yaml",
			config: `
patches:
  - file: a.txt
    replacements:
      - old: ""
        new: bar
`,
			wantErr:     true,
			errContains: "old is required",
		},
		{
			name:        "unknown_fields_yaml",
			filename:    "patch.yaml",
			config:      `bogus: true`,
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:        "unsupported_extension",
			filename:    "patch.toml",
			config:      `whatever`,
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, tt.filename)
			require.NoError(t, os.WriteFile(path, []byte(tt.config), 0644), "writing config file")

			ctx := zerolog.New(os.Stderr).WithContext(context.Background())
			cfg, err := Load(ctx, path)

			if tt.wantErr {
				require.Error(t, err, "Load should fail")
				assert.Contains(t, err.Error(), tt.errContains, "error should mention the cause")
				return
			}

			require.NoError(t, err, "Load should succeed")
			require.NotNil(t, cfg, "config should not be nil")
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	ctx := context.Background()
	_, err := Load(ctx, filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err, "Load should fail for a missing file")
	assert.Contains(t, err.Error(), "reading config file", "error should mention the read")
}

func TestConfig_String(t *testing.T) {
	cfg := &Config{
		Patches: []Patch{
			{File: "a.txt", Replacements: []Replacement{{Old: "x", New: "y"}}},
			{File: "b.txt", Replacements: []Replacement{{Old: "x", New: "y"}, {Old: "p", New: "q"}}},
		},
	}
	assert.Equal(t, "2 file(s), 3 rule(s)", cfg.String(), "string form should summarize the config")
}

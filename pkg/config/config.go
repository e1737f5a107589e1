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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// DefaultMessage is printed after a successful run when the config sets none
const DefaultMessage = "All files patched"

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

// 🔄 Replacement represents a single literal string replacement
type Replacement struct {
	Old       string `json:"old" yaml:"old"`                                   // Exact text to find
	New       string `json:"new" yaml:"new"`                                   // Text to replace it with
	MustMatch bool   `json:"must_match,omitempty" yaml:"must_match,omitempty"` // Fail if the text is never found
}

// 📄 Patch represents one target file and its ordered replacements
type Patch struct {
	File         string        `json:"file" yaml:"file"`                 // Path to the file to rewrite in place
	Replacements []Replacement `json:"replacements" yaml:"replacements"` // Applied in list order
}

// 📚 Config represents the complete configuration
type Config struct {
	Patches []Patch `json:"patches" yaml:"patches"`
	Message string  `json:"message,omitempty" yaml:"message,omitempty"` // Success line printed after all patches apply
	Strict  bool    `json:"strict,omitempty" yaml:"strict,omitempty"`   // Treat any zero-match rule as an error
	Async   bool    `json:"async,omitempty" yaml:"async,omitempty"`     // Patch files concurrently
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// .patchrc files may be either YAML or HCL
	if strings.HasSuffix(path, ".patchrc") || filepath.Base(path) == ".patchrc" {
		cfg, yamlErr := (&YAMLParser{}).Parse(ctx, data)
		if yamlErr == nil {
			return cfg, nil
		}
		cfg, hclErr := (&HCLParser{}).Parse(ctx, data)
		if hclErr == nil {
			return cfg, nil
		}
		return nil, errors.Errorf("failed to parse .patchrc as YAML or HCL: %w", yamlErr)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if len(cfg.Patches) == 0 {
		return errors.Errorf("at least one patch is required")
	}

	for i, patch := range cfg.Patches {
		if patch.File == "" {
			return errors.Errorf("patch %d: file is required", i)
		}
		if len(patch.Replacements) == 0 {
			return errors.Errorf("patch %d: at least one replacement is required", i)
		}
		for j, r := range patch.Replacements {
			if r.Old == "" {
				return errors.Errorf("patch %d: replacement %d: old is required", i, j)
			}
		}
		cfg.Patches[i].File = filepath.Clean(patch.File)
	}

	// Set defaults
	if cfg.Message == "" {
		cfg.Message = DefaultMessage
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	rules := 0
	for _, p := range cfg.Patches {
		rules += len(p.Replacements)
	}
	return fmt.Sprintf("%d file(s), %d rule(s)", len(cfg.Patches), rules)
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
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

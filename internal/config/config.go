// Copyright 2026 The Rulegraph Authors.
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

// Package config loads and validates rulegraph's configuration: the YAML
// file named by --config merged with explicit flag overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/rulegraph/rulegraph/internal/errs"
	"github.com/rulegraph/rulegraph/pathtools"
)

// defaultUnresolvedThreshold is the fraction of include-matched classes
// SourceFileResolver may leave unresolved before the run is fatal.
const defaultUnresolvedThreshold = 0.70

// defaultExcludePattern matches generated identifiers synthesized by
// annotation processors, which never correspond to a source file.
const defaultExcludePattern = `^AutoValue_`

// Config is rulegraph's full configuration surface, the union of
// everything the Configuration table in the external interfaces names.
type Config struct {
	IncludePattern      string   `yaml:"include_pattern"`
	ExcludePattern      string   `yaml:"exclude_pattern"`
	ContentRoots        []string `yaml:"content_roots"`
	UserMappingPath     string   `yaml:"user_mapping_path"`
	ExternalResolvers   []string `yaml:"external_resolvers"`
	WorkspaceRoot       string   `yaml:"workspace_root"`
	DryRun              bool     `yaml:"dry_run"`
	UnresolvedThreshold float64  `yaml:"unresolved_threshold"`
	ResolverOrder       []string `yaml:"resolver_order"`

	include *regexp.Regexp
	exclude *regexp.Regexp
}

// DefaultConfig returns a Config carrying the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		IncludePattern:      ".*",
		ExcludePattern:      defaultExcludePattern,
		UnresolvedThreshold: defaultUnresolvedThreshold,
		ResolverOrder:       []string{"user-mapping", "source-file", "external"},
	}
}

// Load reads a YAML config file from path, merged over the defaults. A
// missing file is not an error: DefaultConfig alone is returned so that
// --config is always optional.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, errJoin(err))
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, errJoin(err))
	}
	return cfg, nil
}

func errJoin(err error) error {
	return fmt.Errorf("%w: %s", errs.ErrConfig, err)
}

// Validate compiles the include/exclude patterns and checks required
// fields, caching the compiled regexes for Include/Exclude. It must run
// after flag overrides are merged and before the pipeline starts.
func (c *Config) Validate() error {
	if c.WorkspaceRoot == "" {
		return fmt.Errorf("config: workspace-root is required: %w", errs.ErrConfig)
	}
	if c.UnresolvedThreshold < 0 || c.UnresolvedThreshold > 1 {
		return fmt.Errorf("config: unresolved-threshold %v out of [0,1]: %w", c.UnresolvedThreshold, errs.ErrConfig)
	}

	c.ContentRoots = resolveContentRoots(c.WorkspaceRoot, c.ContentRoots)

	include, err := regexp.Compile(c.IncludePattern)
	if err != nil {
		return fmt.Errorf("config: invalid include pattern %q: %w", c.IncludePattern, errJoin(err))
	}
	exclude, err := regexp.Compile(c.ExcludePattern)
	if err != nil {
		return fmt.Errorf("config: invalid exclude pattern %q: %w", c.ExcludePattern, errJoin(err))
	}
	c.include, c.exclude = include, exclude
	return nil
}

// resolveContentRoots anchors any relative content root at workspaceRoot,
// leaving already-absolute roots untouched and preserving probe order.
func resolveContentRoots(workspaceRoot string, roots []string) []string {
	if len(roots) == 0 {
		return roots
	}
	out := make([]string, len(roots))
	for i, r := range roots {
		if filepath.IsAbs(r) {
			out[i] = r
			continue
		}
		out[i] = pathtools.PrefixPaths([]string{r}, workspaceRoot)[0]
	}
	return out
}

// Include returns the compiled include pattern. Validate must run first.
func (c *Config) Include() *regexp.Regexp { return c.include }

// Exclude returns the compiled exclude pattern. Validate must run first.
func (c *Config) Exclude() *regexp.Regexp { return c.exclude }

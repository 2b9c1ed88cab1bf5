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

// Package buildrule implements BuildRuleBuilder: target-name derivation,
// label computation, and the per-rule creation-command list.
package buildrule

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"lukechampine.com/blake3"
)

// multiFileTargetPrefix names the synthetic target a collapsed,
// multi-file component gets when no single file's name can stand in for
// the whole rule.
const multiFileTargetPrefix = "merged"

// Kind discriminates the two BuildRule variants.
type Kind int

const (
	// KindProject is a rule this run creates: it owns files, a package,
	// a rule kind, and whatever extra commands its hints contributed.
	KindProject Kind = iota
	// KindExternal references a rule that already exists outside the
	// project; only its label is known.
	KindExternal
)

// Rule is a single build rule, either newly created (Project) or a
// reference to an existing one (External).
type Rule struct {
	Kind Kind

	// Project fields.
	Files         []string // absolute paths, component discovery order
	PackageDir    string   // absolute directory hosting the BUILD file
	RuleKind      string
	ExtraCommands []string
	// ExternalDeps lists labels of out-of-project rules this component's
	// classes depend on directly, resolved outside the file graph (the
	// file graph only ever links project-internal files).
	ExternalDeps []string

	Target string
	Label  string
}

// TargetName derives the target name for a component's file set per
// §4.7: a single file gets a dash-joined, extension-stripped stem;
// multiple files get a prefix plus a truncated BLAKE3 digest of their
// concatenated base names, computed in the order files is given
// (component discovery order), so the result only depends on run
// determinism, never on path sorting.
func TargetName(pkgDir string, files []string) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("buildrule: target name requested for empty file set")
	}
	if len(files) == 1 {
		rel, err := filepath.Rel(pkgDir, files[0])
		if err != nil {
			return "", fmt.Errorf("buildrule: relativizing %s against package %s: %w", files[0], pkgDir, err)
		}
		rel = strings.TrimSuffix(rel, filepath.Ext(rel))
		segs := strings.Split(rel, string(filepath.Separator))
		return strings.Join(segs, "-"), nil
	}

	var concat strings.Builder
	for _, f := range files {
		concat.WriteString(filepath.Base(f))
	}
	sum := blake3.Sum256([]byte(concat.String()))
	return fmt.Sprintf("%s_%s", multiFileTargetPrefix, hex.EncodeToString(sum[:8])), nil
}

// Label formats the canonical //<workspace-relative-dir>:<target> label.
// The workspace root itself maps to the empty package ("//:target").
func Label(workspaceRoot, pkgDir, target string) (string, error) {
	rel, err := filepath.Rel(workspaceRoot, pkgDir)
	if err != nil {
		return "", fmt.Errorf("buildrule: relativizing package %s against workspace root %s: %w", pkgDir, workspaceRoot, err)
	}
	if rel == "." {
		rel = ""
	}
	rel = filepath.ToSlash(rel)
	return fmt.Sprintf("//%s:%s", rel, target), nil
}

// CreationCommands returns the creation-phase commands for a Project
// rule per §4.7: a `new`, an `add srcs` with every file sorted relative
// to the package directory, then one line per deduplicated extra
// command. External rules never get creation commands.
func (r *Rule) CreationCommands(pkgLabel string) ([]string, error) {
	if r.Kind != KindProject {
		return nil, nil
	}

	rels := make([]string, len(r.Files))
	for i, f := range r.Files {
		rel, err := filepath.Rel(r.PackageDir, f)
		if err != nil {
			return nil, fmt.Errorf("buildrule: relativizing %s against package %s: %w", f, r.PackageDir, err)
		}
		rels[i] = filepath.ToSlash(rel)
	}
	sort.Strings(rels)

	cmds := make([]string, 0, 2+len(r.ExtraCommands))
	cmds = append(cmds, fmt.Sprintf("new %s %s|%s", r.RuleKind, r.Target, pkgLabel))
	cmds = append(cmds, fmt.Sprintf("add srcs %s|%s", strings.Join(rels, " "), r.Label))
	for _, extra := range r.ExtraCommands {
		cmds = append(cmds, fmt.Sprintf("%s|%s", extra, r.Label))
	}
	return cmds, nil
}

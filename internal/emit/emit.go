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

// Package emit implements CommandEmitter: it walks the build-rule DAG in
// emission order and produces the flat command stream the downstream
// edit tool consumes.
package emit

import (
	"fmt"
	"sort"

	"github.com/rulegraph/rulegraph/internal/buildrule"
	"github.com/rulegraph/rulegraph/internal/graph"
)

// Stream renders the full command stream for components in the order
// they appear in rules (already the reverse-topological emission order
// the SCC stage produced). dag gives each component's successor
// (dependency) indices. pkgLabel returns the "//pkg:__pkg__" label for a
// project rule's package directory.
func Stream(rules []*buildrule.Rule, dag *graph.Directed[int], pkgLabel func(pkgDir string) string) ([]string, error) {
	var lines []string
	for i, r := range rules {
		if r.Kind == buildrule.KindProject {
			cmds, err := r.CreationCommands(pkgLabel(r.PackageDir))
			if err != nil {
				return nil, fmt.Errorf("emit: component %d: %w", i, err)
			}
			lines = append(lines, cmds...)
		}

		if r.Kind != buildrule.KindProject {
			continue
		}
		seen := map[string]bool{}
		var labels []string
		for _, s := range dag.Out(i) {
			l := rules[s].Label
			if !seen[l] {
				seen[l] = true
				labels = append(labels, l)
			}
		}
		for _, l := range r.ExternalDeps {
			if !seen[l] {
				seen[l] = true
				labels = append(labels, l)
			}
		}
		if len(labels) == 0 {
			continue
		}
		sort.Strings(labels)
		depLine := "add deps " + joinSpace(labels) + "|" + r.Label
		lines = append(lines, depLine)
	}
	return lines, nil
}

func joinSpace(ss []string) string {
	out := ss[0]
	for _, s := range ss[1:] {
		out += " " + s
	}
	return out
}

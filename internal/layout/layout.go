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

// Package layout implements PackageLayoutPlanner: it decides which
// directory hosts the BUILD file for each component, unioning
// directories that any single component straddles and collapsing each
// resulting equivalence class to its longest common path prefix.
package layout

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/rulegraph/rulegraph/internal/scc"
)

// PackageDir is the directory chosen to host a component's BUILD file.
type PackageDir = string

// Plan computes a PackageDir for every directory referenced by any
// component. dirOf extracts a node's containing directory (for a file
// graph node this is filepath.Dir(path)).
func Plan[N comparable](components []*scc.Component[N], dirOf func(N) string) map[string]PackageDir {
	uf := newUnionFind()

	for _, c := range components {
		seen := map[string]bool{}
		var list []string
		for _, n := range c.Nodes {
			d := dirOf(n)
			if !seen[d] {
				seen[d] = true
				list = append(list, d)
			}
		}
		sort.Strings(list)
		if len(list) > 0 {
			uf.add(list[0])
		}
		for i := 1; i < len(list); i++ {
			uf.union(list[0], list[i])
		}
	}

	result := make(map[string]PackageDir)
	for root, members := range uf.groups() {
		sort.Strings(members)
		prefix := longestCommonPrefixPath(members)
		for _, m := range members {
			result[m] = prefix
		}
		_ = root
	}
	return result
}

// longestCommonPrefixPath returns the longest path that is a
// component-wise (not character-wise) prefix of every directory in dirs.
func longestCommonPrefixPath(dirs []string) string {
	if len(dirs) == 0 {
		return ""
	}
	if len(dirs) == 1 {
		return filepath.Clean(dirs[0])
	}

	segLists := make([][]string, len(dirs))
	minLen := -1
	for i, d := range dirs {
		segs := splitPath(d)
		segLists[i] = segs
		if minLen == -1 || len(segs) < minLen {
			minLen = len(segs)
		}
	}

	common := 0
	for common < minLen {
		seg := segLists[0][common]
		match := true
		for _, segs := range segLists[1:] {
			if segs[common] != seg {
				match = false
				break
			}
		}
		if !match {
			break
		}
		common++
	}
	if common == 0 {
		// Absolute directories always share the root segment, so only
		// relative directories get here; they share nothing beyond ".".
		return "."
	}
	return joinPath(segLists[0][:common])
}

func splitPath(p string) []string {
	p = filepath.Clean(p)
	if p == string(filepath.Separator) {
		return []string{""}
	}
	return strings.Split(p, string(filepath.Separator))
}

func joinPath(parts []string) string {
	if len(parts) == 1 && parts[0] == "" {
		return string(filepath.Separator)
	}
	return strings.Join(parts, string(filepath.Separator))
}

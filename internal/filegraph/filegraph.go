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

// Package filegraph implements ClassToSourceMapper: it turns the
// preprocessed class graph plus a class->file map into a graph whose
// nodes are source file paths, dropping intra-file edges along the way.
package filegraph

import (
	"fmt"

	"github.com/rulegraph/rulegraph/internal/classgraph"
	"github.com/rulegraph/rulegraph/internal/errs"
	"github.com/rulegraph/rulegraph/internal/graph"
)

// Path is an absolute, normalized source file path used as a graph node
// handle and map key.
type Path = string

// Graph is a directed graph over source file paths with no self-loops.
type Graph = graph.Directed[Path]

// Map builds the FileGraph for cg using the resolved class->file mapping
// cf. Every node in cg must either be present in cf or be a class with no
// known project file (externally resolved or out-of-project); the latter
// are simply excluded from the resulting graph, to be handled at the
// class-to-rule layer. Any surviving inner-class identifier is an
// invariant violation.
func Map(cg *classgraph.Graph, cf map[classgraph.ID]Path) (*Graph, error) {
	for _, n := range cg.Nodes() {
		if classgraph.HasInnerClass(n) {
			return nil, fmt.Errorf("class-to-source mapper: inner-class id %q: %w", n, errs.ErrInputInvariant)
		}
	}

	fg := graph.NewDirected[Path]()
	for _, u := range cg.Nodes() {
		fu, ok := cf[u]
		if !ok {
			continue
		}
		fg.AddNode(fu)
		for _, v := range cg.Out(u) {
			fv, ok := cf[v]
			if !ok {
				continue
			}
			if fu == fv {
				continue // intra-file edge
			}
			fg.AddEdge(fu, fv)
		}
	}
	return fg, nil
}

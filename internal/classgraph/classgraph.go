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

// Package classgraph holds the class-level dependency graph and the
// preprocessing pass (include/exclude trim, nested-class collapse) that
// runs before class-to-file resolution.
package classgraph

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rulegraph/rulegraph/internal/graph"
)

// ID is a fully qualified, dotted class identifier. It may contain `$`
// until preprocessing collapses nested classes into their enclosing
// top-level identifier.
type ID = string

// Graph is a directed graph over class identifiers with no self-loops.
type Graph struct {
	g *graph.Directed[ID]
}

// New returns an empty class graph.
func New() *Graph {
	return &Graph{g: graph.NewDirected[ID]()}
}

// AddEdge records that `from` depends on `to`. A self-loop is a
// programming error in the caller (the wire format never produces one
// intentionally) and is rejected.
func (g *Graph) AddEdge(from, to ID) error {
	if from == to {
		return fmt.Errorf("classgraph: self-loop on %q", from)
	}
	g.g.AddEdge(from, to)
	return nil
}

// AddNode registers an isolated class with no recorded dependencies.
func (g *Graph) AddNode(id ID) {
	g.g.AddNode(id)
}

// Nodes returns every class id, sorted for determinism. The wire format's
// top-level adjacency is a Go map and therefore carries no order of its
// own by the time it reaches this package; per-class dependency order
// (the value slice) is preserved from the wire format and is what each
// node's Out order reflects.
func (g *Graph) Nodes() []ID {
	nodes := g.g.Nodes()
	sort.Strings(nodes)
	return nodes
}

// Out returns the classes `id` depends on, in the order they were added.
func (g *Graph) Out(id ID) []ID {
	return g.g.Out(id)
}

// FromAdjacency builds a Graph from the wire format's class_to_class map.
// Because the wire decoder materializes a Go map, top-level key order is
// not recoverable; classes are registered in sorted order and each one's
// dependency list is added in the slice order the parser emitted, which
// is preserved through gob decoding.
func FromAdjacency(adj map[ID][]ID) (*Graph, error) {
	g := New()
	keys := make([]ID, 0, len(adj))
	for k := range adj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, u := range keys {
		g.AddNode(u)
		for _, v := range adj[u] {
			if err := g.AddEdge(u, v); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// Preprocess runs the trim pass (include/exclude filtering) followed by
// the collapse pass (nested-class identifiers folded into their enclosing
// top-level identifier) and returns the resulting graph. Neither pattern
// matching all identifiers is an error; it simply yields an empty graph.
func Preprocess(g *Graph, include, exclude *regexp.Regexp) *Graph {
	keep := make(map[ID]bool)
	for _, n := range g.g.Nodes() {
		if include.MatchString(n) && !exclude.MatchString(n) {
			keep[n] = true
		}
	}

	trimmed := graph.NewDirected[ID]()
	for _, n := range g.g.Nodes() {
		if keep[n] {
			trimmed.AddNode(n)
		}
	}
	for _, u := range g.g.Nodes() {
		if !keep[u] {
			continue
		}
		for _, v := range g.g.Out(u) {
			if keep[v] {
				trimmed.AddEdge(u, v)
			}
		}
	}

	collapsed := graph.NewDirected[ID]()
	for _, n := range trimmed.Nodes() {
		collapsed.AddNode(collapseID(n))
	}
	for _, u := range trimmed.Nodes() {
		cu := collapseID(u)
		for _, v := range trimmed.Out(u) {
			cv := collapseID(v)
			if cu == cv {
				continue // self-loop introduced by collapsing siblings
			}
			collapsed.AddEdge(cu, cv)
		}
	}

	return &Graph{g: collapsed}
}

// collapseID replaces a possibly-nested class identifier with its
// enclosing top-level identifier, i.e. the prefix before the first `$`.
func collapseID(id ID) ID {
	if i := strings.IndexByte(id, '$'); i >= 0 {
		return id[:i]
	}
	return id
}

// HasInnerClass reports whether id contains a `$`, the marker for a
// nested-class identifier. Several downstream stages treat inner-class
// ids in their input as an invariant violation.
func HasInnerClass(id ID) bool {
	return strings.IndexByte(id, '$') >= 0
}

// TopLevel returns the enclosing top-level identifier for id, identical
// to the collapse pass's own logic. Exported for resolvers that must
// validate or reason about collapsed ids.
func TopLevel(id ID) ID {
	return collapseID(id)
}

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

// Package graph provides a small adjacency-map representation of a directed
// graph shared by every stage of the rule-generation pipeline. Nodes are
// tracked in first-seen order so that callers can iterate deterministically
// without ever depending on Go's randomized map ordering; every stage that
// produces observable output is expected to sort at its own emission
// boundary, but internal traversal order matters for reproducibility of SCC
// discovery and is kept stable here.
package graph

// Directed is a directed graph over comparable node handles (interned class
// identifiers, canonicalized file paths, or anything else stable for a
// single pipeline run).
type Directed[N comparable] struct {
	order []N
	seen  map[N]bool
	adj   map[N][]N
	edge  map[N]map[N]bool
}

// NewDirected returns an empty graph.
func NewDirected[N comparable]() *Directed[N] {
	return &Directed[N]{
		seen: make(map[N]bool),
		adj:  make(map[N][]N),
		edge: make(map[N]map[N]bool),
	}
}

// AddNode registers n if it hasn't been seen before. It is a no-op
// otherwise. Nodes are also registered implicitly by AddEdge.
func (g *Directed[N]) AddNode(n N) {
	if g.seen[n] {
		return
	}
	g.seen[n] = true
	g.order = append(g.order, n)
}

// AddEdge records a directed edge u->v, registering both endpoints if
// necessary. Duplicate edges are collapsed to one. The caller is
// responsible for rejecting self-loops where the domain forbids them;
// Directed itself places no such restriction.
func (g *Directed[N]) AddEdge(u, v N) {
	g.AddNode(u)
	g.AddNode(v)
	if g.edge[u] == nil {
		g.edge[u] = make(map[N]bool)
	}
	if g.edge[u][v] {
		return
	}
	g.edge[u][v] = true
	g.adj[u] = append(g.adj[u], v)
}

// HasNode reports whether n was ever added to the graph.
func (g *Directed[N]) HasNode(n N) bool {
	return g.seen[n]
}

// HasEdge reports whether u->v is present.
func (g *Directed[N]) HasEdge(u, v N) bool {
	return g.edge[u] != nil && g.edge[u][v]
}

// Nodes returns every node in first-seen order.
func (g *Directed[N]) Nodes() []N {
	out := make([]N, len(g.order))
	copy(out, g.order)
	return out
}

// Out returns the outgoing neighbors of n in the order their edges were
// added. It returns nil if n has no outgoing edges (including if n was
// never added).
func (g *Directed[N]) Out(n N) []N {
	if len(g.adj[n]) == 0 {
		return nil
	}
	out := make([]N, len(g.adj[n]))
	copy(out, g.adj[n])
	return out
}

// NodeCount returns the number of distinct nodes.
func (g *Directed[N]) NodeCount() int {
	return len(g.order)
}

// EdgeCount returns the number of distinct edges.
func (g *Directed[N]) EdgeCount() int {
	n := 0
	for _, vs := range g.adj {
		n += len(vs)
	}
	return n
}

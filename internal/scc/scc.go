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

// Package scc computes strongly-connected components with an iterative
// Tarjan's algorithm and induces the component DAG from the input
// graph's edges. The iterative form avoids recursion depth limits on
// large source-file graphs; an explicit work-stack stands in for the
// call stack.
package scc

import "github.com/rulegraph/rulegraph/internal/graph"

// Component is one strongly-connected component. Nodes is in discovery
// order (the order Tarjan's algorithm popped them off its stack), which
// downstream stages rely on for deterministic, insertion-order-sensitive
// operations such as hashing a multi-file target name.
type Component[N comparable] struct {
	Index int
	Nodes []N
}

// Result is the output of Compute: the components in emission order
// (reverse topological over the induced DAG, i.e. dependencies before
// dependents) plus the DAG itself and a lookup from node to component
// index.
type Result[N comparable] struct {
	Components  []*Component[N]
	DAG         *graph.Directed[int]
	ComponentOf map[N]int
}

// Compute runs Tarjan's algorithm over g.
func Compute[N comparable](g *graph.Directed[N]) *Result[N] {
	t := &tarjan[N]{
		g:        g,
		indices:  make(map[N]int),
		lowlink:  make(map[N]int),
		onStack:  make(map[N]bool),
		neighbor: make(map[N]int),
	}

	for _, v := range g.Nodes() {
		if _, ok := t.indices[v]; !ok {
			t.strongconnect(v)
		}
	}

	componentOf := make(map[N]int, g.NodeCount())
	for i, c := range t.components {
		c.Index = i
		for _, n := range c.Nodes {
			componentOf[n] = i
		}
	}

	dag := graph.NewDirected[int]()
	for i := range t.components {
		dag.AddNode(i)
	}
	for _, u := range g.Nodes() {
		cu := componentOf[u]
		for _, v := range g.Out(u) {
			cv := componentOf[v]
			if cu != cv {
				dag.AddEdge(cu, cv)
			}
		}
	}

	return &Result[N]{
		Components:  t.components,
		DAG:         dag,
		ComponentOf: componentOf,
	}
}

// frame is one activation record of the simulated recursive
// strongconnect call. How far v's neighbor list has been iterated is
// kept in tarjan.neighbor, not in the frame.
type frame[N comparable] struct {
	node N
}

type tarjan[N comparable] struct {
	g *graph.Directed[N]

	index   int
	indices map[N]int
	lowlink map[N]int
	onStack map[N]bool

	// neighbor tracks, per node, how many of its outgoing edges have
	// already been examined by the simulated recursion.
	neighbor map[N]int

	stack      []N
	components []*Component[N]
}

func (t *tarjan[N]) strongconnect(start N) {
	work := []frame[N]{{node: start}}
	t.visit(start)

	for len(work) > 0 {
		top := work[len(work)-1]
		v := top.node
		outs := t.g.Out(v)
		idx := t.neighbor[v]

		if idx < len(outs) {
			w := outs[idx]
			t.neighbor[v]++
			if _, ok := t.indices[w]; !ok {
				t.visit(w)
				work = append(work, frame[N]{node: w})
			} else if t.onStack[w] {
				if t.indices[w] < t.lowlink[v] {
					t.lowlink[v] = t.indices[w]
				}
			}
			continue
		}

		// Every neighbor of v has been examined; pop v's frame.
		work = work[:len(work)-1]
		if len(work) > 0 {
			parent := work[len(work)-1].node
			if t.lowlink[v] < t.lowlink[parent] {
				t.lowlink[parent] = t.lowlink[v]
			}
		}
		if t.lowlink[v] == t.indices[v] {
			t.popComponent(v)
		}
	}
}

func (t *tarjan[N]) visit(v N) {
	t.indices[v] = t.index
	t.lowlink[v] = t.index
	t.index++
	t.stack = append(t.stack, v)
	t.onStack[v] = true
}

func (t *tarjan[N]) popComponent(root N) {
	var nodes []N
	for {
		n := len(t.stack) - 1
		w := t.stack[n]
		t.stack = t.stack[:n]
		t.onStack[w] = false
		nodes = append(nodes, w)
		if w == root {
			break
		}
	}
	t.components = append(t.components, &Component[N]{Nodes: nodes})
}

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

package emit

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulegraph/rulegraph/internal/buildrule"
	"github.com/rulegraph/rulegraph/internal/graph"
)

func pkgLabel(pkgDir string) string { return "//" + filepath.Base(pkgDir) + ":__pkg__" }

func TestStreamLinearChain(t *testing.T) {
	rules := []*buildrule.Rule{
		{Kind: buildrule.KindProject, Files: []string{"/ws/com/C.java"}, PackageDir: "/ws/com", RuleKind: "java_library", Target: "C", Label: "//com:C"},
		{Kind: buildrule.KindProject, Files: []string{"/ws/com/B.java"}, PackageDir: "/ws/com", RuleKind: "java_library", Target: "B", Label: "//com:B"},
		{Kind: buildrule.KindProject, Files: []string{"/ws/com/A.java"}, PackageDir: "/ws/com", RuleKind: "java_library", Target: "A", Label: "//com:A"},
	}

	dag := graph.NewDirected[int]()
	dag.AddNode(0)
	dag.AddEdge(1, 0)
	dag.AddEdge(2, 1)

	lines, err := Stream(rules, dag, pkgLabel)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"new java_library C|//com:__pkg__",
		"add srcs C.java|//com:C",
		"new java_library B|//com:__pkg__",
		"add srcs B.java|//com:B",
		"add deps //com:C|//com:B",
		"new java_library A|//com:__pkg__",
		"add srcs A.java|//com:A",
		"add deps //com:B|//com:A",
	}, lines)
}

func TestStreamNoDepsWhenNoSuccessors(t *testing.T) {
	rules := []*buildrule.Rule{
		{Kind: buildrule.KindProject, Files: []string{"/ws/com/A.java"}, PackageDir: "/ws/com", RuleKind: "java_library", Target: "A", Label: "//com:A"},
	}
	dag := graph.NewDirected[int]()
	dag.AddNode(0)

	lines, err := Stream(rules, dag, pkgLabel)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"new java_library A|//com:__pkg__",
		"add srcs A.java|//com:A",
	}, lines)
}

func TestStreamExternalRuleNeverEmitsCreationCommands(t *testing.T) {
	rules := []*buildrule.Rule{
		{Kind: buildrule.KindExternal, Label: "//ext:thing"},
	}
	dag := graph.NewDirected[int]()
	dag.AddNode(0)

	lines, err := Stream(rules, dag, pkgLabel)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestStreamMergesExternalDepsWithDAGSuccessors(t *testing.T) {
	rules := []*buildrule.Rule{
		{Kind: buildrule.KindProject, Files: []string{"/ws/com/B.java"}, PackageDir: "/ws/com", RuleKind: "java_library", Target: "B", Label: "//com:B"},
		{
			Kind: buildrule.KindProject, Files: []string{"/ws/com/A.java"}, PackageDir: "/ws/com", RuleKind: "java_library",
			Target: "A", Label: "//com:A", ExternalDeps: []string{"//ext:z", "//com:B"},
		},
	}
	dag := graph.NewDirected[int]()
	dag.AddNode(0)
	dag.AddEdge(1, 0)

	lines, err := Stream(rules, dag, pkgLabel)
	require.NoError(t, err)
	assert.Contains(t, lines, "add deps //com:B //ext:z|//com:A")
}

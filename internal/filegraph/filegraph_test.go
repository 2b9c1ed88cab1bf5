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

package filegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulegraph/rulegraph/internal/classgraph"
	"github.com/rulegraph/rulegraph/internal/errs"
)

func TestMapDropsIntraFileEdges(t *testing.T) {
	cg, err := classgraph.FromAdjacency(map[string][]string{
		"com.A": {"com.B"},
		"com.B": {"com.A"},
	})
	require.NoError(t, err)

	cf := map[string]string{"com.A": "Same.java", "com.B": "Same.java"}
	fg, err := Map(cg, cf)
	require.NoError(t, err)

	assert.Equal(t, []string{"Same.java"}, fg.Nodes())
	assert.Equal(t, 0, fg.EdgeCount())
}

func TestMapExcludesUnresolvedClasses(t *testing.T) {
	cg, err := classgraph.FromAdjacency(map[string][]string{
		"com.A": {"com.External"},
	})
	require.NoError(t, err)

	cf := map[string]string{"com.A": "A.java"}
	fg, err := Map(cg, cf)
	require.NoError(t, err)

	assert.Equal(t, []string{"A.java"}, fg.Nodes())
	assert.Nil(t, fg.Out("A.java"))
}

func TestMapBuildsFileEdges(t *testing.T) {
	cg, err := classgraph.FromAdjacency(map[string][]string{
		"com.A": {"com.B"},
	})
	require.NoError(t, err)

	cf := map[string]string{"com.A": "A.java", "com.B": "B.java"}
	fg, err := Map(cg, cf)
	require.NoError(t, err)

	assert.True(t, fg.HasEdge("A.java", "B.java"))
}

func TestMapRejectsInnerClassNode(t *testing.T) {
	cg := classgraph.New()
	cg.AddNode("com.Outer$Inner")

	_, err := Map(cg, map[string]string{})
	assert.ErrorIs(t, err, errs.ErrInputInvariant)
}

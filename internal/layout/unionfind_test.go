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

package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnionFindFindIsReflexive(t *testing.T) {
	uf := newUnionFind()
	uf.add("a")
	assert.Equal(t, "a", uf.find("a"))
}

func TestUnionFindUnionJoinsRoots(t *testing.T) {
	uf := newUnionFind()
	uf.union("a", "b")
	assert.Equal(t, uf.find("a"), uf.find("b"))
}

func TestUnionFindTransitiveUnion(t *testing.T) {
	uf := newUnionFind()
	uf.union("a", "b")
	uf.union("b", "c")
	assert.Equal(t, uf.find("a"), uf.find("c"))
}

func TestUnionFindGroupsPartitionsMembers(t *testing.T) {
	uf := newUnionFind()
	uf.union("a", "b")
	uf.add("c")

	groups := uf.groups()
	assert.Len(t, groups, 2)

	var total int
	for _, members := range groups {
		total += len(members)
	}
	assert.Equal(t, 3, total)
}

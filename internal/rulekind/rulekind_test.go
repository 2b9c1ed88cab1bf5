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

package rulekind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulegraph/rulegraph/internal/errs"
	"github.com/rulegraph/rulegraph/internal/wire"
)

func TestMergeSingleKind(t *testing.T) {
	m, err := Merge([]wire.RuleKindHint{{Kind: "java_library"}})
	require.NoError(t, err)
	assert.Equal(t, "java_library", m.Kind)
	assert.Empty(t, m.ExtraCommands)
}

func TestMergeLibraryAndTestBecomesTest(t *testing.T) {
	m, err := Merge([]wire.RuleKindHint{{Kind: "java_library"}, {Kind: "java_test"}})
	require.NoError(t, err)
	assert.Equal(t, "java_test", m.Kind)
}

func TestMergeLibraryAndBinaryBecomesBinary(t *testing.T) {
	m, err := Merge([]wire.RuleKindHint{{Kind: "java_library"}, {Kind: "java_binary"}})
	require.NoError(t, err)
	assert.Equal(t, "java_binary", m.Kind)
}

func TestMergeLibraryBinaryImageBecomesImage(t *testing.T) {
	m, err := Merge([]wire.RuleKindHint{{Kind: "java_library"}, {Kind: "java_binary"}, {Kind: "java_image"}})
	require.NoError(t, err)
	assert.Equal(t, "java_image", m.Kind)
}

func TestMergePrefixMismatchErrors(t *testing.T) {
	_, err := Merge([]wire.RuleKindHint{{Kind: "java_library"}, {Kind: "py_library"}})
	assert.ErrorIs(t, err, errs.ErrRuleKindPrefixMismatch)
}

func TestMergeAmbiguousSuffixSetErrors(t *testing.T) {
	_, err := Merge([]wire.RuleKindHint{{Kind: "java_test"}, {Kind: "java_binary"}})
	assert.ErrorIs(t, err, errs.ErrRuleKindMergeAmbiguous)
}

func TestMergeNoHintsErrors(t *testing.T) {
	_, err := Merge(nil)
	assert.ErrorIs(t, err, errs.ErrRuleKindMergeAmbiguous)
}

func TestMergeDedupesAndSortsExtraCommands(t *testing.T) {
	m, err := Merge([]wire.RuleKindHint{
		{Kind: "java_library", ExtraCommands: []string{"add tags manual"}},
		{Kind: "java_library", ExtraCommands: []string{"add tags manual", "add tags local"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"add tags local", "add tags manual"}, m.ExtraCommands)
}

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

package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulegraph/rulegraph/internal/config"
	"github.com/rulegraph/rulegraph/internal/wire"
)

func encodeOutput(t *testing.T, po *wire.ParserOutput) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, wire.Encode(&buf, po))
	return &buf
}

func TestRunLinearChainEmitsLeafFirstWithDeps(t *testing.T) {
	po := &wire.ParserOutput{
		ClassToClass: map[string][]string{
			"com.A": {"com.B"},
			"com.B": {"com.C"},
		},
		ClassToFile: map[string]string{
			"com.A": "/ws/java/com/A.java",
			"com.B": "/ws/java/com/B.java",
			"com.C": "/ws/java/com/C.java",
		},
		FileToRuleHint: map[string]wire.RuleKindHint{
			"/ws/java/com/A.java": {Kind: "java_library"},
			"/ws/java/com/B.java": {Kind: "java_library"},
			"/ws/java/com/C.java": {Kind: "java_library"},
		},
	}

	cfg := config.DefaultConfig()
	cfg.WorkspaceRoot = "/ws"
	require.NoError(t, cfg.Validate())

	lines, err := Run(context.Background(), cfg, encodeOutput(t, po), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"new java_library C|//java/com:__pkg__",
		"add srcs C.java|//java/com:C",
		"new java_library B|//java/com:__pkg__",
		"add srcs B.java|//java/com:B",
		"add deps //java/com:C|//java/com:B",
		"new java_library A|//java/com:__pkg__",
		"add srcs A.java|//java/com:A",
		"add deps //java/com:B|//java/com:A",
	}, lines)
}

func TestRunCycleCollapsesToOneRule(t *testing.T) {
	po := &wire.ParserOutput{
		ClassToClass: map[string][]string{
			"com.A": {"com.B"},
			"com.B": {"com.C"},
			"com.C": {"com.A"},
		},
		ClassToFile: map[string]string{
			"com.A": "/ws/java/com/A.java",
			"com.B": "/ws/java/com/B.java",
			"com.C": "/ws/java/com/C.java",
		},
		FileToRuleHint: map[string]wire.RuleKindHint{
			"/ws/java/com/A.java": {Kind: "java_library"},
			"/ws/java/com/B.java": {Kind: "java_library"},
			"/ws/java/com/C.java": {Kind: "java_library"},
		},
	}

	cfg := config.DefaultConfig()
	cfg.WorkspaceRoot = "/ws"
	require.NoError(t, cfg.Validate())

	lines, err := Run(context.Background(), cfg, encodeOutput(t, po), nil)
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "new java_library")
	assert.Equal(t, "add srcs A.java B.java C.java|"+labelFromNew(lines[0]), lines[1])
}

// labelFromNew derives the target label from a
// `new <kind> <target>|//pkg:__pkg__` line: the package label with
// __pkg__ replaced by the target name.
func labelFromNew(line string) string {
	i := strings.LastIndexByte(line, '|')
	if i < 0 {
		return ""
	}
	fields := strings.Fields(line[:i])
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimSuffix(line[i+1:], "__pkg__") + fields[len(fields)-1]
}

func TestRunRuleKindMergeConflictFails(t *testing.T) {
	po := &wire.ParserOutput{
		ClassToClass: map[string][]string{
			"com.A": {"com.B"},
		},
		ClassToFile: map[string]string{
			"com.A": "/ws/java/com/A.java",
			"com.B": "/ws/java/com/B.java",
		},
		FileToRuleHint: map[string]wire.RuleKindHint{
			"/ws/java/com/A.java": {Kind: "java_library"},
			"/ws/java/com/B.java": {Kind: "py_library"},
		},
	}

	cfg := config.DefaultConfig()
	cfg.WorkspaceRoot = "/ws"
	require.NoError(t, cfg.Validate())

	// A and B are two separate components here (no cycle), so the
	// conflicting hints land on different rules and this should succeed;
	// force them into the same component by making it a cycle instead.
	po.ClassToClass["com.B"] = []string{"com.A"}

	_, err := Run(context.Background(), cfg, encodeOutput(t, po), nil)
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageBuilding, stageErr.Stage)
}

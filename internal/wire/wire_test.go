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

package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := &ParserOutput{
		ClassToClass: map[string][]string{
			"com.A": {"com.B", "com.C"},
		},
		FileToRuleHint: map[string]RuleKindHint{
			"A.java": {Kind: "java_library", ExtraCommands: []string{"add tags manual"}},
		},
		ClassToFile: map[string]string{
			"com.A": "A.java",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, in))

	out, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, in.ClassToClass, out.ClassToClass)
	assert.Equal(t, in.FileToRuleHint, out.FileToRuleHint)
	assert.Equal(t, in.ClassToFile, out.ClassToFile)
}

func TestDecodeNormalizesNilMaps(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, &ParserOutput{}))

	out, err := Decode(&buf)
	require.NoError(t, err)
	assert.NotNil(t, out.ClassToClass)
	assert.NotNil(t, out.FileToRuleHint)
	assert.NotNil(t, out.ClassToFile)
}

func TestDecodeEmptyReaderErrors(t *testing.T) {
	_, err := Decode(&bytes.Buffer{})
	assert.Error(t, err)
}

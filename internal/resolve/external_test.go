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

package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulegraph/rulegraph/internal/errs"
)

// echoLabelsScript reads each class name on stdin and writes it back
// followed by a synthesized external label, emulating a resolver plugin
// without depending on a real one being installed.
const echoLabelsScript = `while read -r class; do echo "$class"; echo "//external:$class"; done`

func TestExternalResolverParsesPairedOutput(t *testing.T) {
	r := &ExternalResolver{Command: "/bin/sh", Args: []string{"-c", echoLabelsScript}}

	out, err := r.Resolve(context.Background(), []string{"com.A", "com.B"})
	require.NoError(t, err)
	assert.Equal(t, Resolution{Label: "//external:com.A"}, out["com.A"])
	assert.Equal(t, Resolution{Label: "//external:com.B"}, out["com.B"])
	assert.Equal(t, "external:/bin/sh", r.Name())
}

func TestExternalResolverEmptyInputSkipsProcess(t *testing.T) {
	r := &ExternalResolver{Command: "/bin/false"}

	out, err := r.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestExternalResolverNonZeroExitWraps(t *testing.T) {
	r := &ExternalResolver{Command: "/bin/sh", Args: []string{"-c", "echo boom >&2; exit 1"}}

	_, err := r.Resolve(context.Background(), []string{"com.A"})
	assert.ErrorIs(t, err, errs.ErrExternalResolver)
}

func TestExternalResolverOddTrailingClassErrors(t *testing.T) {
	r := &ExternalResolver{Command: "/bin/sh", Args: []string{"-c", "echo com.A"}}

	_, err := r.Resolve(context.Background(), []string{"com.A"})
	assert.ErrorIs(t, err, errs.ErrExternalResolver)
}

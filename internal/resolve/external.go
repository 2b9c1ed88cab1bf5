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
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rulegraph/rulegraph/internal/classgraph"
	"github.com/rulegraph/rulegraph/internal/errs"
)

// ExternalResolver resolves classes by delegating to a child process: one
// unresolved class name per line on the child's stdin, pairs of lines
// (class, label) read back from its stdout until EOF. The whole exchange
// is synchronous and scope-bound to a single Resolve call — the process
// handle and its pipes never outlive it, on any exit path.
type ExternalResolver struct {
	Command string
	Args    []string
}

func (r *ExternalResolver) Name() string {
	return "external:" + r.Command
}

// Resolve implements Resolver.
func (r *ExternalResolver) Resolve(ctx context.Context, classes []classgraph.ID) (map[classgraph.ID]Resolution, error) {
	if len(classes) == 0 {
		return map[classgraph.ID]Resolution{}, nil
	}

	var stdin bytes.Buffer
	for _, c := range classes {
		stdin.WriteString(c)
		stdin.WriteByte('\n')
	}

	cmd := exec.CommandContext(ctx, r.Command, r.Args...)
	cmd.Stdin = &stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("external resolver %s: %w: %s: %w", r.Command, err, stderr.String(), errs.ErrExternalResolver)
	}

	out := make(map[classgraph.ID]Resolution)
	scanner := bufio.NewScanner(&stdout)
	for {
		class, ok := nextLine(scanner)
		if !ok {
			break
		}
		label, ok := nextLine(scanner)
		if !ok {
			return nil, fmt.Errorf("external resolver %s: output closed mid-pair after class %q: %w", r.Command, class, errs.ErrExternalResolver)
		}
		out[class] = Resolution{Label: label}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("external resolver %s: reading output: %w", r.Command, err)
	}

	return out, nil
}

func nextLine(scanner *bufio.Scanner) (string, bool) {
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		return line, true
	}
	return "", false
}

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
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rulegraph/rulegraph/internal/classgraph"
	"github.com/rulegraph/rulegraph/internal/errs"
)

// UserMappingResolver parses a line-based text map of `classid,label`
// pairs supplied by the project owner for classes the parser and
// SourceFileResolver can't place (generated code, classes in another
// workspace, etc).
type UserMappingResolver struct {
	Path string

	mapping map[classgraph.ID]string
	loaded  bool
}

func (r *UserMappingResolver) Name() string { return "user-mapping" }

// Load parses the mapping file once, caching the result. Resolve calls it
// on first use; it is exported so a caller can load and check the file
// before that.
func (r *UserMappingResolver) Load() error {
	if r.loaded {
		return nil
	}
	f, err := os.Open(r.Path)
	if err != nil {
		return fmt.Errorf("user mapping: opening %s: %w", r.Path, err)
	}
	defer f.Close()

	mapping, err := parseUserMapping(f)
	if err != nil {
		return err
	}
	r.mapping = mapping
	r.loaded = true
	return nil
}

func parseUserMapping(r io.Reader) (map[classgraph.ID]string, error) {
	mapping := make(map[classgraph.ID]string)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("user mapping: line %d %q: expected \"classid,label\": %w", lineNo, line, errs.ErrUserMapping)
		}
		class := strings.TrimSpace(parts[0])
		label := strings.TrimSpace(parts[1])
		if class == "" || label == "" {
			return nil, fmt.Errorf("user mapping: line %d %q: empty class or label: %w", lineNo, line, errs.ErrUserMapping)
		}
		if classgraph.HasInnerClass(class) {
			return nil, fmt.Errorf("user mapping: line %d: inner-class id %q not allowed: %w", lineNo, class, errs.ErrUserMapping)
		}
		if existing, ok := mapping[class]; ok && existing != label {
			return nil, fmt.Errorf("user mapping: duplicate key %q with distinct values %q and %q: %w", class, existing, label, errs.ErrUserMapping)
		}
		mapping[class] = label
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("user mapping: reading: %w", err)
	}
	return mapping, nil
}

// Resolve implements Resolver.
func (r *UserMappingResolver) Resolve(_ context.Context, classes []classgraph.ID) (map[classgraph.ID]Resolution, error) {
	if err := r.Load(); err != nil {
		return nil, err
	}
	out := make(map[classgraph.ID]Resolution)
	for _, c := range classes {
		if label, ok := r.mapping[c]; ok {
			out[c] = Resolution{Label: label}
		}
	}
	return out, nil
}

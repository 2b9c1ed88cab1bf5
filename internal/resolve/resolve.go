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

// Package resolve implements the ClassResolver interface and its four
// concrete variants: a zero-cost wrapper around the parser-supplied
// class->file map, a filesystem-probing resolver for project classes the
// parser didn't already map, a user-supplied text mapping, and a
// child-process resolver for anything else.
package resolve

import (
	"context"

	"github.com/rulegraph/rulegraph/internal/classgraph"
)

// Resolution is what a resolver contributes for one class: either a
// project-internal source file (which feeds ClassToSourceMapper) or the
// label of an already-existing build rule outside the project.
type Resolution struct {
	File  string
	Label string
}

// IsFile reports whether this resolution points at a project source file.
func (r Resolution) IsFile() bool { return r.File != "" }

// Resolver maps class identifiers to resolutions, silently omitting any
// class it cannot resolve.
type Resolver interface {
	// Name identifies the resolver in diagnostics and conflict errors.
	Name() string
	// Resolve attempts to resolve every class in classes, returning a
	// map containing only the ones it could.
	Resolve(ctx context.Context, classes []classgraph.ID) (map[classgraph.ID]Resolution, error)
}

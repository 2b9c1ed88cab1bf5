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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rulegraph/rulegraph/internal/classgraph"
	"github.com/rulegraph/rulegraph/internal/errs"
	"github.com/rulegraph/rulegraph/pathtools"
)

// SourceFileResolver resolves a class id to a project source file by
// probing content roots with the classic `a.b.C` -> `root/a/b/C.<ext>`
// layout. It is always a fallback: the pipeline only hands it classes
// that MapResolver left unresolved.
type SourceFileResolver struct {
	ContentRoots []string
	SourceExt    string // e.g. ".java"; defaults to ".java" if empty
	// Threshold is the maximum fraction of classes handed to this
	// resolver, in a single call, that may fail to resolve before it
	// reports coverage failure. Defaults to 0.70 if zero.
	Threshold float64

	// FS is overridable in tests with pathtools.MockFs to avoid touching
	// the real filesystem. Defaults to pathtools.OsFs.
	FS pathtools.FileSystem
}

func (r *SourceFileResolver) Name() string { return "source-file" }

func (r *SourceFileResolver) ext() string {
	if r.SourceExt == "" {
		return ".java"
	}
	return r.SourceExt
}

func (r *SourceFileResolver) threshold() float64 {
	if r.Threshold == 0 {
		return 0.70
	}
	return r.Threshold
}

func (r *SourceFileResolver) fs() pathtools.FileSystem {
	if r.FS != nil {
		return r.FS
	}
	return pathtools.OsFs
}

// Resolve implements Resolver. It fails fast with an InputInvariant-class
// error if any class id still contains `$` (inner classes must already
// be collapsed before resolution) and with ResolveCoverageBelowThreshold
// if too many of the classes it was asked to resolve go unresolved.
func (r *SourceFileResolver) Resolve(_ context.Context, classes []classgraph.ID) (map[classgraph.ID]Resolution, error) {
	out := make(map[classgraph.ID]Resolution)
	fs := r.fs()

	var unresolved int
	for _, c := range classes {
		if classgraph.HasInnerClass(c) {
			return nil, fmt.Errorf("source-file resolver: inner-class id %q: %w", c, errs.ErrInputInvariant)
		}
		path, found := r.probe(c, fs)
		if found {
			out[c] = Resolution{File: path}
		} else {
			unresolved++
		}
	}

	if len(classes) > 0 {
		failRate := float64(unresolved) / float64(len(classes))
		if failRate > r.threshold() {
			return nil, fmt.Errorf(
				"source-file resolver: %d/%d classes unresolved (%.0f%% > %.0f%% threshold); "+
					"verify include-pattern and content-roots: %w",
				unresolved, len(classes), failRate*100, r.threshold()*100, errs.ErrResolveCoverageBelowThreshold)
		}
	}

	return out, nil
}

func (r *SourceFileResolver) probe(class classgraph.ID, fs pathtools.FileSystem) (string, bool) {
	rel := strings.ReplaceAll(class, ".", string(filepath.Separator)) + r.ext()
	for _, root := range r.ContentRoots {
		candidate := filepath.Join(root, rel)
		if exists, isDir, err := fs.Exists(candidate); err == nil && exists && !isDir {
			return candidate, true
		}
	}
	return "", false
}

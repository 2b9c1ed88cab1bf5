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

// Package errs holds the sentinel errors for the pipeline's error
// taxonomy, shared by every stage so that callers can test for a
// specific failure with errors.Is regardless of which package raised it.
package errs

import "errors"

var (
	ErrConfig                        = errors.New("configuration error")
	ErrInputInvariant                = errors.New("inner-class identifier encountered where none is expected")
	ErrResolveCoverageBelowThreshold = errors.New("resolve coverage below threshold")
	ErrResolveConflict               = errors.New("resolvers disagree on a class")
	ErrUserMapping                   = errors.New("malformed user mapping")
	ErrRuleKindPrefixMismatch        = errors.New("rule kind prefix mismatch")
	ErrRuleKindMergeAmbiguous        = errors.New("rule kind merge ambiguous")
	ErrExternalResolver              = errors.New("external resolver failed")
)

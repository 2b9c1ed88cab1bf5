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

// Package rulekind implements RuleKindMerger: it derives a single rule
// kind for a component from the multiset of per-file rule-kind hints the
// parser attached, and merges their extra-command lists.
package rulekind

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rulegraph/rulegraph/internal/errs"
	"github.com/rulegraph/rulegraph/internal/wire"
)

// Merged is the result of merging a component's hints.
type Merged struct {
	Kind          string
	ExtraCommands []string
}

// Merge derives the component's rule kind and deduplicated extra-command
// list from its per-file hints.
func Merge(hints []wire.RuleKindHint) (Merged, error) {
	kinds := map[string]bool{}
	extraSeen := map[string]bool{}
	var extras []string

	for _, h := range hints {
		kinds[h.Kind] = true
		for _, e := range h.ExtraCommands {
			if !extraSeen[e] {
				extraSeen[e] = true
				extras = append(extras, e)
			}
		}
	}
	sort.Strings(extras)

	kind, err := electKind(kinds)
	if err != nil {
		return Merged{}, err
	}
	return Merged{Kind: kind, ExtraCommands: extras}, nil
}

func electKind(kinds map[string]bool) (string, error) {
	if len(kinds) == 0 {
		return "", fmt.Errorf("rule kind merge: no hints: %w", errs.ErrRuleKindMergeAmbiguous)
	}
	if len(kinds) == 1 {
		for k := range kinds {
			return k, nil
		}
	}

	var prefix string
	suffixes := map[string]bool{}
	first := true
	var sortedKinds []string
	for k := range kinds {
		sortedKinds = append(sortedKinds, k)
	}
	sort.Strings(sortedKinds)

	for _, k := range sortedKinds {
		p, s, ok := splitKind(k)
		if !ok {
			return "", fmt.Errorf("rule kind merge: %q has no prefix separator: %w", k, errs.ErrRuleKindPrefixMismatch)
		}
		if first {
			prefix = p
			first = false
		} else if p != prefix {
			return "", fmt.Errorf("rule kind merge: prefixes %q and %q disagree: %w", prefix, p, errs.ErrRuleKindPrefixMismatch)
		}
		suffixes[s] = true
	}

	switch {
	case setEquals(suffixes, "library", "test"):
		return prefix + "_test", nil
	case setEquals(suffixes, "library", "binary"):
		return prefix + "_binary", nil
	case suffixes["image"] && isSubsetOf(suffixes, "library", "binary", "image"):
		return prefix + "_image", nil
	default:
		return "", fmt.Errorf("rule kind merge: ambiguous suffix set %v for prefix %q: %w", sortedSuffixes(suffixes), prefix, errs.ErrRuleKindMergeAmbiguous)
	}
}

func splitKind(kind string) (prefix, suffix string, ok bool) {
	i := strings.IndexByte(kind, '_')
	if i < 0 {
		return "", "", false
	}
	return kind[:i], kind[i+1:], true
}

func setEquals(set map[string]bool, members ...string) bool {
	if len(set) != len(members) {
		return false
	}
	for _, m := range members {
		if !set[m] {
			return false
		}
	}
	return true
}

func isSubsetOf(set map[string]bool, allowed ...string) bool {
	allow := map[string]bool{}
	for _, a := range allowed {
		allow[a] = true
	}
	for s := range set {
		if !allow[s] {
			return false
		}
	}
	return true
}

func sortedSuffixes(set map[string]bool) []string {
	var out []string
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

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

// Package pipeline implements the Pipeline orchestrator: it drives the
// Loading -> Preprocessing -> Resolving -> Mapping -> SCC -> Planning ->
// Building -> Emitting -> Done state machine, wiring every other
// internal package together and never moving backward between stages.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/rulegraph/rulegraph/internal/buildrule"
	"github.com/rulegraph/rulegraph/internal/classgraph"
	"github.com/rulegraph/rulegraph/internal/config"
	"github.com/rulegraph/rulegraph/internal/emit"
	"github.com/rulegraph/rulegraph/internal/errs"
	"github.com/rulegraph/rulegraph/internal/filegraph"
	"github.com/rulegraph/rulegraph/internal/layout"
	"github.com/rulegraph/rulegraph/internal/resolve"
	"github.com/rulegraph/rulegraph/internal/rulekind"
	"github.com/rulegraph/rulegraph/internal/scc"
	"github.com/rulegraph/rulegraph/internal/wire"
)

// Run decodes a ParserOutput from r, drives it through every stage, and
// returns the final command stream. log receives startup/summary lines
// and unresolved-class warnings; pass nil to discard them.
func Run(ctx context.Context, cfg *config.Config, r io.Reader, log *slog.Logger) ([]string, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	po, err := wire.Decode(r)
	if err != nil {
		return nil, &StageError{Stage: StageLoading, Err: err}
	}

	rawGraph, err := classgraph.FromAdjacency(po.ClassToClass)
	if err != nil {
		return nil, &StageError{Stage: StagePreprocessing, Err: err}
	}
	cg := classgraph.Preprocess(rawGraph, cfg.Include(), cfg.Exclude())
	log.Info("preprocessed class graph", "classes", len(cg.Nodes()))

	cf, elabel, err := resolveClasses(ctx, cfg, po, cg, log)
	if err != nil {
		return nil, &StageError{Stage: StageResolving, Err: err}
	}

	fg, err := filegraph.Map(cg, cf)
	if err != nil {
		return nil, &StageError{Stage: StageMapping, Err: err}
	}
	log.Info("mapped file graph", "files", fg.NodeCount(), "edges", fg.EdgeCount())

	result := scc.Compute(fg)
	log.Info("computed components", "count", len(result.Components))

	pkgOf := layout.Plan(result.Components, filepath.Dir)

	fileToClasses := invertResolution(cf)
	rules, err := buildRules(cfg, po, cg, result, pkgOf, fileToClasses, elabel)
	if err != nil {
		return nil, &StageError{Stage: StageBuilding, Err: err}
	}

	lines, err := emit.Stream(rules, result.DAG, func(pkgDir string) string {
		lbl, _ := buildrule.Label(cfg.WorkspaceRoot, pkgDir, "__pkg__")
		return lbl
	})
	if err != nil {
		return nil, &StageError{Stage: StageEmitting, Err: err}
	}
	log.Info("emitted command stream", "lines", len(lines))

	return lines, nil
}

// resolveClasses runs the parser-supplied map as the authoritative,
// zero-cost resolver, then falls back to the configured resolver order
// for whatever it leaves unresolved.
func resolveClasses(ctx context.Context, cfg *config.Config, po *wire.ParserOutput, cg *classgraph.Graph, log *slog.Logger) (map[classgraph.ID]string, map[classgraph.ID]string, error) {
	classes := cg.Nodes()

	normalized := make(map[classgraph.ID]string, len(po.ClassToFile))
	keys := make([]string, 0, len(po.ClassToFile))
	for k := range po.ClassToFile {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		normalized[classgraph.TopLevel(k)] = po.ClassToFile[k]
	}

	cf := make(map[classgraph.ID]string)
	elabel := make(map[classgraph.ID]string)

	mapRes, err := (&resolve.MapResolver{ClassToFile: normalized}).Resolve(ctx, classes)
	if err != nil {
		return nil, nil, err
	}
	for c, res := range mapRes {
		cf[c] = res.File
	}

	unresolved := remaining(classes, cf, elabel)
	resolvers := buildFallbackResolvers(cfg)
	for _, r := range resolvers {
		if len(unresolved) == 0 {
			break
		}
		res, err := r.Resolve(ctx, unresolved)
		if err != nil {
			return nil, nil, fmt.Errorf("%s resolver: %w", r.Name(), err)
		}
		for c, resolution := range res {
			if err := merge(cf, elabel, c, resolution, r.Name()); err != nil {
				return nil, nil, err
			}
		}
		unresolved = remaining(classes, cf, elabel)
	}

	for _, c := range unresolved {
		log.Warn("class left unresolved after every resolver", "class", c)
	}

	return cf, elabel, nil
}

func merge(cf, elabel map[classgraph.ID]string, c classgraph.ID, res resolve.Resolution, resolverName string) error {
	if res.IsFile() {
		if existing, ok := cf[c]; ok && existing != res.File {
			return fmt.Errorf("class %q: %s disagrees with an earlier resolution (%q vs %q): %w", c, resolverName, existing, res.File, errs.ErrResolveConflict)
		}
		if existing, ok := elabel[c]; ok {
			return fmt.Errorf("class %q: %s resolved to file %q but another resolver already resolved it to label %q: %w", c, resolverName, res.File, existing, errs.ErrResolveConflict)
		}
		cf[c] = res.File
		return nil
	}
	if existing, ok := elabel[c]; ok && existing != res.Label {
		return fmt.Errorf("class %q: %s disagrees with an earlier resolution (%q vs %q): %w", c, resolverName, existing, res.Label, errs.ErrResolveConflict)
	}
	if existing, ok := cf[c]; ok {
		return fmt.Errorf("class %q: %s resolved to label %q but another resolver already resolved it to file %q: %w", c, resolverName, res.Label, existing, errs.ErrResolveConflict)
	}
	elabel[c] = res.Label
	return nil
}

func remaining(classes []classgraph.ID, cf, elabel map[classgraph.ID]string) []classgraph.ID {
	var out []classgraph.ID
	for _, c := range classes {
		if _, ok := cf[c]; ok {
			continue
		}
		if _, ok := elabel[c]; ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

func buildFallbackResolvers(cfg *config.Config) []resolve.Resolver {
	byName := map[string]resolve.Resolver{}
	if cfg.UserMappingPath != "" {
		byName["user-mapping"] = &resolve.UserMappingResolver{Path: cfg.UserMappingPath}
	}
	if len(cfg.ContentRoots) > 0 {
		byName["source-file"] = &resolve.SourceFileResolver{
			ContentRoots: cfg.ContentRoots,
			Threshold:    cfg.UnresolvedThreshold,
		}
	}

	var resolvers []resolve.Resolver
	for _, name := range cfg.ResolverOrder {
		if name == "external" {
			for _, exe := range cfg.ExternalResolvers {
				resolvers = append(resolvers, &resolve.ExternalResolver{Command: exe})
			}
			continue
		}
		if r, ok := byName[name]; ok {
			resolvers = append(resolvers, r)
		}
	}
	return resolvers
}

// invertResolution builds a file->classes reverse index from the
// resolved class->file map, sorted for deterministic downstream
// iteration.
func invertResolution(cf map[classgraph.ID]string) map[string][]classgraph.ID {
	out := make(map[string][]classgraph.ID)
	classes := make([]classgraph.ID, 0, len(cf))
	for c := range cf {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	for _, c := range classes {
		out[cf[c]] = append(out[cf[c]], c)
	}
	return out
}

func buildRules(cfg *config.Config, po *wire.ParserOutput, cg *classgraph.Graph, result *scc.Result[string], pkgOf map[string]layout.PackageDir, fileToClasses map[string][]classgraph.ID, elabel map[classgraph.ID]string) ([]*buildrule.Rule, error) {
	rules := make([]*buildrule.Rule, len(result.Components))
	for i, comp := range result.Components {
		files := comp.Nodes
		pkgDir, ok := pkgOf[filepath.Dir(files[0])]
		if !ok {
			pkgDir = filepath.Dir(files[0])
		}

		target, err := buildrule.TargetName(pkgDir, files)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		label, err := buildrule.Label(cfg.WorkspaceRoot, pkgDir, target)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}

		var hints []wire.RuleKindHint
		for _, f := range files {
			if h, ok := po.FileToRuleHint[f]; ok {
				hints = append(hints, h)
			}
		}
		merged, err := rulekind.Merge(hints)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}

		extDeps := externalDeps(files, cg, fileToClasses, elabel)

		rules[i] = &buildrule.Rule{
			Kind:          buildrule.KindProject,
			Files:         files,
			PackageDir:    pkgDir,
			RuleKind:      merged.Kind,
			ExtraCommands: merged.ExtraCommands,
			ExternalDeps:  extDeps,
			Target:        target,
			Label:         label,
		}
	}
	return rules, nil
}

// externalDeps collects, for every class mapped to one of files, the
// labels of any dependency class that resolved outside the project
// rather than to a project source file. These never appear as file
// graph edges, since the file graph only ever links project-internal
// files, so they must be folded back in at the rule layer.
func externalDeps(files []string, cg *classgraph.Graph, fileToClasses map[string][]classgraph.ID, elabel map[classgraph.ID]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range files {
		for _, c := range fileToClasses[f] {
			for _, dep := range cg.Out(c) {
				if lbl, ok := elabel[dep]; ok && !seen[lbl] {
					seen[lbl] = true
					out = append(out, lbl)
				}
			}
		}
	}
	sort.Strings(out)
	return out
}

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

// Package main provides the rulegraph CLI.
package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/rulegraph/rulegraph/internal/config"
	"github.com/rulegraph/rulegraph/internal/pipeline"
)

// Version is the current rulegraph CLI version.
var Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:     "rulegraph",
	Short:   "Rulegraph generates build-rule edit commands from a parser's class graph",
	Long:    `Rulegraph turns a parser-supplied class dependency graph into a stream of edit-tool commands that create and wire up build rules for strongly-connected groups of source files.`,
	Version: Version,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the rulegraph version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), Version)
		return nil
	},
}

var (
	flagInclude             string
	flagExclude             string
	flagContentRoots        []string
	flagUserMapping         string
	flagExternalResolvers   []string
	flagWorkspaceRoot       string
	flagDryRun              bool
	flagUnresolvedThreshold float64
	flagConfigPath          string
	flagEditTool            string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Read a ParserOutput from stdin and emit build-rule commands",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&flagInclude, "include", "", "include pattern (regex); overrides config")
	generateCmd.Flags().StringVar(&flagExclude, "exclude", "", "exclude pattern (regex); overrides config")
	generateCmd.Flags().StringArrayVar(&flagContentRoots, "content-root", nil, "content root searched by the source-file resolver (repeatable)")
	generateCmd.Flags().StringVar(&flagUserMapping, "user-mapping", "", "path to a user-supplied class,label mapping file")
	generateCmd.Flags().StringArrayVar(&flagExternalResolvers, "external-resolver", nil, "external resolver executable (repeatable)")
	generateCmd.Flags().StringVar(&flagWorkspaceRoot, "workspace-root", "", "base directory for label computation")
	generateCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "print the command stream instead of piping it to the edit tool")
	generateCmd.Flags().Float64Var(&flagUnresolvedThreshold, "unresolved-threshold", 0, "fraction of unresolved classes above which resolution fails; 0 keeps the config/default value")
	generateCmd.Flags().StringVar(&flagConfigPath, "config", "", "path to a YAML config file")
	generateCmd.Flags().StringVar(&flagEditTool, "edit-tool", "", "edit-tool executable to pipe the command stream into when not --dry-run")

	rootCmd.AddCommand(versionCmd, generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	lines, err := pipeline.Run(cmd.Context(), cfg, cmd.InOrStdin(), logger)
	if err != nil {
		return err
	}

	if cfg.DryRun || flagEditTool == "" {
		for _, l := range lines {
			fmt.Fprintln(cmd.OutOrStdout(), l)
		}
		return nil
	}
	return pipeToEditTool(cmd.Context(), flagEditTool, lines)
}

// applyFlagOverrides merges explicitly-set flags over whatever Load
// produced, so an omitted flag never clobbers a config-file value.
func applyFlagOverrides(cfg *config.Config) {
	if flagInclude != "" {
		cfg.IncludePattern = flagInclude
	}
	if flagExclude != "" {
		cfg.ExcludePattern = flagExclude
	}
	if len(flagContentRoots) > 0 {
		cfg.ContentRoots = flagContentRoots
	}
	if flagUserMapping != "" {
		cfg.UserMappingPath = flagUserMapping
	}
	if len(flagExternalResolvers) > 0 {
		cfg.ExternalResolvers = flagExternalResolvers
	}
	if flagWorkspaceRoot != "" {
		cfg.WorkspaceRoot = flagWorkspaceRoot
	}
	if flagDryRun {
		cfg.DryRun = true
	}
	if flagUnresolvedThreshold > 0 {
		cfg.UnresolvedThreshold = flagUnresolvedThreshold
	}
}

// pipeToEditTool runs tool once with the full command stream on its
// stdin, never split across multiple invocations.
func pipeToEditTool(ctx context.Context, tool string, lines []string) error {
	var stdin bytes.Buffer
	for _, l := range lines {
		stdin.WriteString(l)
		stdin.WriteByte('\n')
	}

	cmd := exec.CommandContext(ctx, tool)
	cmd.Stdin = &stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("edit tool %s: %w", tool, err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(pipeline.ExitCode(err))
	}
}

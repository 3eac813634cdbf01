// Copyright 2025 Reposcope Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/reposcope/reposcope/internal/flow"
	"github.com/reposcope/reposcope/internal/logging"
	"github.com/reposcope/reposcope/internal/scenario"
	"github.com/reposcope/reposcope/internal/snapshot"
	"github.com/reposcope/reposcope/internal/stages"
	"github.com/reposcope/reposcope/internal/watch"
	"github.com/reposcope/reposcope/llm"
)

func newSnapshotCommand() *cobra.Command {
	var (
		configPath string
		patterns   []string
		exclude    []string
		modelName  string
		modelType  string
		apiKey     string
		watchMode  bool
	)

	cmd := &cobra.Command{
		Use:   "snapshot [path]",
		Short: "Analyze a repository and save a snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			root, err := filepath.Abs(root)
			if err != nil {
				return errors.Wrap(err, "resolving path")
			}

			cfg := scenario.Default()
			if configPath != "" {
				cfg, err = scenario.Load(configPath)
				if err != nil {
					return err
				}
			}
			if len(patterns) > 0 {
				cfg.Patterns = patterns
			}
			if len(exclude) > 0 {
				cfg.Exclude = exclude
			}
			if modelName != "" {
				cfg.Model.ModelName = modelName
			}
			if modelType != "" {
				cfg.Model.APIType = llm.NewModelType(modelType)
			}
			if apiKey != "" {
				cfg.Model.APIKey = apiKey
			}

			invoker, err := buildInvoker(cmd, cfg)
			if err != nil {
				return err
			}

			run := func() error {
				records, c, err := scenario.Run(cmd.Context(), root, cfg, invoker)
				if err != nil {
					return err
				}
				printRun(cmd, records, c)
				return nil
			}

			if err := run(); err != nil {
				return err
			}
			if !watchMode {
				return nil
			}

			w, err := watch.New(root, 0)
			if err != nil {
				return err
			}
			defer w.Close()
			cmd.Println("watching for changes, Ctrl-C to stop")
			return w.Run(cmd.Context(), func() {
				if err := run(); err != nil {
					logging.New("cli").Error("snapshot run failed", "err", err)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	cmd.Flags().StringSliceVar(&patterns, "patterns", nil, "include glob patterns")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "exclude glob patterns")
	cmd.Flags().StringVar(&modelName, "model", "", "model name for the analysis step")
	cmd.Flags().StringVar(&modelType, "model-type", "", "model provider: openai, claude, ollama, ark, dashscope, deepseek")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for the model provider")
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "rerun on file changes")
	return cmd
}

// buildInvoker picks the model backend. Without an API type or key the
// analysis step runs against a mock so the pipeline stays usable
// offline.
func buildInvoker(cmd *cobra.Command, cfg scenario.Config) (llm.Invoker, error) {
	if cfg.Model.APIType == llm.ModelTypeUnknown || (cfg.Model.APIKey == "" && cfg.Model.APIType != llm.ModelTypeOllama) {
		logging.New("cli").Info("no model configured, using mock analysis")
		return llm.Mock{}, nil
	}
	m, err := llm.NewChatModel(cmd.Context(), cfg.Model)
	if err != nil {
		return nil, err
	}
	return llm.NewClient(m, cfg.Model), nil
}

func printRun(cmd *cobra.Command, records []flow.Record, c *flow.Context) {
	for _, r := range records {
		cmd.Printf("%-14s %-22s %s\n", r.Stage, r.Signal, r.Elapsed.Round(time.Millisecond))
	}
	cmd.Printf("\nfiles: %d  parsed: %d  violations: %d\n",
		c.GetInt(stages.KeyFileCount),
		c.GetInt(stages.KeyParsedFileCount),
		c.GetInt(stages.KeyViolationCount))
	if msg := c.GetString(stages.KeyLLMError); msg != "" {
		cmd.Printf("analysis failed: %s\n", msg)
	}
	if path := c.GetString(stages.KeySnapshotPath); path != "" {
		cmd.Printf("snapshot: %s\n", path)
	}
}

func newSnapshotListCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "snapshot-list [path]",
		Short: "List saved snapshots, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := snapshot.NewStore(snapshotDir(args, dir))
			infos, err := store.List()
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				cmd.Println("no snapshots found")
				return nil
			}
			for _, info := range infos {
				cmd.Printf("%s  %d files\n", info.ID, info.FileCount)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "snapshot directory (default <path>/.ai-snapshots)")
	return cmd
}

func newSnapshotRestoreCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "snapshot-restore <id> [path]",
		Short: "Restore the files of a snapshot into a directory",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			store := snapshot.NewStore(snapshotDir(args[1:], dir))

			root := "."
			if len(args) == 2 {
				root = args[1]
			}

			report, err := store.Restore(id, root)
			if errors.Is(err, snapshot.ErrNotFound) {
				return fmt.Errorf("snapshot %s not found", id)
			}
			if err != nil {
				return err
			}

			cmd.Printf("restored %d files: %d verified, %d mismatched, %d failed\n",
				report.Restored, report.Matched, len(report.Mismatched), len(report.Failed))
			for _, path := range report.Mismatched {
				cmd.Printf("  hash mismatch: %s\n", path)
			}
			for _, path := range report.Failed {
				cmd.Printf("  write failed:  %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "snapshot directory (default <path>/.ai-snapshots)")
	return cmd
}

func snapshotDir(args []string, dir string) string {
	if dir != "" {
		return dir
	}
	root := "."
	if len(args) >= 1 && args[0] != "" {
		root = args[0]
	}
	return filepath.Join(root, snapshot.DefaultDir)
}

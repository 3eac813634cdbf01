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

// Package cli wires the commands of the reposcope binary.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/reposcope/reposcope/internal/logging"
)

// NewRootCommand builds the reposcope command tree.
func NewRootCommand(version string) *cobra.Command {
	var (
		logLevel  string
		logFormat string
	)

	root := &cobra.Command{
		Use:   "reposcope",
		Short: "Repository analysis workflows with snapshot history",
		Long: "reposcope collects the files of a repository, parses them, checks\n" +
			"naming conventions, asks a language model for an analysis, and saves\n" +
			"a restorable snapshot of the files it looked at.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(logging.ParseLevel(logLevel), logFormat)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(
		newSnapshotCommand(),
		newSnapshotListCommand(),
		newSnapshotRestoreCommand(),
		newVersionCommand(version),
	)
	return root
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the reposcope version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("reposcope " + version)
		},
	}
}

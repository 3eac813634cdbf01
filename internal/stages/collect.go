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

// Package stages holds the pipeline stages assembled by the scenario
// layer. Each stage reads its inputs during Prepare, does its work in
// Execute without touching the shared context, and publishes results in
// Finalize.
package stages

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/reposcope/reposcope/internal/flow"
	"github.com/reposcope/reposcope/internal/logging"
	"github.com/reposcope/reposcope/internal/pattern"
)

// Context keys shared between stages.
const (
	KeyProjectRoot     = "project_root"
	KeyTimestamp       = "timestamp"
	KeyFiles           = "files"
	KeyFileCount       = "file_count"
	KeyParseResults    = "parse_results"
	KeyParsedFileCount = "parsed_file_count"
	KeyViolations      = "violations"
	KeyViolationCount  = "violation_count"
	KeyLLMResponse     = "llm_response"
	KeyLLMError        = "llm_error"
	KeySnapshotID      = "snapshot_id"
	KeySnapshotPath    = "snapshot_path"
)

// Signals emitted by the stages in this package.
const (
	SignalFilesRetrieved     = flow.Signal("files_retrieved")
	SignalFilesParsed        = flow.Signal("files_parsed")
	SignalConventionsChecked = flow.Signal("conventions_checked")
	SignalLLMComplete        = flow.Signal("llm_complete")
	SignalLLMFailed          = flow.Signal("llm_failed")
	SignalSnapshotSaved      = flow.Signal("snapshot_saved")
)

// CollectFiles walks the project root and collects the relative paths
// matching the include patterns, minus excludes. Params:
//
//	patterns   []string  include globs, default ["**/*"]
//	exclude    []string  exclude globs
//	extensions []string  keep only these extensions (with or without dot)
type CollectFiles struct{}

func (CollectFiles) Name() string { return "collect_files" }

type collectInput struct {
	root       string
	patterns   []string
	exclude    []string
	extensions []string
}

func (CollectFiles) Prepare(c *flow.Context, p flow.Params) (any, error) {
	root := c.GetString(KeyProjectRoot)
	if root == "" {
		return nil, errors.New("project_root not set")
	}
	in := collectInput{
		root:       root,
		patterns:   p.StringSlice("patterns"),
		exclude:    p.StringSlice("exclude"),
		extensions: normalizeExtensions(p.StringSlice("extensions")),
	}
	if len(in.patterns) == 0 {
		in.patterns = []string{"**/*"}
	}
	return in, nil
}

func (CollectFiles) Execute(ctx context.Context, local any, p flow.Params) (any, error) {
	in := local.(collectInput)
	logger := logging.New("collect")

	if _, err := os.Stat(in.root); err != nil {
		return nil, errors.Wrapf(err, "project root %s", in.root)
	}

	seen := make(map[string]struct{})
	var files []string
	err := filepath.WalkDir(in.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				logger.Warn("skipping unreadable directory", "path", path, "err", err)
				return fs.SkipDir
			}
			logger.Warn("skipping unreadable entry", "path", path, "err", err)
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == ".ai-snapshots" {
				return fs.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(in.root, path)
		if err != nil {
			return nil
		}
		rel = pattern.Normalize(rel)
		if !pattern.MatchAny(in.patterns, rel) {
			return nil
		}
		if pattern.MatchAny(in.exclude, rel) {
			return nil
		}
		if !matchesExtension(in.extensions, rel) {
			return nil
		}
		if _, dup := seen[rel]; dup {
			return nil
		}
		seen[rel] = struct{}{}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", in.root)
	}

	sort.Strings(files)
	logger.Info("collected files", "count", len(files), "root", in.root)
	return files, nil
}

func (CollectFiles) Finalize(c *flow.Context, local, out any, p flow.Params) flow.Signal {
	files := out.([]string)
	c.Set(KeyFiles, files)
	c.Set(KeyFileCount, len(files))
	return SignalFilesRetrieved
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

func matchesExtension(exts []string, rel string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(rel))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

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

package stages

import (
	"context"
	"path/filepath"

	"github.com/reposcope/reposcope/internal/flow"
	"github.com/reposcope/reposcope/internal/lang"
	"github.com/reposcope/reposcope/internal/logging"
)

// ParseSource parses the collected files into symbol trees. Every file
// yields a result; a file that cannot be parsed is recorded as a failed
// result and never aborts the run. Params:
//
//	language string  explicit language name, default auto-detect
type ParseSource struct {
	Registry *lang.Registry
}

func NewParseSource() *ParseSource {
	return &ParseSource{Registry: lang.DefaultRegistry()}
}

func (s *ParseSource) Name() string { return "parse_source" }

type parseInput struct {
	root     string
	files    []string
	language string
}

func (s *ParseSource) Prepare(c *flow.Context, p flow.Params) (any, error) {
	return parseInput{
		root:     c.GetString(KeyProjectRoot),
		files:    c.GetStringSlice(KeyFiles),
		language: p.String("language", lang.AutoLanguage),
	}, nil
}

func (s *ParseSource) Execute(ctx context.Context, local any, p flow.Params) (any, error) {
	in := local.(parseInput)

	abs := make([]string, len(in.files))
	for i, rel := range in.files {
		abs[i] = filepath.Join(in.root, rel)
	}
	results := s.Registry.ParseFiles(abs, in.language)
	// Results keep the relative paths the rest of the pipeline works with.
	for i := range results {
		results[i].Path = in.files[i]
	}

	parsed := 0
	for _, r := range results {
		if r.OK {
			parsed++
		}
	}
	logging.New("parse").Info("parsed files", "total", len(results), "succeeded", parsed)
	return results, nil
}

func (s *ParseSource) Finalize(c *flow.Context, local, out any, p flow.Params) flow.Signal {
	results := out.([]lang.ParseResult)
	parsed := 0
	for _, r := range results {
		if r.OK {
			parsed++
		}
	}
	c.Set(KeyParseResults, results)
	c.Set(KeyParsedFileCount, parsed)
	return SignalFilesParsed
}

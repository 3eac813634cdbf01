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

	"github.com/reposcope/reposcope/internal/convention"
	"github.com/reposcope/reposcope/internal/flow"
	"github.com/reposcope/reposcope/internal/lang"
	"github.com/reposcope/reposcope/internal/logging"
)

// CheckConventions matches parsed symbol names against naming rules.
// Params:
//
//	rules map[string]string  symbol kind to convention name,
//	                         e.g. {"class": "PascalCase"}
type CheckConventions struct{}

func (CheckConventions) Name() string { return "check_conventions" }

type conventionInput struct {
	results []lang.ParseResult
	rules   map[string]string
}

func (CheckConventions) Prepare(c *flow.Context, p flow.Params) (any, error) {
	var results []lang.ParseResult
	if v, ok := c.Get(KeyParseResults); ok {
		if rs, ok := v.([]lang.ParseResult); ok {
			results = rs
		}
	}
	return conventionInput{
		results: results,
		rules:   p.StringMap("rules"),
	}, nil
}

func (CheckConventions) Execute(ctx context.Context, local any, p flow.Params) (any, error) {
	in := local.(conventionInput)
	violations := convention.Check(in.results, in.rules)
	total := 0
	for _, fv := range violations {
		total += len(fv.Violations)
	}
	logging.New("conventions").Info("checked conventions",
		"files", len(in.results), "violations", total)
	return violations, nil
}

func (CheckConventions) Finalize(c *flow.Context, local, out any, p flow.Params) flow.Signal {
	violations := out.([]convention.FileViolations)
	total := 0
	for _, fv := range violations {
		total += len(fv.Violations)
	}
	c.Set(KeyViolations, violations)
	c.Set(KeyViolationCount, total)
	return SignalConventionsChecked
}

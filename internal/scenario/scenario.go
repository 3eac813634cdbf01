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

// Package scenario assembles the stages into runnable workflows.
package scenario

import (
	"context"
	"time"

	"github.com/reposcope/reposcope/internal/flow"
	"github.com/reposcope/reposcope/internal/stages"
	"github.com/reposcope/reposcope/llm"
)

// TimestampLayout names snapshots: sortable, filesystem-safe.
const TimestampLayout = "20060102_150405"

// LocalSnapshot builds the repository analysis workflow: collect files,
// parse them, check naming conventions, ask the model for an analysis,
// save a snapshot. The model stage reports failure through its signal,
// so a snapshot is written even when the model is unreachable.
func LocalSnapshot(cfg Config, invoker llm.Invoker) *flow.Flow {
	var temperature float64
	if cfg.Model.Temperature != nil {
		temperature = float64(*cfg.Model.Temperature)
	}
	return flow.New().
		Add(stages.CollectFiles{}, "collect", flow.Params{
			"patterns":   cfg.Patterns,
			"exclude":    cfg.Exclude,
			"extensions": cfg.Extensions,
		}).
		Add(stages.NewParseSource(), "parse", flow.Params{
			"language": cfg.Language,
		}).
		Add(stages.CheckConventions{}, "conventions", flow.Params{
			"rules": cfg.Rules,
		}).
		Add(&stages.InvokeModel{Invoker: invoker}, "ai_analyze", flow.Params{
			"prompt":      cfg.PromptTemplate,
			"model":       cfg.Model.ModelName,
			"temperature": temperature,
			"max_tokens":  cfg.Model.MaxTokens,
		}).
		Add(stages.SaveSnapshot{}, "save_snapshot", flow.Params{
			"dir": cfg.SnapshotDir,
		})
}

// Run executes the local snapshot workflow against root and returns the
// run history alongside the final shared context.
func Run(ctx context.Context, root string, cfg Config, invoker llm.Invoker) ([]flow.Record, *flow.Context, error) {
	c := flow.NewContext(map[string]any{
		stages.KeyProjectRoot: root,
		stages.KeyTimestamp:   time.Now().UTC().Format(TimestampLayout),
	})
	records, err := LocalSnapshot(cfg, invoker).Run(ctx, c)
	return records, c, err
}

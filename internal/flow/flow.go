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

// Package flow implements the staged-node pipeline runner: an ordered
// sequence of stages sharing one Context, executed strictly in order.
package flow

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

type entry struct {
	stage  Stage
	name   string
	label  string
	params Params
}

// Flow is an ordered, fixed sequence of stages. The order is set at
// construction and never changes at run time.
type Flow struct {
	entries []entry
}

// New creates an empty flow.
func New() *Flow {
	return &Flow{}
}

// Add appends a stage under the given name with fixed parameters.
func (f *Flow) Add(s Stage, name string, p Params) *Flow {
	return f.AddOn(s, name, "", p)
}

// AddOn is Add with a branch label. The label is carried into the run
// record for observability; the runner does not route on it.
func (f *Flow) AddOn(s Stage, name, label string, p Params) *Flow {
	if p == nil {
		p = Params{}
	}
	f.entries = append(f.entries, entry{stage: s, name: name, label: label, params: p})
	return f
}

// Len returns the number of stages.
func (f *Flow) Len() int {
	return len(f.entries)
}

// Record is an immutable log entry for one stage execution.
type Record struct {
	Stage   string
	Label   string
	Signal  Signal
	Err     string
	Started time.Time
	Elapsed time.Duration
}

// Run executes every stage in order against the shared context store.
// For each stage the three phases run to completion before the next stage
// begins. Each stage contributes one Record to the returned history.
//
// A Prepare or Execute error is structural: the run stops with the stage
// name wrapped into the error and the partial history is returned.
// Finalize cannot fail; its signal is recorded and otherwise ignored.
func (f *Flow) Run(ctx context.Context, c *Context) ([]Record, error) {
	if c == nil {
		return nil, errors.New("flow: nil context store")
	}
	history := make([]Record, 0, len(f.entries))
	for i, e := range f.entries {
		if e.stage == nil {
			return history, errors.Errorf("flow: stage %d (%s) is nil", i, e.name)
		}
		started := time.Now()

		local, err := e.stage.Prepare(c, e.params)
		if err != nil {
			history = append(history, failRecord(e, started, err))
			return history, errors.Wrapf(err, "flow stage %q: prepare", e.name)
		}

		out, err := e.stage.Execute(ctx, local, e.params)
		if err != nil {
			history = append(history, failRecord(e, started, err))
			return history, errors.Wrapf(err, "flow stage %q", e.name)
		}

		sig := e.stage.Finalize(c, local, out, e.params)
		history = append(history, Record{
			Stage:   e.name,
			Label:   e.label,
			Signal:  sig,
			Started: started,
			Elapsed: time.Since(started),
		})
	}
	return history, nil
}

func failRecord(e entry, started time.Time, err error) Record {
	return Record{
		Stage:   e.name,
		Label:   e.label,
		Err:     err.Error(),
		Started: started,
		Elapsed: time.Since(started),
	}
}

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

package flow

import (
	"context"
	"strings"
	"testing"
)

// mockStage appends its name to the "trace" context key in Finalize and
// reports a fixed signal.
type mockStage struct {
	name   string
	signal Signal
}

func (m *mockStage) Name() string { return m.name }

func (m *mockStage) Prepare(c *Context, p Params) (any, error) {
	return c.GetString("seed"), nil
}

func (m *mockStage) Execute(ctx context.Context, local any, p Params) (any, error) {
	return local.(string) + ":" + m.name, nil
}

func (m *mockStage) Finalize(c *Context, local, out any, p Params) Signal {
	trace := c.GetStringSlice("trace")
	c.Set("trace", append(trace, out.(string)))
	return m.signal
}

// mockFailStage fails in the named phase.
type mockFailStage struct {
	phase string // "prepare" or "execute"
	err   error
}

func (m *mockFailStage) Name() string { return "mock-fail" }

func (m *mockFailStage) Prepare(c *Context, p Params) (any, error) {
	if m.phase == "prepare" {
		return nil, m.err
	}
	return nil, nil
}

func (m *mockFailStage) Execute(ctx context.Context, local any, p Params) (any, error) {
	if m.phase == "execute" {
		return nil, m.err
	}
	return nil, nil
}

func (m *mockFailStage) Finalize(c *Context, local, out any, p Params) Signal {
	return "never_reached"
}

func TestFlow_Run_OrderAndSignals(t *testing.T) {
	ctx := context.Background()
	c := NewContext(map[string]any{"seed": "s"})

	f := New().
		Add(&mockStage{name: "first", signal: "first_done"}, "first", nil).
		Add(&mockStage{name: "second", signal: "second_done"}, "second", nil)

	history, err := f.Run(ctx, c)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 records, got %d", len(history))
	}
	if history[0].Signal != "first_done" || history[1].Signal != "second_done" {
		t.Errorf("signals: got %s, %s", history[0].Signal, history[1].Signal)
	}

	trace := c.GetStringSlice("trace")
	if len(trace) != 2 || trace[0] != "s:first" || trace[1] != "s:second" {
		t.Errorf("trace: got %v", trace)
	}
}

func TestFlow_Run_AbortsOnExecuteError(t *testing.T) {
	ctx := context.Background()
	c := NewContext(nil)

	f := New().
		Add(&mockFailStage{phase: "execute", err: errSentinel}, "boom", nil).
		Add(&mockStage{name: "after", signal: "after_done"}, "after", nil)

	history, err := f.Run(ctx, c)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), `flow stage "boom"`) {
		t.Errorf("error should name the stage: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 record, got %d", len(history))
	}
	if history[0].Err == "" {
		t.Error("failed record should carry the error message")
	}
	if got := c.GetStringSlice("trace"); got != nil {
		t.Errorf("later stages must not run: trace = %v", got)
	}
}

func TestFlow_Run_AbortsOnPrepareError(t *testing.T) {
	c := NewContext(nil)
	f := New().Add(&mockFailStage{phase: "prepare", err: errSentinel}, "bad-prep", nil)

	_, err := f.Run(context.Background(), c)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "prepare") {
		t.Errorf("error should mention the failing phase: %v", err)
	}
}

func TestFlow_Run_NilContext(t *testing.T) {
	f := New().Add(&mockStage{name: "x", signal: "x"}, "x", nil)
	if _, err := f.Run(context.Background(), nil); err == nil {
		t.Fatal("expected error on nil context store")
	}
}

func TestFlow_AddOn_RecordsLabel(t *testing.T) {
	c := NewContext(map[string]any{"seed": ""})
	f := New().AddOn(&mockStage{name: "x", signal: "done"}, "x", "on_success", nil)

	history, err := f.Run(context.Background(), c)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if history[0].Label != "on_success" {
		t.Errorf("label: got %q", history[0].Label)
	}
}

var errSentinel = errString("boom")

type errString string

func (e errString) Error() string { return string(e) }

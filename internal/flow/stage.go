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

import "context"

// Signal names the outcome of a stage, e.g. "files_retrieved" or
// "llm_failed". The runner records signals in the run history but never
// dispatches on them; routing stays linear.
type Signal string

// Stage is one unit of flow work, split into three phases:
//
//	Prepare reads the shared Context and the stage parameters and builds
//	stage-local input. It must not mutate the Context.
//	Execute does the actual work on the local input. It is pure with
//	respect to the Context and may block (file walks, model calls), so it
//	takes a context.Context.
//	Finalize is the only phase allowed to write into the Context. It
//	returns the outcome Signal.
//
// An error from Prepare or Execute is structural and aborts the whole run;
// per-item faults must be absorbed into the phase output instead.
// Stages are stateless between runs and may be reused across flows.
type Stage interface {
	Name() string
	Prepare(c *Context, p Params) (local any, err error)
	Execute(ctx context.Context, local any, p Params) (out any, err error)
	Finalize(c *Context, local, out any, p Params) Signal
}

// Params carries the fixed per-stage parameters declared at flow
// construction.
type Params map[string]any

// String returns the string parameter under key, or def when absent.
func (p Params) String(key, def string) string {
	if v, ok := p[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Int returns the int parameter under key, accepting int and float64
// (YAML/JSON decoding produces either), or def when absent.
func (p Params) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

// Float returns the float parameter under key, or def when absent.
func (p Params) Float(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

// StringSlice returns the string-list parameter under key, or nil.
func (p Params) StringSlice(key string) []string {
	switch v := p[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// StringMap returns the string-to-string map parameter under key, or nil.
func (p Params) StringMap(key string) map[string]string {
	switch v := p[key].(type) {
	case map[string]string:
		return v
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, e := range v {
			if s, ok := e.(string); ok {
				out[k] = s
			}
		}
		return out
	}
	return nil
}

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

import "sort"

// Context is the key-value store shared by all stages of one flow run.
// It lives exactly as long as the run: created with seed values, mutated
// only from Stage.Finalize, discarded afterwards unless a stage persisted
// its contents.
type Context struct {
	values map[string]any
}

// NewContext creates a context pre-populated with seed values.
func NewContext(seed map[string]any) *Context {
	c := &Context{values: make(map[string]any, len(seed))}
	for k, v := range seed {
		c.values[k] = v
	}
	return c
}

// Get returns the value stored under key.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Set stores a value. Only Stage.Finalize may call this during a run.
func (c *Context) Set(key string, value any) {
	c.values[key] = value
}

// GetString returns the value under key if it is a string, else "".
func (c *Context) GetString(key string) string {
	if v, ok := c.values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetInt returns the value under key if it is an int, else 0.
func (c *Context) GetInt(key string) int {
	if v, ok := c.values[key]; ok {
		if n, ok := v.(int); ok {
			return n
		}
	}
	return 0
}

// GetStringSlice returns the value under key as a []string when possible.
func (c *Context) GetStringSlice(key string) []string {
	v, ok := c.values[key]
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Keys returns all stored keys, sorted.
func (c *Context) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored keys.
func (c *Context) Len() int {
	return len(c.values)
}

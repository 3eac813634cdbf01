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

package prompt

import "testing"

func mapLookup(m map[string]any) Lookup {
	return func(key string) (any, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		values   map[string]any
		want     string
	}{
		{
			name:     "plain substitution",
			template: "root={project_root} files={file_count}",
			values:   map[string]any{"project_root": "/srv/app", "file_count": 12},
			want:     "root=/srv/app files=12",
		},
		{
			name:     "missing key renders empty",
			template: "count={missing_key}",
			values:   map[string]any{},
			want:     "count=",
		},
		{
			name:     "repeated placeholder",
			template: "{x}-{x}",
			values:   map[string]any{"x": "a"},
			want:     "a-a",
		},
		{
			name:     "non-placeholder braces untouched",
			template: "literal {} and {123} stay",
			values:   map[string]any{},
			want:     "literal {} and {123} stay",
		},
		{
			name:     "slice value uses default formatting",
			template: "files={files}",
			values:   map[string]any{"files": []string{"a.go", "b.go"}},
			want:     "files=[a.go b.go]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.template, mapLookup(tt.values))
			if got != tt.want {
				t.Errorf("Render(%q) = %q, want %q", tt.template, got, tt.want)
			}
		})
	}
}

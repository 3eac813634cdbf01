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

// Package convention checks declared identifiers against named naming
// conventions.
package convention

import (
	"regexp"

	"github.com/reposcope/reposcope/internal/lang"
)

// The five recognized convention identifiers. A rule naming anything else
// is treated as always-matching.
const (
	KebabCase      = "kebab-case"
	SnakeCase      = "snake_case"
	CamelCase      = "camelCase"
	PascalCase     = "PascalCase"
	UpperSnakeCase = "UPPER_SNAKE_CASE"
)

var patterns = map[string]*regexp.Regexp{
	KebabCase:      regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`),
	SnakeCase:      regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`),
	CamelCase:      regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`),
	PascalCase:     regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`),
	UpperSnakeCase: regexp.MustCompile(`^[A-Z][A-Z0-9]*(_[A-Z0-9]+)*$`),
}

// Matches reports whether name satisfies the named convention. Unknown
// conventions always match: a permissive default, not a failure.
func Matches(conventionName, name string) bool {
	re, ok := patterns[conventionName]
	if !ok {
		return true
	}
	return re.MatchString(name)
}

// Violation is one identifier that does not satisfy its configured
// convention.
type Violation struct {
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	Line     int    `json:"line"`
	Expected string `json:"expected"`
}

// FileViolations groups the violations of a single file. Files without
// violations produce no entry at all.
type FileViolations struct {
	File       string      `json:"file"`
	Violations []Violation `json:"violations"`
}

// Check inspects successfully parsed files against rules, a mapping from
// symbol category ("class", "function", "constant") to a convention
// identifier. Failed parse results are skipped; output order follows
// input order.
func Check(results []lang.ParseResult, rules map[string]string) []FileViolations {
	out := make([]FileViolations, 0)
	for _, res := range results {
		if !res.OK || res.Tree == nil {
			continue
		}
		var violations []Violation
		for _, sym := range res.Tree.Symbols {
			want, ok := rules[string(sym.Kind)]
			if !ok {
				continue
			}
			if Matches(want, sym.Name) {
				continue
			}
			violations = append(violations, Violation{
				Kind:     string(sym.Kind),
				Name:     sym.Name,
				Line:     sym.Line,
				Expected: want,
			})
		}
		if len(violations) > 0 {
			out = append(out, FileViolations{File: res.Path, Violations: violations})
		}
	}
	return out
}

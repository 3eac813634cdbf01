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

package lang

import "os"

// AutoLanguage selects the language per file from its extension.
const AutoLanguage = "auto"

// ParseResult is the outcome of parsing one file. Exactly one result is
// produced per input file, failures included.
type ParseResult struct {
	Path string `json:"path"`
	Tree *Tree  `json:"tree,omitempty"`
	Err  string `json:"error,omitempty"`
	OK   bool   `json:"success"`
}

// ParseFiles parses every file independently and returns one result per
// input, in input order. language is AutoLanguage or an explicit language
// name. A per-file failure (unsupported language, I/O error, syntax
// error) is recorded in its result and never stops the batch.
func (r *Registry) ParseFiles(paths []string, language string) []ParseResult {
	results := make([]ParseResult, 0, len(paths))
	for _, path := range paths {
		results = append(results, r.parseOne(path, language))
	}
	return results
}

func (r *Registry) parseOne(path, language string) ParseResult {
	var (
		p  Parser
		ok bool
	)
	if language == "" || language == AutoLanguage {
		p, ok = r.ForFile(path)
		if !ok {
			return ParseResult{Path: path, Err: "unsupported language for " + path}
		}
	} else {
		p, ok = r.ForLanguage(language)
		if !ok {
			return ParseResult{Path: path, Err: "unsupported language " + language}
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return ParseResult{Path: path, Err: err.Error()}
	}

	tree, err := p.Parse(path, content)
	if err != nil {
		return ParseResult{Path: path, Err: err.Error()}
	}
	return ParseResult{Path: path, Tree: tree, OK: true}
}

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

// Package pattern implements shell-glob matching against slash-separated
// relative paths. `*` and `?` stop at directory separators; `**` crosses
// them.
package pattern

import (
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

var (
	mu    sync.Mutex
	cache = map[string]*regexp.Regexp{}
)

// Match reports whether relPath matches the glob pattern. relPath is
// normalized to slash form first; an invalid pattern never matches.
func Match(pat, relPath string) bool {
	re, err := compile(pat)
	if err != nil {
		return false
	}
	return re.MatchString(Normalize(relPath))
}

// MatchAny reports whether relPath matches at least one pattern.
func MatchAny(patterns []string, relPath string) bool {
	for _, p := range patterns {
		if Match(p, relPath) {
			return true
		}
	}
	return false
}

// Normalize converts a path to slash-separated relative form.
func Normalize(path string) string {
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")
	path = strings.TrimPrefix(path, "/")
	return path
}

func compile(pat string) (*regexp.Regexp, error) {
	mu.Lock()
	defer mu.Unlock()
	if re, ok := cache[pat]; ok {
		return re, nil
	}
	re, err := regexp.Compile("^" + globToRegex(Normalize(pat)) + "$")
	if err != nil {
		return nil, err
	}
	cache[pat] = re
	return re, nil
}

func globToRegex(pat string) string {
	var b strings.Builder
	for i := 0; i < len(pat); i++ {
		ch := pat[i]

		if ch == '*' {
			if i+1 < len(pat) && pat[i+1] == '*' {
				// "**/" spans zero or more directories, so "**/*.go"
				// also matches files at the root. A bare "**" crosses
				// separators freely.
				if i+2 < len(pat) && pat[i+2] == '/' {
					b.WriteString(`(?:[^/]+/)*`)
					i += 2
				} else {
					b.WriteString(".*")
					i++
				}
				continue
			}
			b.WriteString("[^/]*")
			continue
		}

		if ch == '?' {
			b.WriteString("[^/]")
			continue
		}

		if strings.ContainsRune(`.+()|[]{}^$\`, rune(ch)) {
			b.WriteByte('\\')
		}
		b.WriteByte(ch)
	}
	return b.String()
}

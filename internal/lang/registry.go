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

// Package lang turns source files into flat syntax summaries via
// tree-sitter grammars. One parser per language, registered against the
// file extensions it handles.
package lang

import (
	"path/filepath"
	"strings"
)

// Kind is the declaration category of a symbol. The names line up with
// the convention-rule categories.
type Kind string

const (
	KindClass    Kind = "class"
	KindFunction Kind = "function"
	KindConstant Kind = "constant"
)

// Symbol is one declared identifier with its source line (1-based).
type Symbol struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
	Line int    `json:"line"`
}

// Tree is the abstract syntax summary of one file.
type Tree struct {
	Path     string   `json:"path"`
	Language string   `json:"language"`
	Symbols  []Symbol `json:"symbols"`
}

// Parser extracts a Tree from source code of one language.
type Parser interface {
	// Language returns the language name, e.g. "go".
	Language() string
	// Extensions returns the file suffixes this parser handles.
	Extensions() []string
	// Parse extracts declared symbols from source content.
	Parse(filename string, content []byte) (*Tree, error)
}

// Registry maps languages and file extensions to parsers.
type Registry struct {
	parsers   map[string]Parser
	extToLang map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		parsers:   make(map[string]Parser),
		extToLang: make(map[string]string),
	}
}

// DefaultRegistry returns a registry with all built-in language parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewGoParser())
	r.Register(NewPythonParser())
	return r
}

// Register adds a parser and claims its extensions.
func (r *Registry) Register(p Parser) {
	r.parsers[p.Language()] = p
	for _, ext := range p.Extensions() {
		r.extToLang[ext] = p.Language()
	}
}

// ForLanguage returns the parser registered under the language name.
func (r *Registry) ForLanguage(name string) (Parser, bool) {
	p, ok := r.parsers[strings.ToLower(name)]
	return p, ok
}

// ForFile returns the parser for a file based on its extension.
func (r *Registry) ForFile(filename string) (Parser, bool) {
	lang, ok := r.LanguageFor(filename)
	if !ok {
		return nil, false
	}
	return r.parsers[lang], true
}

// LanguageFor infers the language of a file from its extension.
func (r *Registry) LanguageFor(filename string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	lang, ok := r.extToLang[ext]
	return lang, ok
}

// Extensions returns every registered file extension.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.extToLang))
	for ext := range r.extToLang {
		exts = append(exts, ext)
	}
	return exts
}

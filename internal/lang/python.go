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

import (
	"context"

	"github.com/pkg/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// PythonParser parses Python source files.
type PythonParser struct {
	parser *sitter.Parser
}

// NewPythonParser creates a Python parser.
func NewPythonParser() *PythonParser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &PythonParser{parser: p}
}

func (p *PythonParser) Language() string {
	return "python"
}

func (p *PythonParser) Extensions() []string {
	return []string{".py", ".pyw"}
}

func (p *PythonParser) Parse(filename string, content []byte) (*Tree, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, errors.Errorf("syntax error in %s", filename)
	}

	out := &Tree{
		Path:     filename,
		Language: "python",
		Symbols:  make([]Symbol, 0),
	}
	p.extract(root, content, out)
	return out, nil
}

func (p *PythonParser) extract(node *sitter.Node, content []byte, out *Tree) {
	switch node.Type() {
	case "class_definition":
		if name := node.ChildByFieldName("name"); name != nil {
			out.Symbols = append(out.Symbols, Symbol{
				Name: name.Content(content),
				Kind: KindClass,
				Line: int(node.StartPoint().Row) + 1,
			})
		}

	case "function_definition":
		if name := node.ChildByFieldName("name"); name != nil {
			out.Symbols = append(out.Symbols, Symbol{
				Name: name.Content(content),
				Kind: KindFunction,
				Line: int(node.StartPoint().Row) + 1,
			})
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		p.extract(node.Child(i), content, out)
	}
}

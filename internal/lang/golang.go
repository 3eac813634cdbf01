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
	"github.com/smacker/go-tree-sitter/golang"
)

// GoParser parses Go source files.
type GoParser struct {
	parser *sitter.Parser
}

// NewGoParser creates a Go parser.
func NewGoParser() *GoParser {
	p := sitter.NewParser()
	p.SetLanguage(golang.GetLanguage())
	return &GoParser{parser: p}
}

func (g *GoParser) Language() string {
	return "go"
}

func (g *GoParser) Extensions() []string {
	return []string{".go"}
}

func (g *GoParser) Parse(filename string, content []byte) (*Tree, error) {
	tree, err := g.parser.ParseCtx(context.Background(), nil, content)
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
		Language: "go",
		Symbols:  make([]Symbol, 0),
	}
	g.extract(root, content, out)
	return out, nil
}

func (g *GoParser) extract(node *sitter.Node, content []byte, out *Tree) {
	switch node.Type() {
	case "function_declaration", "method_declaration":
		if name := node.ChildByFieldName("name"); name != nil {
			out.Symbols = append(out.Symbols, Symbol{
				Name: name.Content(content),
				Kind: KindFunction,
				Line: int(node.StartPoint().Row) + 1,
			})
		}

	case "type_spec":
		// Named type declarations map onto the "class" category.
		if name := node.ChildByFieldName("name"); name != nil {
			out.Symbols = append(out.Symbols, Symbol{
				Name: name.Content(content),
				Kind: KindClass,
				Line: int(name.StartPoint().Row) + 1,
			})
		}

	case "const_spec":
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child.Type() == "identifier" {
				out.Symbols = append(out.Symbols, Symbol{
					Name: child.Content(content),
					Kind: KindConstant,
					Line: int(child.StartPoint().Row) + 1,
				})
			}
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		g.extract(node.Child(i), content, out)
	}
}

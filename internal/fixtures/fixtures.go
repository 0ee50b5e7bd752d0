//go:build cgo

// Package fixtures synthesizes partial symbol.Symbol streams from
// small C++ snippets for tests, using tree-sitter to find function and
// record declarations the way internal/symbols' fallback extractor
// does for its supported languages. This is a test fixture generator,
// not a front-end: it does not resolve types or parse bodies, it only
// gives tests a source of realistic-looking partial symbols without
// hand-writing one symbol.Symbol literal per case.
package fixtures

import (
	"context"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"

	"mrdocs/internal/symbol"
	"mrdocs/internal/symbolid"
)

var declNodeTypes = map[string]symbol.Kind{
	"function_definition":    symbol.KindFunction,
	"class_specifier":        symbol.KindRecord,
	"struct_specifier":       symbol.KindRecord,
	"enum_specifier":         symbol.KindEnum,
	"namespace_definition":   symbol.KindNamespace,
}

// FromSource parses a C++ snippet and returns one partial Symbol per
// function definition, class/struct, enum, and namespace it finds at
// any nesting depth. Doc comments are not attached: every returned
// Symbol has a nil Doc. Symbols are unparented; callers that
// need nesting should parent them by Location or by hand.
func FromSource(path string, source []byte) []*symbol.Symbol {
	parser := sitter.NewParser()
	parser.SetLanguage(cpp.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil
	}
	root := tree.RootNode()

	var out []*symbol.Symbol
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		if kind, ok := declNodeTypes[node.Type()]; ok {
			if sym := symbolFromNode(path, node, source, kind); sym != nil {
				out = append(out, sym)
			}
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(root)
	return out
}

func symbolFromNode(path string, node *sitter.Node, source []byte, kind symbol.Kind) *symbol.Symbol {
	name := declName(node, source, kind)
	if name == "" {
		return nil
	}

	usr := "fixture:" + path + ":" + name + ":" + node.Type() + ":" + strconv.Itoa(int(node.StartByte()))
	sym := &symbol.Symbol{
		ID:   symbolid.FromUSR(usr),
		Name: name,
		Kind: kind,
		Definition: &symbol.Location{
			Path:      path,
			Line:      int(node.StartPoint().Row) + 1,
			Column:    int(node.StartPoint().Column) + 1,
			EndLine:   int(node.EndPoint().Row) + 1,
			EndColumn: int(node.EndPoint().Column) + 1,
		},
		Body: bodyFor(kind),
	}
	return sym
}

func bodyFor(kind symbol.Kind) symbol.Body {
	switch kind {
	case symbol.KindFunction:
		return &symbol.Function{}
	case symbol.KindRecord:
		return &symbol.Record{KeyKind: symbol.KeyClass}
	case symbol.KindEnum:
		return &symbol.Enum{}
	case symbol.KindNamespace:
		return &symbol.Namespace{}
	default:
		return nil
	}
}

// declName walks a declaration node's children to find its name,
// following the same field-name-first, node-type-fallback strategy the
// teacher's getFunctionName uses for languages tree-sitter doesn't tag
// a "name" field for.
func declName(node *sitter.Node, source []byte, kind symbol.Kind) string {
	if named := node.ChildByFieldName("name"); named != nil {
		return identifierText(named, source)
	}

	switch kind {
	case symbol.KindFunction:
		declarator := node.ChildByFieldName("declarator")
		for declarator != nil {
			if inner := declarator.ChildByFieldName("declarator"); inner != nil {
				declarator = inner
				continue
			}
			break
		}
		if declarator != nil {
			return identifierText(declarator, source)
		}
	case symbol.KindRecord, symbol.KindEnum, symbol.KindNamespace:
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child != nil && (child.Type() == "type_identifier" || child.Type() == "identifier" || child.Type() == "namespace_identifier") {
				return identifierText(child, source)
			}
		}
	}
	return ""
}

func identifierText(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child != nil && (child.Type() == "identifier" || child.Type() == "type_identifier" || child.Type() == "field_identifier" || child.Type() == "namespace_identifier") {
			return identifierText(child, source)
		}
	}
	text := string(source[node.StartByte():node.EndByte()])
	return strings.TrimSpace(text)
}

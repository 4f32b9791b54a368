//go:build cgo

package frontend

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

var pythonControlFlow = map[string]string{
	"if_statement":    "if",
	"for_statement":   "for",
	"while_statement": "while",
	"try_statement":   "try",
	"match_statement": "match",
}

// Python is the front-end for .py files.
type Python struct{}

// NewPython constructs the Python front-end.
func NewPython() *Python {
	return &Python{}
}

// Language implements Frontend.
func (p *Python) Language() m.Language { return m.LangPython }

// Extensions implements Frontend.
func (p *Python) Extensions() []string { return pythonExtensions }

// Parse implements Frontend.
func (p *Python) Parse(ctx context.Context, src []byte) *m.ParseResult {
	root, err := parseTree(ctx, python.GetLanguage(), src)
	if err != nil {
		return m.NewErrorResult(m.LangPython, err)
	}

	return &m.ParseResult{
		Language:  m.LangPython,
		Imports:   p.extractImports(root, src),
		Classes:   p.extractClasses(root, src),
		Functions: p.extractTopLevelFunctions(root, src),
		Calls:     p.extractCalls(root, src),
		Strings:   p.extractStrings(root, src),
	}
}

func (p *Python) extractImports(root *sitter.Node, src []byte) []m.Import {
	var imports []m.Import

	walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "import_statement":
			for _, child := range namedChildren(n) {
				switch child.Type() {
				case "dotted_name":
					imports = append(imports, m.Import{Module: text(child, src), Line: line(n)})
				case "aliased_import":
					imports = append(imports, m.Import{
						Module: text(child.ChildByFieldName("name"), src),
						Alias:  text(child.ChildByFieldName("alias"), src),
						Line:   line(n),
					})
				}
			}

			return false
		case "import_from_statement":
			if module := n.ChildByFieldName("module_name"); module != nil {
				imports = append(imports, m.Import{Module: text(module, src), Line: line(n)})
			}

			return false
		}

		return true
	})

	return imports
}

func (p *Python) extractClasses(root *sitter.Node, src []byte) []m.Class {
	var classes []m.Class

	walk(root, func(n *sitter.Node) bool {
		if n.Type() != "class_definition" {
			return true
		}

		class := m.Class{
			Name:      text(n.ChildByFieldName("name"), src),
			LineStart: line(n),
			LineEnd:   endLine(n),
		}

		for _, base := range namedChildren(n.ChildByFieldName("superclasses")) {
			if base.Type() == "keyword_argument" {
				continue
			}

			class.BaseClasses = append(class.BaseClasses, text(base, src))
		}

		for _, stmt := range namedChildren(n.ChildByFieldName("body")) {
			if fn := p.functionNode(stmt); fn != nil {
				class.Methods = append(class.Methods, p.function(fn, src))
			}
		}

		classes = append(classes, class)

		return true
	})

	return classes
}

func (p *Python) extractTopLevelFunctions(root *sitter.Node, src []byte) []m.Function {
	var functions []m.Function

	for _, stmt := range namedChildren(root) {
		if fn := p.functionNode(stmt); fn != nil {
			functions = append(functions, p.function(fn, src))
		}
	}

	return functions
}

// functionNode unwraps decorated definitions.
func (p *Python) functionNode(n *sitter.Node) *sitter.Node {
	switch n.Type() {
	case "function_definition":
		return n
	case "decorated_definition":
		if def := n.ChildByFieldName("definition"); def != nil && def.Type() == "function_definition" {
			return def
		}
	}

	return nil
}

func (p *Python) function(n *sitter.Node, src []byte) m.Function {
	fn := m.Function{
		Name:      text(n.ChildByFieldName("name"), src),
		LineStart: line(n),
		LineEnd:   endLine(n),
		IsAsync:   hasToken(n, src, "async"),
	}

	for _, param := range namedChildren(n.ChildByFieldName("parameters")) {
		if param.Type() == "identifier" {
			fn.Parameters = append(fn.Parameters, text(param, src))
			continue
		}

		if ident := firstDescendant(param, "identifier"); ident != nil {
			fn.Parameters = append(fn.Parameters, text(ident, src))
		}
	}

	var decorators decoratorSet

	if parent := n.Parent(); parent != nil && parent.Type() == "decorated_definition" {
		for _, child := range namedChildren(parent) {
			if child.Type() != "decorator" {
				continue
			}

			name, arg := p.decorator(child, src)
			decorators.add(name, arg)
		}
	}

	fn.Decorators = decorators.names
	fn.DecoratorArgs = decorators.args

	return fn
}

func (p *Python) decorator(n *sitter.Node, src []byte) (string, string) {
	children := namedChildren(n)
	if len(children) == 0 {
		return "", ""
	}

	expr := children[0]
	if expr.Type() != "call" {
		return text(expr, src), ""
	}

	name := text(expr.ChildByFieldName("function"), src)

	arg := ""
	if literal := firstDescendant(expr.ChildByFieldName("arguments"), "string"); literal != nil {
		arg = unquote(text(literal, src))
	}

	return name, arg
}

func (p *Python) extractCalls(root *sitter.Node, src []byte) []m.Call {
	var calls []m.Call

	walk(root, func(n *sitter.Node) bool {
		if kind, ok := pythonControlFlow[n.Type()]; ok {
			calls = append(calls, m.Call{ObjectName: m.ControlFlowReceiver, MethodName: kind, Line: line(n), FullText: firstLine(n, src)})
			return true
		}

		switch n.Type() {
		case "assert_statement":
			calls = append(calls, m.Call{ObjectName: m.AssertReceiver, MethodName: "assert", Line: line(n), FullText: firstLine(n, src)})
		case "call":
			if call, ok := p.call(n, src); ok {
				calls = append(calls, call)
			}
		}

		return true
	})

	return calls
}

func (p *Python) call(n *sitter.Node, src []byte) (m.Call, bool) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return m.Call{}, false
	}

	call := m.Call{Line: line(n), FullText: snippet(n, src)}

	switch fn.Type() {
	case "identifier":
		call.MethodName = text(fn, src)
	case "attribute":
		call.MethodName = text(fn.ChildByFieldName("attribute"), src)
		call.ObjectName = resolveRoot(p.chain(fn.ChildByFieldName("object"), src))
	default:
		return m.Call{}, false
	}

	return call, call.MethodName != ""
}

// chain lists the identifiers of a receiver expression from the root outward.
func (p *Python) chain(n *sitter.Node, src []byte) []string {
	if n == nil {
		return nil
	}

	switch n.Type() {
	case "identifier":
		return []string{text(n, src)}
	case "attribute":
		return append(p.chain(n.ChildByFieldName("object"), src), text(n.ChildByFieldName("attribute"), src))
	case "call":
		fn := n.ChildByFieldName("function")
		if fn != nil && fn.Type() == "attribute" {
			return p.chain(fn.ChildByFieldName("object"), src)
		}

		return p.chain(fn, src)
	case "subscript":
		return p.chain(n.ChildByFieldName("value"), src)
	case "parenthesized_expression", "await":
		if children := namedChildren(n); len(children) > 0 {
			return p.chain(children[0], src)
		}
	}

	return nil
}

func (p *Python) extractStrings(root *sitter.Node, src []byte) []m.StringLiteral {
	var literals []m.StringLiteral

	walk(root, func(n *sitter.Node) bool {
		if n.Type() != "string" {
			return true
		}

		// Bare string statements are docstrings.
		if parent := n.Parent(); parent != nil && parent.Type() == "expression_statement" {
			return false
		}

		literals = append(literals, m.StringLiteral{Value: unquote(text(n, src)), Line: line(n)})

		return false
	})

	return literals
}

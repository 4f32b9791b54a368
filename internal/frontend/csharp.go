//go:build cgo

package frontend

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

var cSharpControlFlow = map[string]string{
	"if_statement":       "if",
	"for_statement":      "for",
	"for_each_statement": "foreach",
	"foreach_statement":  "foreach",
	"while_statement":    "while",
	"do_statement":       "do",
	"switch_statement":   "switch",
	"switch_expression":  "switch",
	"try_statement":      "try",
}

var cSharpStringTypes = map[string]bool{
	"string_literal":                 true,
	"verbatim_string_literal":        true,
	"raw_string_literal":             true,
	"interpolated_string_expression": true,
}

// CSharp is the front-end for .cs files.
type CSharp struct{}

// NewCSharp constructs the C# front-end.
func NewCSharp() *CSharp {
	return &CSharp{}
}

// Language implements Frontend.
func (c *CSharp) Language() m.Language { return m.LangCSharp }

// Extensions implements Frontend.
func (c *CSharp) Extensions() []string { return cSharpExtensions }

// Parse implements Frontend.
func (c *CSharp) Parse(ctx context.Context, src []byte) *m.ParseResult {
	root, err := parseTree(ctx, csharp.GetLanguage(), src)
	if err != nil {
		return m.NewErrorResult(m.LangCSharp, err)
	}

	return &m.ParseResult{
		Language:  m.LangCSharp,
		Imports:   c.extractImports(root, src),
		Classes:   c.extractClasses(root, src),
		Functions: c.extractTopLevelFunctions(root, src),
		Calls:     c.extractCalls(root, src),
		Strings:   c.extractStrings(root, src),
	}
}

func (c *CSharp) extractImports(root *sitter.Node, src []byte) []m.Import {
	var imports []m.Import

	walk(root, func(n *sitter.Node) bool {
		if n.Type() != "using_directive" {
			return true
		}

		imp := m.Import{Line: line(n)}

		for _, child := range namedChildren(n) {
			switch child.Type() {
			case "name_equals":
				imp.Alias = text(childOfType(child, "identifier"), src)
			default:
				imp.Module = text(child, src)
			}
		}

		// Some grammar versions drop name_equals: "using Alias = Module;".
		if imp.Alias == "" {
			if before, after, ok := strings.Cut(text(n, src), "="); ok {
				imp.Alias = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(before), "using"))
				imp.Module = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(after), ";"))
			}
		}

		if imp.Module != "" {
			imports = append(imports, imp)
		}

		return false
	})

	return imports
}

func (c *CSharp) extractClasses(root *sitter.Node, src []byte) []m.Class {
	var classes []m.Class

	walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "class_declaration", "record_declaration":
		default:
			return true
		}

		class := m.Class{
			Name:      text(n.ChildByFieldName("name"), src),
			LineStart: line(n),
			LineEnd:   endLine(n),
		}

		for _, base := range namedChildren(childOfType(n, "base_list")) {
			if base.Type() == "argument_list" {
				continue
			}

			class.BaseClasses = append(class.BaseClasses, stripTypeArgs(text(base, src)))
		}

		body := n.ChildByFieldName("body")
		if body == nil {
			body = childOfType(n, "declaration_list")
		}

		for _, member := range namedChildren(body) {
			if member.Type() == "method_declaration" || member.Type() == "constructor_declaration" {
				class.Methods = append(class.Methods, c.function(member, src))
			}
		}

		classes = append(classes, class)

		return true
	})

	return classes
}

// extractTopLevelFunctions collects local functions of top-level statements.
func (c *CSharp) extractTopLevelFunctions(root *sitter.Node, src []byte) []m.Function {
	var functions []m.Function

	for _, stmt := range namedChildren(root) {
		if stmt.Type() != "global_statement" {
			continue
		}

		if fn := childOfType(stmt, "local_function_statement"); fn != nil {
			functions = append(functions, c.function(fn, src))
		}
	}

	return functions
}

func (c *CSharp) function(n *sitter.Node, src []byte) m.Function {
	fn := m.Function{
		Name:      text(n.ChildByFieldName("name"), src),
		LineStart: line(n),
		LineEnd:   endLine(n),
		IsAsync:   hasToken(n, src, "async"),
	}

	params := n.ChildByFieldName("parameters")
	if params == nil {
		params = childOfType(n, "parameter_list")
	}

	for _, param := range namedChildren(params) {
		if param.Type() != "parameter" {
			continue
		}

		if name := param.ChildByFieldName("name"); name != nil {
			fn.Parameters = append(fn.Parameters, text(name, src))
		}
	}

	var decorators decoratorSet

	for sib := n.PrevNamedSibling(); sib != nil && sib.Type() == "attribute_list"; sib = sib.PrevNamedSibling() {
		c.attributes(sib, src, &decorators)
	}

	for _, child := range namedChildren(n) {
		if child.Type() == "attribute_list" {
			c.attributes(child, src, &decorators)
		}
	}

	fn.Decorators = decorators.names
	fn.DecoratorArgs = decorators.args

	return fn
}

// attributes adds each attribute of an attribute list, normalising
// [TestAttribute] to Test.
func (c *CSharp) attributes(list *sitter.Node, src []byte, into *decoratorSet) {
	for _, attr := range namedChildren(list) {
		if attr.Type() != "attribute" {
			continue
		}

		name := stripTypeArgs(text(attr.ChildByFieldName("name"), src))
		if trimmed := strings.TrimSuffix(name, "Attribute"); trimmed != "" {
			name = trimmed
		}

		arg := ""
		if literal := firstDescendant(childOfType(attr, "attribute_argument_list"), "string_literal", "verbatim_string_literal"); literal != nil {
			arg = unquote(text(literal, src))
		}

		into.add(name, arg)
	}
}

func (c *CSharp) extractCalls(root *sitter.Node, src []byte) []m.Call {
	var calls []m.Call

	walk(root, func(n *sitter.Node) bool {
		if kind, ok := cSharpControlFlow[n.Type()]; ok {
			calls = append(calls, m.Call{ObjectName: m.ControlFlowReceiver, MethodName: kind, Line: line(n), FullText: firstLine(n, src)})
			return true
		}

		if n.Type() != "invocation_expression" {
			return true
		}

		fn := n.ChildByFieldName("function")
		if fn == nil {
			return true
		}

		call := m.Call{Line: line(n), FullText: snippet(n, src)}

		switch fn.Type() {
		case "identifier", "generic_name":
			call.MethodName = stripTypeArgs(text(fn, src))
		case "member_access_expression":
			call.MethodName = stripTypeArgs(text(fn.ChildByFieldName("name"), src))
			call.ObjectName = resolveRoot(c.chain(fn.ChildByFieldName("expression"), src))
		}

		if call.MethodName != "" {
			calls = append(calls, call)
		}

		return true
	})

	return calls
}

func (c *CSharp) chain(n *sitter.Node, src []byte) []string {
	if n == nil {
		return nil
	}

	switch n.Type() {
	case "identifier", "predefined_type":
		return []string{text(n, src)}
	case "this_expression", "this":
		return []string{"this"}
	case "base_expression", "base":
		return []string{"base"}
	case "member_access_expression":
		return append(c.chain(n.ChildByFieldName("expression"), src), stripTypeArgs(text(n.ChildByFieldName("name"), src)))
	case "invocation_expression":
		fn := n.ChildByFieldName("function")
		if fn != nil && fn.Type() == "member_access_expression" {
			return c.chain(fn.ChildByFieldName("expression"), src)
		}

		return c.chain(fn, src)
	case "element_access_expression":
		return c.chain(n.ChildByFieldName("expression"), src)
	case "cast_expression":
		return c.chain(n.ChildByFieldName("value"), src)
	case "parenthesized_expression", "await_expression":
		if children := namedChildren(n); len(children) > 0 {
			return c.chain(children[len(children)-1], src)
		}
	}

	return nil
}

func (c *CSharp) extractStrings(root *sitter.Node, src []byte) []m.StringLiteral {
	var literals []m.StringLiteral

	walk(root, func(n *sitter.Node) bool {
		switch {
		case n.Type() == "using_directive" || n.Type() == "attribute_list":
			return false
		case cSharpStringTypes[n.Type()]:
			literals = append(literals, m.StringLiteral{Value: unquote(text(n, src)), Line: line(n)})
			return false
		}

		return true
	})

	return literals
}

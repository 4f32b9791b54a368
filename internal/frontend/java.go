//go:build cgo

package frontend

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

var javaControlFlow = map[string]string{
	"if_statement":                 "if",
	"for_statement":                "for",
	"enhanced_for_statement":       "for",
	"while_statement":              "while",
	"do_statement":                 "do",
	"switch_expression":            "switch",
	"switch_statement":             "switch",
	"try_statement":                "try",
	"try_with_resources_statement": "try",
}

// Java is the front-end for .java files.
type Java struct{}

// NewJava constructs the Java front-end.
func NewJava() *Java {
	return &Java{}
}

// Language implements Frontend.
func (j *Java) Language() m.Language { return m.LangJava }

// Extensions implements Frontend.
func (j *Java) Extensions() []string { return javaExtensions }

// Parse implements Frontend.
func (j *Java) Parse(ctx context.Context, src []byte) *m.ParseResult {
	root, err := parseTree(ctx, java.GetLanguage(), src)
	if err != nil {
		return m.NewErrorResult(m.LangJava, err)
	}

	return &m.ParseResult{
		Language:  m.LangJava,
		Imports:   j.extractImports(root, src),
		Classes:   j.extractClasses(root, src),
		Functions: j.extractTopLevelFunctions(root, src),
		Calls:     j.extractCalls(root, src),
		Strings:   j.extractStrings(root, src),
	}
}

func (j *Java) extractImports(root *sitter.Node, src []byte) []m.Import {
	var imports []m.Import

	for _, decl := range namedChildren(root) {
		if decl.Type() != "import_declaration" {
			continue
		}

		name := childOfType(decl, "scoped_identifier", "identifier")
		if name == nil {
			continue
		}

		module := text(name, src)
		if childOfType(decl, "asterisk") != nil {
			module += ".*"
		}

		imports = append(imports, m.Import{Module: module, Line: line(decl)})
	}

	return imports
}

func (j *Java) extractClasses(root *sitter.Node, src []byte) []m.Class {
	var classes []m.Class

	walk(root, func(n *sitter.Node) bool {
		if n.Type() != "class_declaration" {
			return true
		}

		class := m.Class{
			Name:      text(n.ChildByFieldName("name"), src),
			LineStart: line(n),
			LineEnd:   endLine(n),
		}

		if super := n.ChildByFieldName("superclass"); super != nil {
			for _, t := range namedChildren(super) {
				class.BaseClasses = append(class.BaseClasses, stripTypeArgs(text(t, src)))
			}
		}

		if ifaces := n.ChildByFieldName("interfaces"); ifaces != nil {
			for _, t := range namedChildren(childOfType(ifaces, "type_list")) {
				class.BaseClasses = append(class.BaseClasses, stripTypeArgs(text(t, src)))
			}
		}

		for _, member := range namedChildren(n.ChildByFieldName("body")) {
			if member.Type() == "method_declaration" || member.Type() == "constructor_declaration" {
				class.Methods = append(class.Methods, j.function(member, src))
			}
		}

		classes = append(classes, class)

		return true
	})

	return classes
}

// extractTopLevelFunctions is empty: Java has no functions outside classes.
func (j *Java) extractTopLevelFunctions(_ *sitter.Node, _ []byte) []m.Function {
	return nil
}

func (j *Java) function(n *sitter.Node, src []byte) m.Function {
	fn := m.Function{
		Name:      text(n.ChildByFieldName("name"), src),
		LineStart: line(n),
		LineEnd:   endLine(n),
	}

	for _, param := range namedChildren(n.ChildByFieldName("parameters")) {
		if name := param.ChildByFieldName("name"); name != nil {
			fn.Parameters = append(fn.Parameters, text(name, src))
			continue
		}

		if ident := firstDescendant(param, "identifier"); ident != nil {
			fn.Parameters = append(fn.Parameters, text(ident, src))
		}
	}

	var decorators decoratorSet

	// Annotations normally live in the modifiers child, but error-recovered
	// or unusual layouts leave them as preceding siblings.
	var preceding []*sitter.Node
	for sib := n.PrevNamedSibling(); sib != nil; sib = sib.PrevNamedSibling() {
		if sib.Type() == "line_comment" || sib.Type() == "block_comment" {
			continue
		}

		if sib.Type() != "marker_annotation" && sib.Type() != "annotation" {
			break
		}

		preceding = append([]*sitter.Node{sib}, preceding...)
	}

	for _, annotation := range preceding {
		decorators.add(j.annotation(annotation, src))
	}

	if modifiers := childOfType(n, "modifiers"); modifiers != nil {
		for _, child := range namedChildren(modifiers) {
			if child.Type() == "marker_annotation" || child.Type() == "annotation" {
				decorators.add(j.annotation(child, src))
			}
		}
	}

	fn.Decorators = decorators.names
	fn.DecoratorArgs = decorators.args

	return fn
}

func (j *Java) annotation(n *sitter.Node, src []byte) (string, string) {
	name := text(n.ChildByFieldName("name"), src)

	arg := ""
	if literal := firstDescendant(n.ChildByFieldName("arguments"), "string_literal"); literal != nil {
		arg = unquote(text(literal, src))
	}

	return name, arg
}

func (j *Java) extractCalls(root *sitter.Node, src []byte) []m.Call {
	var calls []m.Call

	walk(root, func(n *sitter.Node) bool {
		if kind, ok := javaControlFlow[n.Type()]; ok {
			calls = append(calls, m.Call{ObjectName: m.ControlFlowReceiver, MethodName: kind, Line: line(n), FullText: firstLine(n, src)})
			return true
		}

		switch n.Type() {
		case "assert_statement":
			calls = append(calls, m.Call{ObjectName: m.AssertReceiver, MethodName: "assert", Line: line(n), FullText: firstLine(n, src)})
		case "method_invocation":
			call := m.Call{
				MethodName: text(n.ChildByFieldName("name"), src),
				ObjectName: resolveRoot(j.chain(n.ChildByFieldName("object"), src)),
				Line:       line(n),
				FullText:   snippet(n, src),
			}

			if call.MethodName != "" {
				calls = append(calls, call)
			}
		}

		return true
	})

	return calls
}

func (j *Java) chain(n *sitter.Node, src []byte) []string {
	if n == nil {
		return nil
	}

	switch n.Type() {
	case "identifier", "this", "super":
		return []string{text(n, src)}
	case "field_access":
		return append(j.chain(n.ChildByFieldName("object"), src), text(n.ChildByFieldName("field"), src))
	case "method_invocation":
		return j.chain(n.ChildByFieldName("object"), src)
	case "array_access":
		return j.chain(n.ChildByFieldName("array"), src)
	case "parenthesized_expression", "cast_expression":
		if children := namedChildren(n); len(children) > 0 {
			return j.chain(children[len(children)-1], src)
		}
	}

	return nil
}

func (j *Java) extractStrings(root *sitter.Node, src []byte) []m.StringLiteral {
	var literals []m.StringLiteral

	walk(root, func(n *sitter.Node) bool {
		if n.Type() != "string_literal" && n.Type() != "text_block" {
			return true
		}

		literals = append(literals, m.StringLiteral{Value: unquote(text(n, src)), Line: line(n)})

		return false
	})

	return literals
}

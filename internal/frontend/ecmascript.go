//go:build cgo

package frontend

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

var ecmaControlFlow = map[string]string{
	"if_statement":     "if",
	"for_statement":    "for",
	"for_in_statement": "for",
	"while_statement":  "while",
	"do_statement":     "do",
	"switch_statement": "switch",
	"try_statement":    "try",
}

// testCallees register test cases through a title and a callback.
var testCallees = map[string]bool{
	"it":      true,
	"test":    true,
	"specify": true,
}

// stepCallees register BDD step definitions (cucumber-js, playwright-bdd).
var stepCallees = map[string]bool{
	"Given":      true,
	"When":       true,
	"Then":       true,
	"And":        true,
	"But":        true,
	"Step":       true,
	"defineStep": true,
}

var callbackTypes = map[string]bool{
	"arrow_function":      true,
	"function_expression": true,
	"function":            true,
}

// ECMAScript is the front-end shared by JavaScript and TypeScript. The
// grammar differs per dialect, the extraction does not.
type ECMAScript struct {
	lang    m.Language
	exts    []string
	grammar func() *sitter.Language
}

// NewJavaScript handles .js, .jsx, .mjs and .cjs files.
func NewJavaScript() *ECMAScript {
	return &ECMAScript{lang: m.LangJavaScript, exts: javaScriptExtensions, grammar: javascript.GetLanguage}
}

// NewTypeScript handles .ts, .mts and .cts files.
func NewTypeScript() *ECMAScript {
	return &ECMAScript{lang: m.LangTypeScript, exts: typeScriptExtensions, grammar: typescript.GetLanguage}
}

// NewTSX handles .tsx files, which need the JSX-aware TypeScript grammar.
func NewTSX() *ECMAScript {
	return &ECMAScript{lang: m.LangTypeScript, exts: tsxExtensions, grammar: tsx.GetLanguage}
}

// Language implements Frontend.
func (e *ECMAScript) Language() m.Language { return e.lang }

// Extensions implements Frontend.
func (e *ECMAScript) Extensions() []string { return e.exts }

// Parse implements Frontend.
func (e *ECMAScript) Parse(ctx context.Context, src []byte) *m.ParseResult {
	root, err := parseTree(ctx, e.grammar(), src)
	if err != nil {
		return m.NewErrorResult(e.lang, err)
	}

	return &m.ParseResult{
		Language:  e.lang,
		Imports:   e.extractImports(root, src),
		Classes:   e.extractClasses(root, src),
		Functions: e.extractTopLevelFunctions(root, src),
		Calls:     e.extractCalls(root, src),
		Strings:   e.extractStrings(root, src),
	}
}

func (e *ECMAScript) extractImports(root *sitter.Node, src []byte) []m.Import {
	var imports []m.Import

	walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "import_statement":
			source := n.ChildByFieldName("source")
			if source == nil {
				return false
			}

			imp := m.Import{Module: unquote(text(source, src)), Line: line(n)}

			if clause := childOfType(n, "import_clause"); clause != nil {
				if ident := childOfType(clause, "identifier"); ident != nil {
					imp.Alias = text(ident, src)
				} else if ns := childOfType(clause, "namespace_import"); ns != nil {
					imp.Alias = text(childOfType(ns, "identifier"), src)
				}
			}

			imports = append(imports, imp)

			return false
		case "call_expression":
			if imp, ok := e.require(n, src); ok {
				imports = append(imports, imp)
			}
		}

		return true
	})

	return imports
}

// require recognises CommonJS imports: const x = require("module").
func (e *ECMAScript) require(n *sitter.Node, src []byte) (m.Import, bool) {
	fn := n.ChildByFieldName("function")
	if fn == nil || fn.Type() != "identifier" || text(fn, src) != "require" {
		return m.Import{}, false
	}

	args := namedChildren(n.ChildByFieldName("arguments"))
	if len(args) == 0 || args[0].Type() != "string" {
		return m.Import{}, false
	}

	imp := m.Import{Module: unquote(text(args[0], src)), Line: line(n)}

	if parent := n.Parent(); parent != nil && parent.Type() == "variable_declarator" {
		if name := parent.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
			imp.Alias = text(name, src)
		}
	}

	return imp, true
}

func (e *ECMAScript) extractClasses(root *sitter.Node, src []byte) []m.Class {
	var classes []m.Class

	walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "class_declaration", "abstract_class_declaration", "class":
		default:
			return true
		}

		body := n.ChildByFieldName("body")
		if !n.IsNamed() || body == nil {
			return true
		}

		class := m.Class{
			Name:        text(n.ChildByFieldName("name"), src),
			LineStart:   line(n),
			LineEnd:     endLine(n),
			BaseClasses: e.heritage(childOfType(n, "class_heritage"), src),
		}

		var pending decoratorSet

		for i := 0; i < int(body.NamedChildCount()); i++ {
			member := body.NamedChild(i)

			switch member.Type() {
			case "decorator":
				pending.add(e.decorator(member, src))
				continue
			case "method_definition", "method_signature", "abstract_method_signature":
				fn := e.function(member, member, src)
				fn.Decorators, fn.DecoratorArgs = mergeDecorators(pending, fn.Decorators, fn.DecoratorArgs)
				class.Methods = append(class.Methods, fn)
			case "field_definition", "public_field_definition":
				if value := member.ChildByFieldName("value"); value != nil && callbackTypes[value.Type()] {
					fn := e.function(value, member, src)
					fn.Decorators, fn.DecoratorArgs = mergeDecorators(pending, fn.Decorators, fn.DecoratorArgs)
					class.Methods = append(class.Methods, fn)
				}
			}

			pending = decoratorSet{}
		}

		classes = append(classes, class)

		return true
	})

	return classes
}

// heritage lists extends and implements targets of a class.
func (e *ECMAScript) heritage(n *sitter.Node, src []byte) []string {
	if n == nil {
		return nil
	}

	var bases []string

	for _, child := range namedChildren(n) {
		switch child.Type() {
		case "extends_clause", "implements_clause":
			for _, target := range namedChildren(child) {
				if target.Type() == "type_arguments" {
					continue
				}

				bases = append(bases, stripTypeArgs(text(target, src)))
			}
		default:
			bases = append(bases, stripTypeArgs(text(child, src)))
		}
	}

	return bases
}

func mergeDecorators(pending decoratorSet, names []string, args map[string]string) ([]string, map[string]string) {
	for _, name := range names {
		pending.add(name, args[name])
	}

	return pending.names, pending.args
}

func (e *ECMAScript) extractTopLevelFunctions(root *sitter.Node, src []byte) []m.Function {
	var functions []m.Function

	for _, stmt := range namedChildren(root) {
		if stmt.Type() == "export_statement" {
			if decl := stmt.ChildByFieldName("declaration"); decl != nil {
				stmt = decl
			}
		}

		switch stmt.Type() {
		case "function_declaration", "generator_function_declaration":
			functions = append(functions, e.function(stmt, stmt, src))
		case "lexical_declaration", "variable_declaration":
			for _, decl := range namedChildren(stmt) {
				if decl.Type() != "variable_declarator" {
					continue
				}

				value := decl.ChildByFieldName("value")
				if value == nil || !callbackTypes[value.Type()] {
					continue
				}

				fn := e.function(value, decl, src)
				fn.LineStart = line(stmt)
				functions = append(functions, fn)
			}
		}
	}

	// Test and step registrations are reported as functions so the test
	// body checks apply to them.
	walk(root, func(n *sitter.Node) bool {
		if n.Type() == "call_expression" {
			if fn, ok := e.registration(n, src); ok {
				functions = append(functions, fn)
			}
		}

		return true
	})

	return functions
}

// registration turns it("title", () => {...}) or Given("pattern", fn) into
// a synthetic function named after its title.
func (e *ECMAScript) registration(n *sitter.Node, src []byte) (m.Function, bool) {
	callee := n.ChildByFieldName("function")
	if callee == nil {
		return m.Function{}, false
	}

	var base string

	switch callee.Type() {
	case "identifier":
		base = text(callee, src)
	case "member_expression":
		object := callee.ChildByFieldName("object")
		if object == nil || object.Type() != "identifier" {
			return m.Function{}, false
		}

		switch text(callee.ChildByFieldName("property"), src) {
		case "only", "skip", "fixme", "concurrent":
			base = text(object, src)
		default:
			return m.Function{}, false
		}
	default:
		return m.Function{}, false
	}

	if !testCallees[base] && !stepCallees[base] {
		return m.Function{}, false
	}

	args := namedChildren(n.ChildByFieldName("arguments"))
	if len(args) < 2 {
		return m.Function{}, false
	}

	var title string

	switch args[0].Type() {
	case "string", "template_string":
		title = unquote(text(args[0], src))
	case "regex":
		title = text(args[0].ChildByFieldName("pattern"), src)
	default:
		return m.Function{}, false
	}

	var callback *sitter.Node
	for _, arg := range args[1:] {
		if callbackTypes[arg.Type()] {
			callback = arg
		}
	}

	if callback == nil {
		return m.Function{}, false
	}

	fn := m.Function{
		Name:          title,
		LineStart:     line(n),
		LineEnd:       endLine(n),
		Decorators:    []string{base},
		DecoratorArgs: map[string]string{base: title},
		Parameters:    e.parameters(callback, src),
		IsAsync:       hasToken(callback, src, "async"),
	}

	return fn, true
}

// function builds a Function from a callable node; named is the node
// carrying the name (the declarator or field for arrow functions).
func (e *ECMAScript) function(n, named *sitter.Node, src []byte) m.Function {
	nameNode := named.ChildByFieldName("name")
	if nameNode == nil {
		nameNode = named.ChildByFieldName("property")
	}

	fn := m.Function{
		Name:       text(nameNode, src),
		LineStart:  line(named),
		LineEnd:    endLine(n),
		Parameters: e.parameters(n, src),
		IsAsync:    hasToken(n, src, "async"),
	}

	var decorators decoratorSet

	for _, child := range namedChildren(named) {
		if child.Type() == "decorator" {
			decorators.add(e.decorator(child, src))
		}
	}

	fn.Decorators = decorators.names
	fn.DecoratorArgs = decorators.args

	return fn
}

func (e *ECMAScript) parameters(n *sitter.Node, src []byte) []string {
	if single := n.ChildByFieldName("parameter"); single != nil {
		return []string{text(single, src)}
	}

	var params []string

	for _, param := range namedChildren(n.ChildByFieldName("parameters")) {
		switch param.Type() {
		case "identifier":
			params = append(params, text(param, src))
		case "required_parameter", "optional_parameter":
			if pattern := param.ChildByFieldName("pattern"); pattern != nil && pattern.Type() == "identifier" {
				params = append(params, text(pattern, src))
				continue
			}

			fallthrough
		default:
			if ident := firstDescendant(param, "identifier", "shorthand_property_identifier_pattern"); ident != nil {
				params = append(params, text(ident, src))
			}
		}
	}

	return params
}

func (e *ECMAScript) decorator(n *sitter.Node, src []byte) (string, string) {
	children := namedChildren(n)
	if len(children) == 0 {
		return "", ""
	}

	expr := children[0]
	if expr.Type() != "call_expression" {
		return text(expr, src), ""
	}

	arg := ""
	if literal := firstDescendant(expr.ChildByFieldName("arguments"), "string"); literal != nil {
		arg = unquote(text(literal, src))
	}

	return text(expr.ChildByFieldName("function"), src), arg
}

func (e *ECMAScript) extractCalls(root *sitter.Node, src []byte) []m.Call {
	var calls []m.Call

	walk(root, func(n *sitter.Node) bool {
		if kind, ok := ecmaControlFlow[n.Type()]; ok {
			calls = append(calls, m.Call{ObjectName: m.ControlFlowReceiver, MethodName: kind, Line: line(n), FullText: firstLine(n, src)})
			return true
		}

		if n.Type() != "call_expression" {
			return true
		}

		fn := n.ChildByFieldName("function")
		if fn == nil {
			return true
		}

		call := m.Call{Line: line(n), FullText: snippet(n, src)}

		switch fn.Type() {
		case "identifier":
			call.MethodName = text(fn, src)
		case "member_expression":
			call.MethodName = text(fn.ChildByFieldName("property"), src)
			call.ObjectName = resolveRoot(e.chain(fn.ChildByFieldName("object"), src))
		}

		if call.MethodName != "" {
			calls = append(calls, call)
		}

		return true
	})

	return calls
}

func (e *ECMAScript) chain(n *sitter.Node, src []byte) []string {
	if n == nil {
		return nil
	}

	switch n.Type() {
	case "identifier", "this", "super":
		return []string{text(n, src)}
	case "member_expression":
		return append(e.chain(n.ChildByFieldName("object"), src), text(n.ChildByFieldName("property"), src))
	case "call_expression":
		fn := n.ChildByFieldName("function")
		if fn != nil && fn.Type() == "member_expression" {
			return e.chain(fn.ChildByFieldName("object"), src)
		}

		return e.chain(fn, src)
	case "subscript_expression":
		return e.chain(n.ChildByFieldName("object"), src)
	case "parenthesized_expression", "await_expression", "non_null_expression", "as_expression":
		if children := namedChildren(n); len(children) > 0 {
			return e.chain(children[0], src)
		}
	}

	return nil
}

func (e *ECMAScript) extractStrings(root *sitter.Node, src []byte) []m.StringLiteral {
	var literals []m.StringLiteral

	walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "import_statement":
			return false
		case "string", "template_string":
			literals = append(literals, m.StringLiteral{Value: unquote(text(n, src)), Line: line(n)})
			return false
		}

		return true
	})

	return literals
}

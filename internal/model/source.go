// Package model defines the data structures shared by the front-ends, the
// classifier, the checkers and the reporters.
package model

import (
	"path/filepath"
	"strings"
)

// Path represents a file system path.
type Path string

// Base returns the last element of the path.
func (p Path) Base() string {
	return filepath.Base(string(p))
}

// Ext returns the lower-cased file extension, including the dot.
func (p Path) Ext() string {
	return strings.ToLower(filepath.Ext(string(p)))
}

// Slash returns the path with forward slashes, which is what every path
// heuristic matches against.
func (p Path) Slash() string {
	return filepath.ToSlash(string(p))
}

// Language tags the source language a ParseResult was produced from.
type Language string

const (
	LangPython     Language = "python"
	LangJava       Language = "java"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangCSharp     Language = "csharp"
	LangGherkin    Language = "gherkin"
	LangUnknown    Language = "unknown"
)

// Receivers used by front-ends to mark statements that are not real calls but
// that checkers need to see on the same line-indexed list.
const (
	// ControlFlowReceiver marks if/for/while/switch/try statements.
	ControlFlowReceiver = "<control>"
	// AssertReceiver marks language-level assert statements.
	AssertReceiver = "<assert>"
	// StepReceiver marks Gherkin steps; MethodName holds the effective
	// keyword (given, when, then).
	StepReceiver = "<step>"
)

// MaxSnippetLen bounds Call.FullText.
const MaxSnippetLen = 200

// Import is one import/using/require statement.
type Import struct {
	Module string
	Alias  string
	Line   int
}

// Root returns the first segment of the module path.
func (i Import) Root() string {
	module := strings.TrimPrefix(i.Module, "@")
	for idx, r := range module {
		if r == '.' || r == '/' || r == ':' {
			if strings.HasPrefix(i.Module, "@") {
				return "@" + module[:idx]
			}

			return module[:idx]
		}
	}

	return i.Module
}

// Function is a top-level function or a class method.
type Function struct {
	Name      string
	LineStart int
	LineEnd   int
	// Decorators holds decorator, annotation or attribute names in source
	// order, deduplicated.
	Decorators []string
	// DecoratorArgs maps a decorator name to its first string argument.
	DecoratorArgs map[string]string
	Parameters    []string
	IsAsync       bool
}

// HasDecorator reports whether any decorator matches name, ignoring case.
// Dotted decorators also match on their last segment, so "pytest.mark.smoke"
// matches "smoke".
func (f Function) HasDecorator(name string) bool {
	_, ok := f.Decorator(name)
	return ok
}

// Decorator returns the first decorator matching name the way HasDecorator
// does.
func (f Function) Decorator(name string) (string, bool) {
	for _, d := range f.Decorators {
		if strings.EqualFold(d, name) || strings.EqualFold(LastSegment(d), name) {
			return d, true
		}
	}

	return "", false
}

// LastSegment returns the part of a dotted name after the last dot.
func LastSegment(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx+1:]
	}

	return name
}

// Contains reports whether line falls inside the function body.
func (f Function) Contains(line int) bool {
	return line >= f.LineStart && line <= f.LineEnd
}

// Class is a class declaration together with its methods.
type Class struct {
	Name        string
	LineStart   int
	LineEnd     int
	Methods     []Function
	BaseClasses []string
}

// IsPageObject is true when the class name or any base name mentions "Page".
func (c Class) IsPageObject() bool {
	if strings.Contains(c.Name, "Page") {
		return true
	}

	for _, base := range c.BaseClasses {
		if strings.Contains(base, "Page") {
			return true
		}
	}

	return false
}

// Call is a call expression with its resolved root receiver.
type Call struct {
	ObjectName string
	MethodName string
	Line       int
	FullText   string
}

// IsMarker reports whether the call is a synthetic statement marker.
func (c Call) IsMarker() bool {
	return c.ObjectName == ControlFlowReceiver || c.ObjectName == AssertReceiver || c.ObjectName == StepReceiver
}

// StringLiteral is a string or template literal.
type StringLiteral struct {
	Value string
	Line  int
}

// ParseResult is what every front-end emits for one file.
type ParseResult struct {
	Language    Language
	Imports     []Import
	Classes     []Class
	Functions   []Function
	Calls       []Call
	Strings     []StringLiteral
	ParseErrors []string
}

// NewErrorResult returns an otherwise empty result carrying one parse error.
func NewErrorResult(lang Language, err error) *ParseResult {
	return &ParseResult{
		Language:    lang,
		ParseErrors: []string{err.Error()},
	}
}

// HasErrors reports whether the front-end recorded any parse error.
func (r *ParseResult) HasErrors() bool {
	return r != nil && len(r.ParseErrors) > 0
}

// Methods returns every class method in class order.
func (r *ParseResult) Methods() []Function {
	if r == nil {
		return nil
	}

	var methods []Function
	for _, class := range r.Classes {
		methods = append(methods, class.Methods...)
	}

	return methods
}

// AllFunctions returns top-level functions followed by every class method.
func (r *ParseResult) AllFunctions() []Function {
	if r == nil {
		return nil
	}

	all := make([]Function, 0, len(r.Functions))
	all = append(all, r.Functions...)

	for _, class := range r.Classes {
		all = append(all, class.Methods...)
	}

	return all
}

// CallsWithin returns the calls located inside fn, in source order.
func (r *ParseResult) CallsWithin(fn Function) []Call {
	if r == nil {
		return nil
	}

	var calls []Call

	for _, call := range r.Calls {
		if fn.Contains(call.Line) {
			calls = append(calls, call)
		}
	}

	return calls
}

// StringsWithin returns the string literals located inside fn.
func (r *ParseResult) StringsWithin(fn Function) []StringLiteral {
	if r == nil {
		return nil
	}

	var literals []StringLiteral

	for _, literal := range r.Strings {
		if fn.Contains(literal.Line) {
			literals = append(literals, literal)
		}
	}

	return literals
}

// Truncate bounds s to MaxSnippetLen bytes without splitting a rune.
func Truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= MaxSnippetLen {
		return s
	}

	cut := MaxSnippetLen
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}

	return s[:cut] + "..."
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

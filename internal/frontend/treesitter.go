//go:build cgo

package frontend

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

func treeSitterFrontends() []Frontend {
	return []Frontend{
		NewPython(),
		NewJava(),
		NewJavaScript(),
		NewTypeScript(),
		NewTSX(),
		NewCSharp(),
	}
}

// selfNames are receivers that refer to the enclosing instance.
var selfNames = map[string]bool{
	"self":  true,
	"this":  true,
	"cls":   true,
	"base":  true,
	"super": true,
}

// parseTree parses src and rejects trees containing syntax errors.
func parseTree(ctx context.Context, lang *sitter.Language, src []byte) (*sitter.Node, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("parse error: empty tree")
	}

	if root.HasError() {
		return nil, syntaxError(root)
	}

	return root, nil
}

// syntaxError locates the first ERROR or MISSING node for the message.
func syntaxError(root *sitter.Node) error {
	var bad *sitter.Node

	walk(root, func(n *sitter.Node) bool {
		if bad != nil {
			return false
		}

		if n.Type() == "ERROR" || n.IsMissing() {
			bad = n
			return false
		}

		return n.HasError()
	})

	if bad == nil {
		return fmt.Errorf("syntax error")
	}

	return fmt.Errorf("syntax error at line %d", line(bad))
}

// walk visits n and its descendants depth-first, pre-order. Returning false
// from fn skips the children of the visited node.
func walk(n *sitter.Node, fn func(*sitter.Node) bool) {
	if n == nil {
		return
	}

	if !fn(n) {
		return
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), fn)
	}
}

func text(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}

	return n.Content(src)
}

func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

func endLine(n *sitter.Node) int {
	return int(n.EndPoint().Row) + 1
}

func snippet(n *sitter.Node, src []byte) string {
	return m.Truncate(text(n, src))
}

// firstLine returns the first source line of n, used for statement markers.
func firstLine(n *sitter.Node, src []byte) string {
	s := text(n, src)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}

	return m.Truncate(s)
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}

	children := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child != nil {
			children = append(children, child)
		}
	}

	return children
}

// childOfType returns the first direct child whose type is one of types.
func childOfType(n *sitter.Node, types ...string) *sitter.Node {
	if n == nil {
		return nil
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}

		for _, t := range types {
			if child.Type() == t {
				return child
			}
		}
	}

	return nil
}

// hasToken reports whether n has a direct (usually anonymous) child whose
// source text equals token, e.g. the async keyword.
func hasToken(n *sitter.Node, src []byte, token string) bool {
	if n == nil {
		return false
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}

		if child.Type() == token {
			return true
		}

		if (!child.IsNamed() || child.Type() == "modifier" || child.Type() == "modifiers") && strings.Contains(" "+text(child, src)+" ", " "+token+" ") {
			return true
		}
	}

	return false
}

// firstDescendant returns the first node of one of types under n, n included.
func firstDescendant(n *sitter.Node, types ...string) *sitter.Node {
	var found *sitter.Node

	walk(n, func(c *sitter.Node) bool {
		if found != nil {
			return false
		}

		for _, t := range types {
			if c.Type() == t {
				found = c
				return false
			}
		}

		return true
	})

	return found
}

// resolveRoot turns a receiver chain (outermost identifier first) into the
// root receiver name, eliding a leading self/this.
func resolveRoot(chain []string) string {
	if len(chain) == 0 {
		return ""
	}

	if selfNames[chain[0]] && len(chain) > 1 {
		return chain[1]
	}

	return chain[0]
}

// decoratorSet accumulates decorator names in order, deduplicated by name.
type decoratorSet struct {
	names []string
	args  map[string]string
}

func (d *decoratorSet) add(name, arg string) {
	name = strings.TrimSpace(strings.TrimPrefix(name, "@"))
	if name == "" {
		return
	}

	for _, existing := range d.names {
		if existing == name {
			return
		}
	}

	d.names = append(d.names, name)

	if arg != "" {
		if d.args == nil {
			d.args = make(map[string]string)
		}

		d.args[name] = arg
	}
}

// unquote strips prefixes and quotes from a string literal token.
func unquote(raw string) string {
	s := strings.TrimSpace(raw)

	// Prefixes: python r/b/f/u combos, C# @ and $, TS/JS none.
	for len(s) > 0 && strings.ContainsRune("rRbBfFuU@$", rune(s[0])) {
		s = s[1:]
	}

	for _, q := range []string{`"""`, `'''`} {
		if len(s) >= 6 && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			return s[3 : len(s)-3]
		}
	}

	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'' || first == '`') && first == last {
			return s[1 : len(s)-1]
		}
	}

	return s
}

// stripTypeArgs removes generic arguments: "BasePage<T>" -> "BasePage".
func stripTypeArgs(name string) string {
	if idx := strings.IndexByte(name, '<'); idx >= 0 {
		return strings.TrimSpace(name[:idx])
	}

	return strings.TrimSpace(name)
}

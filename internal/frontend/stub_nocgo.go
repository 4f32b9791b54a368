//go:build !cgo

package frontend

import (
	"context"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

// stub stands in for a tree-sitter front-end in non-CGO builds.
type stub struct {
	lang m.Language
	exts []string
}

func (s stub) Language() m.Language { return s.lang }
func (s stub) Extensions() []string { return s.exts }

func (s stub) Parse(_ context.Context, _ []byte) *m.ParseResult {
	return m.NewErrorResult(s.lang, ErrNoCGO)
}

func treeSitterFrontends() []Frontend {
	return []Frontend{
		stub{lang: m.LangPython, exts: pythonExtensions},
		stub{lang: m.LangJava, exts: javaExtensions},
		stub{lang: m.LangJavaScript, exts: javaScriptExtensions},
		stub{lang: m.LangTypeScript, exts: typeScriptExtensions},
		stub{lang: m.LangTypeScript, exts: tsxExtensions},
		stub{lang: m.LangCSharp, exts: cSharpExtensions},
	}
}

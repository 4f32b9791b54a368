package domain

import (
	"log/slog"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

// Classifier decides which role a file plays in the test architecture.
type Classifier interface {
	Classify(path m.Path, src []byte, pr *m.ParseResult) m.Classification
}

const (
	importScore      = 5
	codePatternScore = 2
	apiPathScore     = 3
)

// apiCodePatterns are textual hints of HTTP response handling.
var apiCodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.status_code\b`),
	regexp.MustCompile(`\.(statusCode|getStatusCode|StatusCode)\b`),
	regexp.MustCompile(`\.json\(\s*\)`),
	regexp.MustCompile(`\b(requests|httpx|session|client|axios|request|api)\.(get|post|put|patch|delete|head|options)\s*\(`),
	regexp.MustCompile(`(?i)["']content-type["']`),
	regexp.MustCompile(`application/json`),
}

var apiPathHints = []string{"/api/", "/apis/", "/rest/", "/endpoints/", "/contract/", "api_test", "_api.", "api.test.", "api.spec."}

var pageObjectDirs = map[string]bool{
	"pages":        true,
	"page_objects": true,
	"pageobjects":  true,
	"page-objects": true,
	"screens":      true,
}

var pageObjectSuffixes = []string{"page", "_po", ".po", "screen"}

var testDirs = map[string]bool{
	"test":      true,
	"tests":     true,
	"__tests__": true,
	"spec":      true,
	"specs":     true,
	"e2e":       true,
}

type classifier struct {
	apiPatterns []string
}

// NewClassifier creates a Classifier. Paths matching one of apiTestPatterns
// (doublestar globs against the slash-separated path) are always api.
func NewClassifier(apiTestPatterns []string) Classifier {
	return &classifier{apiPatterns: apiTestPatterns}
}

func (c *classifier) Classify(filePath m.Path, src []byte, pr *m.ParseResult) m.Classification {
	if pr == nil {
		pr = &m.ParseResult{Language: m.LangUnknown}
	}

	set := frameworksByLanguage[pr.Language]

	var (
		cls            m.Classification
		frameworks     = map[string]bool{}
		hasTestImports bool
	)

	for _, imp := range pr.Imports {
		if matchAny(imp, set.api) {
			cls.APIScore += importScore
		}

		for _, ui := range set.ui {
			if matchModule(imp, ui.module) {
				cls.UIScore += importScore
				frameworks[ui.framework] = true

				break
			}
		}

		if matchAny(imp, set.bdd) {
			cls.IsBDD = true
		}

		if matchAny(imp, set.test) {
			hasTestImports = true
		}
	}

	text := string(src)
	for _, pattern := range apiCodePatterns {
		if pattern.MatchString(text) {
			cls.APIScore += codePatternScore
		}
	}

	slashPath := "/" + strings.ToLower(filePath.Slash())
	for _, hint := range apiPathHints {
		if strings.Contains(slashPath, hint) {
			cls.APIScore += apiPathScore
		}
	}

	for name := range frameworks {
		cls.Frameworks = append(cls.Frameworks, name)
		if autoWaitingFrameworks[name] {
			cls.AutoWaiting = true
		}
	}

	slices.Sort(cls.Frameworks)

	if pr.Language == m.LangGherkin {
		cls.IsBDD = true
	}

	cls.IsPageObject = isPageObject(filePath, pr)
	cls.IsTestFile = isTestFile(filePath, pr)

	slog.Debug("Classified file", "path", filePath, "api_score", cls.APIScore, "ui_score", cls.UIScore,
		"page_object", cls.IsPageObject, "test_file", cls.IsTestFile, "test_imports", hasTestImports)

	cls.FileType = c.decide(filePath, pr, cls)

	return cls
}

// decide applies the role priority: page object, then UI evidence, then
// API evidence.
func (c *classifier) decide(filePath m.Path, pr *m.ParseResult, cls m.Classification) m.FileType {
	if c.forcedAPI(filePath) {
		return m.FileTypeAPI
	}

	switch {
	case cls.IsPageObject:
		return m.FileTypePageObject
	case cls.UIScore > 0:
		return m.FileTypeUI
	case cls.APIScore > 0:
		return m.FileTypeAPI
	case pr.Language == m.LangGherkin:
		return m.FileTypeBDDStep
	case cls.IsBDD && slices.ContainsFunc(pr.AllFunctions(), IsStepFunction):
		return m.FileTypeBDDStep
	}

	return m.FileTypeUnknown
}

func (c *classifier) forcedAPI(filePath m.Path) bool {
	for _, pattern := range c.apiPatterns {
		ok, err := doublestar.Match(pattern, filePath.Slash())
		if err != nil {
			slog.Warn("Invalid api_test_patterns glob", "pattern", pattern, "error", err)
			continue
		}

		if ok {
			return true
		}
	}

	return false
}

// isPageObject combines the structural signal with the path heuristic. A
// test directory anywhere in the path disables the path heuristic.
func isPageObject(filePath m.Path, pr *m.ParseResult) bool {
	if slices.ContainsFunc(pr.Classes, m.Class.IsPageObject) {
		return true
	}

	if pr.Language == m.LangGherkin || inTestDir(filePath) {
		return false
	}

	for _, dir := range dirSegments(filePath) {
		if pageObjectDirs[strings.ToLower(dir)] {
			return true
		}
	}

	stem := strings.ToLower(strings.TrimSuffix(filePath.Base(), path.Ext(filePath.Base())))
	for _, suffix := range pageObjectSuffixes {
		if strings.HasSuffix(stem, suffix) {
			return true
		}
	}

	return false
}

func inTestDir(filePath m.Path) bool {
	for _, dir := range dirSegments(filePath) {
		if testDirs[strings.ToLower(dir)] {
			return true
		}
	}

	return false
}

func dirSegments(filePath m.Path) []string {
	segments := strings.Split(filePath.Slash(), "/")
	if len(segments) == 0 {
		return nil
	}

	return segments[:len(segments)-1]
}

// isTestFile applies the per-language naming convention, then falls back to
// looking for a test-marked function.
func isTestFile(filePath m.Path, pr *m.ParseResult) bool {
	base := filePath.Base()
	lower := strings.ToLower(base)

	switch pr.Language {
	case m.LangPython:
		if strings.HasPrefix(lower, "test_") || strings.HasSuffix(lower, "_test.py") {
			return true
		}
	case m.LangJava:
		stem := strings.TrimSuffix(base, ".java")
		if strings.HasSuffix(stem, "Test") || strings.HasSuffix(stem, "Tests") || strings.HasSuffix(stem, "IT") || strings.HasPrefix(stem, "Test") {
			return true
		}
	case m.LangJavaScript, m.LangTypeScript:
		for _, marker := range []string{".test.", ".spec.", ".cy.", ".e2e."} {
			if strings.Contains(lower, marker) {
				return true
			}
		}

		if slices.Contains(dirSegments(filePath), "__tests__") {
			return true
		}
	case m.LangCSharp:
		stem := strings.TrimSuffix(base, ".cs")
		if strings.HasSuffix(stem, "Test") || strings.HasSuffix(stem, "Tests") {
			return true
		}
	case m.LangGherkin:
		return false
	}

	for _, fn := range pr.AllFunctions() {
		if IsTestFunction(pr.Language, fn) {
			return true
		}
	}

	return false
}

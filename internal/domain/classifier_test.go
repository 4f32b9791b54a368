package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

func imports(modules ...string) []m.Import {
	out := make([]m.Import, 0, len(modules))
	for i, module := range modules {
		out = append(out, m.Import{Module: module, Line: i + 1})
	}

	return out
}

func TestClassifier_FileType(t *testing.T) {
	tests := []struct {
		name     string
		path     m.Path
		src      string
		pr       *m.ParseResult
		patterns []string
		want     m.FileType
	}{
		{
			name: "ui evidence wins over api evidence",
			path: "tests/test_checkout.py",
			src:  "resp = requests.get(url)\nassert resp.status_code == 200\n",
			pr: &m.ParseResult{
				Language:  m.LangPython,
				Imports:   imports("requests", "selenium.webdriver"),
				Functions: []m.Function{{Name: "test_checkout", LineStart: 3, LineEnd: 9}},
			},
			want: m.FileTypeUI,
		},
		{
			name: "page object by base class",
			path: "src/login.py",
			pr: &m.ParseResult{
				Language: m.LangPython,
				Imports:  imports("selenium.webdriver.common.by"),
				Classes:  []m.Class{{Name: "Login", BaseClasses: []string{"BasePage"}}},
			},
			want: m.FileTypePageObject,
		},
		{
			name: "page object by directory",
			path: "pages/cart.py",
			pr:   &m.ParseResult{Language: m.LangPython},
			want: m.FileTypePageObject,
		},
		{
			name: "page object by file suffix",
			path: "src/main/java/com/shop/CheckoutPage.java",
			pr:   &m.ParseResult{Language: m.LangJava},
			want: m.FileTypePageObject,
		},
		{
			name: "api by imports and path",
			path: "tests/api/test_users.py",
			src:  "r = requests.post(url, json=body)\n",
			pr: &m.ParseResult{
				Language: m.LangPython,
				Imports:  imports("requests", "pytest"),
			},
			want: m.FileTypeAPI,
		},
		{
			name: "configured api pattern overrides ui evidence",
			path: "tests/contract/test_orders.py",
			pr: &m.ParseResult{
				Language: m.LangPython,
				Imports:  imports("playwright.sync_api"),
			},
			patterns: []string{"tests/contract/**"},
			want:     m.FileTypeAPI,
		},
		{
			name: "feature file",
			path: "features/login.feature",
			pr:   &m.ParseResult{Language: m.LangGherkin},
			want: m.FileTypeBDDStep,
		},
		{
			name: "step definitions",
			path: "features/steps/login_steps.py",
			pr: &m.ParseResult{
				Language: m.LangPython,
				Imports:  imports("behave"),
				Functions: []m.Function{{
					Name:          "step_open",
					Decorators:    []string{"given"},
					DecoratorArgs: map[string]string{"given": "I am on the login page"},
				}},
			},
			want: m.FileTypeBDDStep,
		},
		{
			name: "nothing recognisable",
			path: "utils/strings.py",
			pr:   &m.ParseResult{Language: m.LangPython, Imports: imports("os", "re")},
			want: m.FileTypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := NewClassifier(tt.patterns).Classify(tt.path, []byte(tt.src), tt.pr)
			assert.Equal(t, tt.want, cls.FileType)
		})
	}
}

func TestClassifier_Scores(t *testing.T) {
	pr := &m.ParseResult{
		Language: m.LangPython,
		Imports:  imports("requests", "selenium.webdriver"),
	}
	src := "r = requests.get(url)\nr.status_code\n"

	cls := NewClassifier(nil).Classify("tests/api/test_mixed.py", []byte(src), pr)

	// requests import, two code patterns, one path hint.
	assert.Equal(t, importScore+2*codePatternScore+apiPathScore, cls.APIScore)
	assert.Equal(t, importScore, cls.UIScore)
	assert.Equal(t, []string{"selenium"}, cls.Frameworks)
	assert.False(t, cls.AutoWaiting)
	assert.True(t, cls.IsTestFile)
}

func TestClassifier_AutoWaitingFrameworks(t *testing.T) {
	pr := &m.ParseResult{
		Language: m.LangTypeScript,
		Imports:  imports("@playwright/test"),
	}

	cls := NewClassifier(nil).Classify("e2e/login.spec.ts", nil, pr)

	assert.Equal(t, m.FileTypeUI, cls.FileType)
	assert.Contains(t, cls.Frameworks, "playwright")
	assert.True(t, cls.AutoWaiting)
	assert.True(t, cls.IsTestFile)
}

func TestClassifier_GherkinIsBDD(t *testing.T) {
	cls := NewClassifier(nil).Classify("features/cart.feature", nil, &m.ParseResult{Language: m.LangGherkin})

	assert.True(t, cls.IsBDD)
	assert.False(t, cls.IsPageObject)
	assert.False(t, cls.IsTestFile)
}

func TestClassifier_NilParseResult(t *testing.T) {
	cls := NewClassifier(nil).Classify("broken.py", nil, nil)
	assert.Equal(t, m.FileTypeUnknown, cls.FileType)
}

func TestIsPageObject_TestDirDisablesPathHeuristic(t *testing.T) {
	pr := &m.ParseResult{Language: m.LangPython}

	assert.True(t, isPageObject("pages/home_page.py", pr))
	assert.False(t, isPageObject("tests/pages/test_home_page.py", pr))
	assert.False(t, isPageObject("tests/test_homepage.py", pr))

	structural := &m.ParseResult{Language: m.LangPython, Classes: []m.Class{{Name: "HomePage"}}}
	assert.True(t, isPageObject("tests/support/home.py", structural))
}

func TestIsTestFile(t *testing.T) {
	tests := []struct {
		path m.Path
		lang m.Language
		want bool
	}{
		{"tests/test_login.py", m.LangPython, true},
		{"tests/login_test.py", m.LangPython, true},
		{"tests/conftest.py", m.LangPython, false},
		{"src/test/java/LoginTest.java", m.LangJava, true},
		{"src/test/java/CheckoutIT.java", m.LangJava, true},
		{"src/test/java/TestUtils.java", m.LangJava, true},
		{"src/main/java/Login.java", m.LangJava, false},
		{"e2e/login.spec.ts", m.LangTypeScript, true},
		{"cypress/e2e/login.cy.js", m.LangJavaScript, true},
		{"src/__tests__/login.js", m.LangJavaScript, true},
		{"src/login.js", m.LangJavaScript, false},
		{"Tests/LoginTests.cs", m.LangCSharp, true},
		{"Pages/LoginPage.cs", m.LangCSharp, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.path), func(t *testing.T) {
			assert.Equal(t, tt.want, isTestFile(tt.path, &m.ParseResult{Language: tt.lang}))
		})
	}
}

func TestIsTestFile_FallsBackToTestFunctions(t *testing.T) {
	pr := &m.ParseResult{
		Language: m.LangJava,
		Classes: []m.Class{{
			Name:    "Checkout",
			Methods: []m.Function{{Name: "placesOrder", Decorators: []string{"Test"}}},
		}},
	}

	assert.True(t, isTestFile("src/Checkout.java", pr))
}

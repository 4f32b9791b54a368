package checkers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

func loginPage(calls ...m.Call) *m.ParseResult {
	return &m.ParseResult{
		Language: m.LangPython,
		Classes: []m.Class{{
			Name: "LoginPage", LineStart: 1, LineEnd: 30,
			Methods: []m.Function{
				{Name: "submit", LineStart: 2, LineEnd: 10},
				{Name: "is_logged_in", LineStart: 11, LineEnd: 30},
			},
		}},
		Calls: calls,
	}
}

func TestAdaptationChecker_AssertionInPageObject(t *testing.T) {
	pr := loginPage(
		m.Call{ObjectName: m.AssertReceiver, MethodName: "assert", Line: 12, FullText: `assert self.title == "Home"`},
		m.Call{ObjectName: "self", MethodName: "assertTrue", Line: 13},
		m.Call{ObjectName: "self", MethodName: "assertEqual", Line: 13},
	)

	violations, err := NewAdaptationChecker(NewLocatorRegistry()).Check("pages/login_page.py", pr, pageObject)
	require.NoError(t, err)

	require.Len(t, violations, 2)
	for _, v := range violations {
		assert.Equal(t, m.ViolationAssertionInPageObject, v.Type)
		assert.Equal(t, m.SeverityHigh, v.Severity)
	}
}

func TestAdaptationChecker_ForbiddenImports(t *testing.T) {
	pr := loginPage()
	pr.Imports = []m.Import{
		{Module: "pytest", Line: 1},
		{Module: "selenium.webdriver.common.by", Line: 2},
		{Module: "unittest", Line: 3},
	}

	violations, err := NewAdaptationChecker(NewLocatorRegistry()).Check("pages/login_page.py", pr, pageObject)
	require.NoError(t, err)

	require.Len(t, violations, 2)
	assert.Equal(t, []m.ViolationType{m.ViolationForbiddenImport, m.ViolationForbiddenImport}, typesOf(violations))
	assert.Equal(t, 1, violations[0].LineNumber)
	assert.Equal(t, 3, violations[1].LineNumber)
}

func TestAdaptationChecker_BusinessLogicOncePerMethod(t *testing.T) {
	pr := loginPage(
		m.Call{ObjectName: m.ControlFlowReceiver, MethodName: "if", Line: 3, FullText: "if self.remember:"},
		m.Call{ObjectName: m.ControlFlowReceiver, MethodName: "for", Line: 5},
		m.Call{ObjectName: "WebDriverWait", MethodName: "until", Line: 4},
	)

	violations, err := NewAdaptationChecker(NewLocatorRegistry()).Check("pages/login_page.py", pr, pageObject)
	require.NoError(t, err)

	require.Len(t, violations, 1)
	assert.Equal(t, m.ViolationBusinessLogicInPageObject, violations[0].Type)
	assert.Equal(t, 3, violations[0].LineNumber)
	assert.Contains(t, violations[0].Message, "if, for")
}

func TestAdaptationChecker_DuplicateLocatorAttributedToLaterFile(t *testing.T) {
	locators := NewLocatorRegistry()
	checker := NewAdaptationChecker(locators)

	first := &m.ParseResult{
		Language: m.LangPython,
		Strings:  []m.StringLiteral{{Value: "#username", Line: 4}, {Value: "Welcome", Line: 5}},
	}
	second := &m.ParseResult{
		Language: m.LangPython,
		Strings:  []m.StringLiteral{{Value: "#username", Line: 8}, {Value: "#username", Line: 12}},
	}

	checker.Index("pages/login_page.py", first, pageObject)
	checker.Index("pages/signup_page.py", second, pageObject)
	checker.Index("tests/test_login.py", &m.ParseResult{Strings: []m.StringLiteral{{Value: "#username", Line: 1}}}, testFile)

	violations, err := checker.Check("pages/login_page.py", first, pageObject)
	require.NoError(t, err)
	assert.Empty(t, violations)

	violations, err = checker.Check("pages/signup_page.py", second, pageObject)
	require.NoError(t, err)
	require.Len(t, violations, 1)

	v := violations[0]
	assert.Equal(t, m.ViolationDuplicateLocator, v.Type)
	assert.Equal(t, m.Path("pages/signup_page.py"), v.FilePath)
	assert.Equal(t, 8, v.LineNumber)
	assert.Contains(t, v.Message, "pages/login_page.py:4")
}

func TestAdaptationChecker_MissingWaitStrategy(t *testing.T) {
	checker := NewAdaptationChecker(NewLocatorRegistry())

	noWait := loginPage(
		m.Call{ObjectName: "driver", MethodName: "find_element", Line: 3},
		m.Call{ObjectName: "driver", MethodName: "click", Line: 4, FullText: "self.driver.find_element(*self.BTN).click()"},
		m.Call{ObjectName: "driver", MethodName: "send_keys", Line: 5},
	)

	violations, err := checker.Check("pages/login_page.py", noWait, pageObject)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, m.ViolationMissingWaitStrategy, violations[0].Type)
	assert.Equal(t, 4, violations[0].LineNumber)

	withWait := loginPage(
		m.Call{ObjectName: "WebDriverWait", MethodName: "until", Line: 3},
		m.Call{ObjectName: "driver", MethodName: "click", Line: 4},
	)

	violations, err = checker.Check("pages/login_page.py", withWait, pageObject)
	require.NoError(t, err)
	assert.Empty(t, violations)

	autoWaiting := pageObject
	autoWaiting.AutoWaiting = true

	violations, err = checker.Check("pages/login_page.py", noWait, autoWaiting)
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestAdaptationChecker_SkipsNonPageObjects(t *testing.T) {
	pr := loginPage(m.Call{ObjectName: m.AssertReceiver, MethodName: "assert", Line: 12})

	violations, err := NewAdaptationChecker(NewLocatorRegistry()).Check("tests/test_login.py", pr, testFile)
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestAdaptationChecker_ModuleLevelHelpersAreNotMethods(t *testing.T) {
	pr := loginPage(
		m.Call{ObjectName: m.AssertReceiver, MethodName: "assert", Line: 34, FullText: "assert locator"},
		m.Call{ObjectName: m.ControlFlowReceiver, MethodName: "if", Line: 35, FullText: "if not locator:"},
		m.Call{ObjectName: m.AssertReceiver, MethodName: "assert", Line: 12, FullText: `assert self.title == "Home"`},
	)
	pr.Functions = []m.Function{{Name: "require_locator", LineStart: 33, LineEnd: 36}}

	violations, err := NewAdaptationChecker(NewLocatorRegistry()).Check("pages/login_page.py", pr, pageObject)
	require.NoError(t, err)

	require.Len(t, violations, 1)
	assert.Equal(t, m.ViolationAssertionInPageObject, violations[0].Type)
	assert.Equal(t, 12, violations[0].LineNumber)
}

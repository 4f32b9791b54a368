package checkers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tafscan.dev/pkg/tafscan/internal/frontend"
	m "tafscan.dev/pkg/tafscan/internal/model"
)

func step(keyword string, line int, text string) m.Call {
	return m.Call{ObjectName: m.StepReceiver, MethodName: keyword, Line: line, FullText: text}
}

func TestBDDChecker_MissingThenStep(t *testing.T) {
	pr := &m.ParseResult{
		Language: m.LangGherkin,
		Functions: []m.Function{
			{Name: "Successful login", LineStart: 3, LineEnd: 6},
			{Name: "Browse catalogue", LineStart: 8, LineEnd: 10},
		},
		Calls: []m.Call{
			step(frontend.KeywordGiven, 4, "I am on the login page"),
			step(frontend.KeywordWhen, 5, "I log in"),
			step(frontend.KeywordThen, 6, "I see my dashboard"),
			step(frontend.KeywordGiven, 9, "I am on the home page"),
			step(frontend.KeywordWhen, 10, "I open the catalogue"),
		},
	}

	violations, err := NewBDDChecker(NewStepRegistry()).Check("features/shop.feature", pr, m.Classification{IsBDD: true})
	require.NoError(t, err)

	require.Len(t, violations, 1)
	assert.Equal(t, m.ViolationMissingThenStep, violations[0].Type)
	assert.Equal(t, 8, violations[0].LineNumber)
	assert.Contains(t, violations[0].Message, "Browse catalogue")
}

func TestBDDChecker_ImplementationDetailInFeature(t *testing.T) {
	pr := &m.ParseResult{
		Language:  m.LangGherkin,
		Functions: []m.Function{{Name: "Login", LineStart: 2, LineEnd: 5}},
		Calls:     []m.Call{step(frontend.KeywordThen, 5, "I see the dashboard")},
		Strings: []m.StringLiteral{
			{Value: "I open https://shop.test/login", Line: 3},
			{Value: `I click "//button[@id='submit']"`, Line: 4},
			{Value: "I see the dashboard", Line: 5},
		},
	}

	violations, err := NewBDDChecker(NewStepRegistry()).Check("features/login.feature", pr, m.Classification{IsBDD: true})
	require.NoError(t, err)

	require.Len(t, violations, 2)
	assert.Equal(t, m.ViolationGherkinImplementation, violations[0].Type)
	assert.Contains(t, violations[0].Message, "URL")
	assert.Contains(t, violations[1].Message, "XPath")
}

func stepDefinition(name, keyword, pattern string, start, end int) m.Function {
	return m.Function{
		Name:          name,
		LineStart:     start,
		LineEnd:       end,
		Decorators:    []string{keyword},
		DecoratorArgs: map[string]string{keyword: pattern},
	}
}

func TestBDDChecker_StepDefinitions(t *testing.T) {
	steps := NewStepRegistry()
	checker := NewBDDChecker(steps)

	login := &m.ParseResult{
		Language: m.LangPython,
		Functions: []m.Function{
			stepDefinition("open_login", "given", "I am on the  login page", 3, 5),
			stepDefinition("submit", "when", "I submit the form", 7, 7+MaxStepSpan+1),
		},
		Calls: []m.Call{
			{ObjectName: "context", MethodName: "get", Line: 4, FullText: `context.driver.get(BASE_URL)`},
			{ObjectName: "context", MethodName: "login_page", Line: 8, FullText: `context.login_page.submit()`},
		},
	}
	shared := &m.ParseResult{
		Language: m.LangPython,
		Functions: []m.Function{
			stepDefinition("open_login_again", "given", "I am on the login page", 2, 3),
		},
	}

	checker.Index("features/steps/login_steps.py", login, stepsFile)
	checker.Index("features/steps/shared_steps.py", shared, stepsFile)

	violations, err := checker.Check("features/steps/login_steps.py", login, stepsFile)
	require.NoError(t, err)
	assert.Equal(t, []m.ViolationType{m.ViolationStepDefinitionDirectCall, m.ViolationStepDefinitionTooComplex}, typesOf(violations))
	assert.Equal(t, 4, violations[0].LineNumber)
	assert.Equal(t, 7, violations[1].LineNumber)

	violations, err = checker.Check("features/steps/shared_steps.py", shared, stepsFile)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, m.ViolationDuplicateStepPattern, violations[0].Type)
	assert.Contains(t, violations[0].Message, "features/steps/login_steps.py:3")
}

func TestBDDChecker_IgnoresNonBDDCode(t *testing.T) {
	steps := NewStepRegistry()
	checker := NewBDDChecker(steps)

	// Reporting decorators such as @allure.step look like step definitions.
	pr := &m.ParseResult{
		Language:  m.LangPython,
		Functions: []m.Function{stepDefinition("open", "step", "Open the login page", 3, 40)},
		Calls:     []m.Call{{ObjectName: "driver", MethodName: "get", Line: 4}},
	}

	checker.Index("pages/login_page.py", pr, pageObject)
	assert.Zero(t, steps.seen.len())

	violations, err := checker.Check("pages/login_page.py", pr, pageObject)
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestNormalizePattern(t *testing.T) {
	assert.Equal(t, "I am on the login page", normalizePattern("  I am on the\tlogin   page "))
	assert.Empty(t, normalizePattern(""))
}

func TestBDDChecker_DirectCallNamesTheLookup(t *testing.T) {
	pr := &m.ParseResult{
		Language:  m.LangJavaScript,
		Functions: []m.Function{stepDefinition("Given", "Given", "I search for {string}", 3, 5)},
		Calls: []m.Call{
			{ObjectName: "cy", MethodName: "type", Line: 4, FullText: `cy.get("#q").type(term)`},
			{ObjectName: "cy", MethodName: "get", Line: 4, FullText: `cy.get("#q")`},
		},
	}

	violations, err := NewBDDChecker(NewStepRegistry()).Check("cypress/support/steps.js", pr, stepsFile)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, m.ViolationStepDefinitionDirectCall, violations[0].Type)
	assert.Contains(t, violations[0].Message, "cy.get")
	assert.Equal(t, `cy.get("#q")`, violations[0].CodeSnippet)
}

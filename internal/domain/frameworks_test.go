package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

func TestIsTestFrameworkImport(t *testing.T) {
	tests := []struct {
		name   string
		lang   m.Language
		module string
		want   bool
	}{
		{"pytest", m.LangPython, "pytest", true},
		{"unittest submodule", m.LangPython, "unittest.mock", true},
		{"selenium is not a test framework", m.LangPython, "selenium.webdriver", false},
		{"junit", m.LangJava, "org.junit.jupiter.api.Assertions", true},
		{"assertj", m.LangJava, "org.assertj.core.api.Assertions", true},
		{"playwright test runner drives the ui", m.LangTypeScript, "@playwright/test", false},
		{"jest globals", m.LangJavaScript, "@jest/globals", true},
		{"chai", m.LangJavaScript, "chai", true},
		{"nunit", m.LangCSharp, "NUnit.Framework", true},
		{"unknown language", m.LangGherkin, "pytest", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTestFrameworkImport(tt.lang, m.Import{Module: tt.module}))
		})
	}
}

func TestIsTestFunction(t *testing.T) {
	tests := []struct {
		name string
		lang m.Language
		fn   m.Function
		want bool
	}{
		{"python prefix", m.LangPython, m.Function{Name: "test_login"}, true},
		{"python helper", m.LangPython, m.Function{Name: "login"}, false},
		{"java annotation", m.LangJava, m.Function{Name: "login", Decorators: []string{"Test"}}, true},
		{"java bare test name", m.LangJava, m.Function{Name: "test"}, false},
		{"csharp fact", m.LangCSharp, m.Function{Name: "Login", Decorators: []string{"Fact"}}, true},
		{"jest it block", m.LangJavaScript, m.Function{Name: "logs in", Decorators: []string{"it"}}, true},
		{
			"step definitions are not tests",
			m.LangPython,
			m.Function{Name: "test_step", Decorators: []string{"when"}, DecoratorArgs: map[string]string{"when": "I log in"}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTestFunction(tt.lang, tt.fn))
		})
	}
}

func TestStepPattern(t *testing.T) {
	fn := m.Function{
		Name:          "step_impl",
		Decorators:    []string{"behave.then"},
		DecoratorArgs: map[string]string{"behave.then": "the cart has {count:d} items"},
	}

	assert.Equal(t, "the cart has {count:d} items", StepPattern(fn))
	assert.True(t, IsStepFunction(fn))
	assert.Empty(t, StepPattern(m.Function{Name: "plain"}))
}

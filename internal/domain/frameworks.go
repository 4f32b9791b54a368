package domain

import (
	"strings"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

// uiImport maps an import prefix to the automation framework it belongs to.
type uiImport struct {
	module    string
	framework string
}

// frameworkSet holds the import knowledge for one language.
type frameworkSet struct {
	api  []string
	ui   []uiImport // ordered: the first match wins
	bdd  []string
	test []string
	// testDecorators mark test-case functions.
	testDecorators []string
}

var frameworksByLanguage = map[m.Language]frameworkSet{
	m.LangPython: {
		api: []string{"requests", "httpx", "aiohttp", "urllib3", "http.client", "rest_framework.test", "fastapi.testclient", "starlette.testclient", "tavern", "pact"},
		ui: []uiImport{
			{"seleniumbase", "selenium"},
			{"selenium", "selenium"},
			{"playwright", "playwright"},
			{"appium", "appium"},
			{"pyppeteer", "puppeteer"},
			{"splinter", "splinter"},
			{"pywinauto", "pywinauto"},
		},
		bdd:            []string{"behave", "pytest_bdd", "radish", "lettuce"},
		test:           []string{"pytest", "unittest", "nose", "nose2", "hypothesis"},
		testDecorators: []string{"pytest.mark.parametrize", "parametrize"},
	},
	m.LangJava: {
		api: []string{"io.restassured", "org.apache.http", "okhttp3", "java.net.http", "org.springframework.web.client", "org.springframework.test.web", "retrofit2", "feign"},
		ui: []uiImport{
			{"io.appium", "appium"},
			{"com.codeborne.selenide", "selenide"},
			{"com.microsoft.playwright", "playwright"},
			{"org.openqa.selenium", "selenium"},
		},
		bdd:            []string{"io.cucumber", "cucumber.api", "org.jbehave"},
		test:           []string{"org.junit", "junit", "org.testng", "org.assertj", "org.hamcrest"},
		testDecorators: []string{"Test", "ParameterizedTest", "RepeatedTest", "TestFactory", "TestTemplate"},
	},
	m.LangJavaScript: ecmaFrameworks,
	m.LangTypeScript: ecmaFrameworks,
	m.LangCSharp: {
		api: []string{"RestSharp", "System.Net.Http", "Flurl", "Refit"},
		ui: []uiImport{
			{"OpenQA.Selenium.Appium", "appium"},
			{"OpenQA.Selenium", "selenium"},
			{"Microsoft.Playwright", "playwright"},
			{"Atata", "atata"},
		},
		bdd:            []string{"TechTalk.SpecFlow", "Reqnroll", "LightBDD"},
		test:           []string{"NUnit.Framework", "Xunit", "Microsoft.VisualStudio.TestTools.UnitTesting", "FluentAssertions", "Shouldly"},
		testDecorators: []string{"Test", "TestCase", "TestCaseSource", "Fact", "Theory", "TestMethod", "DataTestMethod"},
	},
}

var ecmaFrameworks = frameworkSet{
	api: []string{"axios", "supertest", "node-fetch", "got", "superagent", "pactum", "frisby", "@pact-foundation/pact"},
	ui: []uiImport{
		{"@playwright/test", "playwright"},
		{"playwright", "playwright"},
		{"cypress", "cypress"},
		{"selenium-webdriver", "selenium"},
		{"webdriverio", "webdriverio"},
		{"@wdio", "webdriverio"},
		{"puppeteer", "puppeteer"},
		{"testcafe", "testcafe"},
		{"protractor", "protractor"},
		{"nightwatch", "nightwatch"},
	},
	bdd:            []string{"@cucumber/cucumber", "cucumber", "playwright-bdd", "@badeball/cypress-cucumber-preprocessor", "jest-cucumber"},
	test:           []string{"jest", "@jest/globals", "mocha", "chai", "vitest", "jasmine", "@playwright/test", "ava"},
	testDecorators: []string{"it", "test", "specify"},
}

// autoWaitingFrameworks retry element lookups on their own.
var autoWaitingFrameworks = map[string]bool{
	"playwright":  true,
	"cypress":     true,
	"selenide":    true,
	"webdriverio": true,
	"testcafe":    true,
}

// stepDecorators mark BDD step definitions in every language.
var stepDecorators = []string{"given", "when", "then", "and", "but", "step"}

// matchModule reports whether an import refers to entry, either exactly,
// as a sub-module, or through its root segment.
func matchModule(imp m.Import, entry string) bool {
	module := imp.Module
	if module == entry || imp.Root() == entry {
		return true
	}

	for _, sep := range []string{".", "/", "::"} {
		if strings.HasPrefix(module, entry+sep) {
			return true
		}
	}

	return false
}

func matchAny(imp m.Import, entries []string) bool {
	for _, entry := range entries {
		if matchModule(imp, entry) {
			return true
		}
	}

	return false
}

// IsTestFrameworkImport reports whether imp pulls in a test runner or an
// assertion library that does not also drive the UI.
func IsTestFrameworkImport(lang m.Language, imp m.Import) bool {
	set := frameworksByLanguage[lang]
	if !matchAny(imp, set.test) {
		return false
	}

	for _, ui := range set.ui {
		if matchModule(imp, ui.module) {
			return false
		}
	}

	return true
}

// IsTestFunction reports whether fn is a test case in lang: a test-prefixed
// name or a test-marking decorator.
func IsTestFunction(lang m.Language, fn m.Function) bool {
	if IsStepFunction(fn) {
		return false
	}

	switch lang {
	case m.LangPython:
		if strings.HasPrefix(fn.Name, "test") {
			return true
		}
	case m.LangJava, m.LangCSharp:
		if strings.HasPrefix(fn.Name, "test") && len(fn.Name) > len("test") {
			return true
		}
	}

	for _, decorator := range frameworksByLanguage[lang].testDecorators {
		if fn.HasDecorator(decorator) {
			return true
		}
	}

	return false
}

// IsStepFunction reports whether fn implements a BDD step.
func IsStepFunction(fn m.Function) bool {
	return StepPattern(fn) != "" || hasAnyDecorator(fn, stepDecorators)
}

// StepPattern returns the pattern text of a step definition, or "".
func StepPattern(fn m.Function) string {
	for _, name := range stepDecorators {
		decorator, ok := fn.Decorator(name)
		if !ok {
			continue
		}

		if pattern := fn.DecoratorArgs[decorator]; pattern != "" {
			return pattern
		}
	}

	return ""
}

func hasAnyDecorator(fn m.Function, names []string) bool {
	for _, name := range names {
		if fn.HasDecorator(name) {
			return true
		}
	}

	return false
}

package domain

import (
	"context"
	"log/slog"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

// Enricher adds suggestions to a finished report. Implementations may append
// violations; they must leave the score consistent with the violation list.
type Enricher interface {
	Enrich(ctx context.Context, report *m.Report) error
}

// suggestionFamily groups extensions that share suggestion examples.
type suggestionFamily string

const (
	familyPython suggestionFamily = "python"
	familyJava   suggestionFamily = "java"
	familyECMA   suggestionFamily = "ecmascript"
	familyCSharp suggestionFamily = "csharp"
)

var familyByExt = map[string]suggestionFamily{
	".py":   familyPython,
	".java": familyJava,
	".js":   familyECMA,
	".jsx":  familyECMA,
	".mjs":  familyECMA,
	".cjs":  familyECMA,
	".ts":   familyECMA,
	".tsx":  familyECMA,
	".mts":  familyECMA,
	".cts":  familyECMA,
	".cs":   familyCSharp,
}

var suggestions = map[m.ViolationType]map[suggestionFamily]string{
	m.ViolationAdaptationInDefinition: {
		familyPython: "Wrap the lookup in a page object method, e.g. login_page.submit() instead of driver.find_element(...).click().",
		familyJava:   "Add a method to the page object, e.g. loginPage.submit(), and call it from the test instead of driver.findElement(...).",
		familyECMA:   "Expose the interaction from a page object, e.g. await loginPage.submit(), instead of calling page.locator(...) in the test.",
		familyCSharp: "Add a method to the page object, e.g. loginPage.Submit(), and call it instead of Driver.FindElement(...).",
	},
	m.ViolationAssertionInPageObject: {
		familyPython: "Return the value (e.g. def title(self) -> str) and assert on it in the test.",
		familyJava:   "Return the state from the page object (e.g. String getTitle()) and assert with your test framework in the test.",
		familyECMA:   "Return a locator or value from the page object and call expect(...) in the test.",
		familyCSharp: "Return the state from the page object and assert on it in the test method.",
	},
	m.ViolationHardcodedSleep: {
		familyPython: "Use WebDriverWait(driver, timeout).until(...) or Playwright's auto-waiting locators.",
		familyJava:   "Use new WebDriverWait(driver, Duration.ofSeconds(n)).until(...).",
		familyECMA:   "Await a condition such as await expect(locator).toBeVisible() instead of a fixed timeout.",
		familyCSharp: "Use WebDriverWait with an ExpectedConditions predicate instead of Thread.Sleep.",
	},
	m.ViolationHardcodedTestData: {
		familyPython: "Move the value to a fixture or an environment variable read through os.environ.",
		familyJava:   "Load the value from a properties file or System.getenv.",
		familyECMA:   "Load the value from a fixture file or process.env.",
		familyCSharp: "Load the value from appsettings.json or Environment.GetEnvironmentVariable.",
	},
}

// HeuristicEnricher fills AISuggestion from language-aware templates. It is
// the offline stand-in for a model-backed enricher.
type HeuristicEnricher struct{}

// NewHeuristicEnricher creates a HeuristicEnricher.
func NewHeuristicEnricher() *HeuristicEnricher {
	return &HeuristicEnricher{}
}

// Enrich sets AISuggestion on every violation that has none yet.
func (e *HeuristicEnricher) Enrich(ctx context.Context, report *m.Report) error {
	if report == nil {
		return nil
	}

	filled := 0

	for i := range report.Violations {
		if err := ctx.Err(); err != nil {
			return err
		}

		v := &report.Violations[i]
		if v.AISuggestion != "" {
			continue
		}

		v.AISuggestion = suggestionFor(*v)
		filled++
	}

	report.CalculateScore()

	slog.Debug("Enriched report", "id", report.ID, "suggestions", filled)

	return nil
}

func suggestionFor(v m.Violation) string {
	if byFamily, ok := suggestions[v.Type]; ok {
		if text, ok := byFamily[familyByExt[v.FilePath.Ext()]]; ok {
			return text
		}
	}

	return v.Type.Recommendation()
}

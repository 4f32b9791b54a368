//go:build cgo

package domain_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tafscan.dev/pkg/tafscan/internal/adapter"
	"tafscan.dev/pkg/tafscan/internal/domain"
	"tafscan.dev/pkg/tafscan/internal/domain/checkers"
	"tafscan.dev/pkg/tafscan/internal/frontend"
	m "tafscan.dev/pkg/tafscan/internal/model"
)

func TestAnalyze_FlatProjectWithLayerViolations(t *testing.T) {
	root := t.TempDir()

	testFile := `def test_login_with_valid_user(driver):
    driver.find_element("id", "username")
`
	pageFile := `class LoginPage:
    def is_logged_in(self):
        assert self.title == "Home"
`

	require.NoError(t, os.WriteFile(filepath.Join(root, "test_login.py"), []byte(testFile), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "login_page.py"), []byte(pageFile), 0o644))

	fsAdapter := adapter.NewLocalSourceFSAdapter()
	analyzer := domain.NewAnalyzer(fsAdapter, frontend.DefaultRegistry(), checkers.Factory(fsAdapter), domain.WithThreads(2))

	report, err := analyzer.Analyze(t.Context(), m.Path(root), m.DefaultProjectConfig())
	require.NoError(t, err)

	types := map[m.ViolationType]m.Severity{}
	for _, v := range report.Violations {
		types[v.Type] = v.Severity
	}

	assert.Equal(t, 2, report.FilesAnalyzed)
	assert.Len(t, report.Violations, 3)
	assert.Equal(t, m.SeverityCritical, types[m.ViolationAdaptationInDefinition])
	assert.Equal(t, m.SeverityHigh, types[m.ViolationAssertionInPageObject])
	assert.Equal(t, m.SeverityCritical, types[m.ViolationMissingLayerStructure])
	assert.Equal(t, 75, report.Score)
}

func TestAnalyze_CheckoutExample(t *testing.T) {
	fsAdapter := adapter.NewLocalSourceFSAdapter()
	analyzer := domain.NewAnalyzer(fsAdapter, frontend.DefaultRegistry(), checkers.Factory(fsAdapter))

	report, err := analyzer.Analyze(t.Context(), m.Path(filepath.Join("..", "..", "examples", "checkout")), m.DefaultProjectConfig())
	require.NoError(t, err)

	found := map[m.ViolationType][]m.Path{}
	for _, v := range report.Violations {
		found[v.Type] = append(found[v.Type], v.FilePath)
	}

	assert.Equal(t, 5, report.FilesAnalyzed)
	assert.NotContains(t, found, m.ViolationMissingLayerStructure)

	expected := map[m.ViolationType]m.Path{
		m.ViolationMissingThenStep:           "features/checkout.feature",
		m.ViolationGherkinImplementation:     "features/checkout.feature",
		m.ViolationStepDefinitionDirectCall:  "features/steps/checkout_steps.py",
		m.ViolationDuplicateStepPattern:      "features/steps/checkout_steps.py",
		m.ViolationBusinessLogicInPageObject: "pages/cart_page.py",
		m.ViolationPoorTestNaming:            "tests/test_cart.py",
		m.ViolationHardcodedSleep:            "tests/test_cart.py",
	}

	for vt, path := range expected {
		assert.Contains(t, found[vt], path, "violation %s", vt)
	}

	assert.Less(t, report.Score, 100)
}

func TestAnalyze_PrivateDriverFieldsInTests(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "tests"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pages"), 0o755))

	csharp := `public class LoginTests
{
    [Test]
    public void LogsIn()
    {
        _driver.FindElement(By.Id("user")).SendKeys("bob");
    }
}
`
	python := `class TestLogin:
    def test_logs_in(self):
        self._driver.find_element("id", "user").click()
`

	require.NoError(t, os.WriteFile(filepath.Join(root, "tests", "LoginTests.cs"), []byte(csharp), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tests", "test_login.py"), []byte(python), 0o644))

	fsAdapter := adapter.NewLocalSourceFSAdapter()
	analyzer := domain.NewAnalyzer(fsAdapter, frontend.DefaultRegistry(), checkers.Factory(fsAdapter))

	report, err := analyzer.Analyze(t.Context(), m.Path(root), m.DefaultProjectConfig())
	require.NoError(t, err)

	require.Len(t, report.Violations, 2)

	for _, v := range report.Violations {
		assert.Equal(t, m.ViolationAdaptationInDefinition, v.Type)
	}

	assert.Contains(t, report.Violations[0].Message, "_driver.FindElement")
	assert.Contains(t, report.Violations[1].Message, "_driver.find_element")
	assert.Equal(t, 80, report.Score)
}

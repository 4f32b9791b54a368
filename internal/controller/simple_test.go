package controller

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

func newBufferedSimpleUI() (*SimpleUI, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)

	return NewSimpleUI(cmd), out
}

func sampleReport() *m.Report {
	report := m.NewReport("r1", "shop-tests")
	report.FilesAnalyzed = 4
	report.ExecutionTimeSeconds = 0.25
	report.Add(
		m.NewViolation(m.ViolationAdaptationInDefinition, "tests/test_login.py", m.WithLine(7),
			m.WithMessage("Test %q calls %s directly", "test_login", "driver.find_element")),
		m.NewViolation(m.ViolationMissingWaitStrategy, "pages/login_page.py", m.WithLine(12)),
		m.NewViolation(m.ViolationMissingLayerStructure, "shop-tests"),
	)
	report.CalculateScore()

	return report
}

func TestSimpleUI_DisplayReport(t *testing.T) {
	ui, out := newBufferedSimpleUI()

	require.NoError(t, ui.DisplayReport(t.Context(), sampleReport()))

	output := out.String()
	assert.Contains(t, output, "tests/test_login.py:7")
	assert.Contains(t, output, "ADAPTATION_IN_DEFINITION")
	assert.Contains(t, output, `Test "test_login" calls driver.find_element directly`)
	assert.Contains(t, output, "MISSING_LAYER_STRUCTURE")
	assert.Contains(t, output, "TOTAL")
	assert.Contains(t, output, "CRITICAL 2")
	assert.Contains(t, output, "LOW 1")
	assert.Contains(t, output, "Files analyzed: 4  Time: 0.25s")
	assert.Contains(t, output, "Score: 79/100")
}

func TestSimpleUI_DisplayReport_Clean(t *testing.T) {
	ui, out := newBufferedSimpleUI()

	report := m.NewReport("r2", ".")
	report.FilesAnalyzed = 12

	require.NoError(t, ui.DisplayReport(t.Context(), report))
	assert.Contains(t, out.String(), "No violations found in 12 file(s)")
	assert.Contains(t, out.String(), "Score: 100/100")
}

func TestSimpleUI_DisplayReport_Nil(t *testing.T) {
	ui, _ := newBufferedSimpleUI()
	require.Error(t, ui.DisplayReport(t.Context(), nil))
}

func TestSimpleUI_DisplayRules(t *testing.T) {
	ui, out := newBufferedSimpleUI()

	require.NoError(t, ui.DisplayRules(t.Context(), m.AllViolationTypes()))

	output := out.String()
	for _, vt := range m.AllViolationTypes() {
		assert.Contains(t, output, string(vt))
	}

	assert.Contains(t, output, "-10")
	assert.Contains(t, output, "PENALTY")
}

func TestSimpleUI_LifecycleAndAnalysisStart(t *testing.T) {
	ui, out := newBufferedSimpleUI()
	ctx := t.Context()

	require.NoError(t, ui.Start(ctx, WithAnalyzeMode()))
	ui.DisplayAnalysisStart(ctx, "shop-tests", 8)
	ui.Wait(ctx)
	ui.Close(ctx)

	assert.Contains(t, out.String(), "Analyzing shop-tests with 8 worker(s)")
}

func TestSimpleUI_CancelledContext(t *testing.T) {
	ui, out := newBufferedSimpleUI()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	require.ErrorIs(t, ui.Start(ctx), context.Canceled)
	require.ErrorIs(t, ui.DisplayReport(ctx, sampleReport()), context.Canceled)
	ui.DisplayAnalysisStart(ctx, ".", 1)
	assert.Empty(t, out.String())
}

func TestNewUI(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	assert.IsType(t, &SimpleUI{}, NewUI(cmd, false))
	assert.IsType(t, &TUI{}, NewUI(cmd, true))
	assert.False(t, IsTTY(&bytes.Buffer{}))
}

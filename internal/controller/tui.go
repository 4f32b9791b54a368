package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

// TUI implements UI using Bubble Tea for interactive browsing of a report.
type TUI struct {
	output io.Writer
	mode   StartMode
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start records the mode.
func (p *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := StartConfig{}
	for _, option := range options {
		option(&cfg)
	}

	p.mode = cfg.mode

	return nil
}

// Close finalizes the UI.
func (p *TUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait returns immediately: DisplayReport runs the program to completion.
func (p *TUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayAnalysisStart announces the analysis.
func (p *TUI) DisplayAnalysisStart(ctx context.Context, root m.Path, threads int) {
	if err := ctx.Err(); err != nil {
		return
	}

	_, _ = fmt.Fprintf(p.output, "%s %s %s\n", titleStyle.Render("tafscan"), root,
		faintStyle.Render(fmt.Sprintf("(%d workers)", threads)))
}

// DisplayReport shows the report. Reports that do not fit on the screen, and
// every report in view mode, open an interactive pager.
func (p *TUI) DisplayReport(ctx context.Context, report *m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if report == nil {
		return fmt.Errorf("no report to display")
	}

	model := newReportModel(report)

	if f, ok := p.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model.height = height
			model.width = width
		}
	}

	if model.height == 0 || (!model.needsPagination() && p.mode != ModeView) {
		_, err := fmt.Fprint(p.output, model.View())
		return err
	}

	program := tea.NewProgram(model, tea.WithOutput(p.output), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

// DisplayRules prints the violation taxonomy.
func (p *TUI) DisplayRules(ctx context.Context, types []m.ViolationType) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprint(p.output, renderRulesTable(types))

	return err
}

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Filter   key.Binding
	Quit     key.Binding
}

var defaultKeys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "u"), key.WithHelp("u", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "d"), key.WithHelp("d", "page down")),
	Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
	Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
	Filter:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "min severity")),
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) help() string {
	bindings := []key.Binding{k.Up, k.Down, k.PageDown, k.PageUp, k.Top, k.Bottom, k.Filter, k.Quit}

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, b.Help().Key+" "+b.Help().Desc)
	}

	return strings.Join(parts, " • ")
}

// reportModel is the Bubble Tea model listing the violations of a report.
type reportModel struct {
	report      *m.Report
	minSeverity m.Severity
	visible     []m.Violation
	height      int
	width       int
	offset      int
	quitting    bool
	keys        keyMap
}

func newReportModel(report *m.Report) reportModel {
	rm := reportModel{
		report:      report,
		minSeverity: m.SeverityLow,
		keys:        defaultKeys,
	}
	rm.visible = rm.filter()

	return rm
}

func (rm reportModel) filter() []m.Violation {
	visible := make([]m.Violation, 0, len(rm.report.Violations))
	for _, v := range rm.report.Violations {
		if v.Severity.Rank() >= rm.minSeverity.Rank() {
			visible = append(visible, v)
		}
	}

	return visible
}

func (rm reportModel) Init() tea.Cmd {
	return nil
}

func (rm reportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm.height = msg.Height
		rm.width = msg.Width
		rm.offset = min(rm.offset, rm.maxOffset())

		return rm, nil

	case tea.KeyMsg:
		return rm.handleKeyPress(msg)
	}

	return rm, nil
}

func (rm reportModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, rm.keys.Quit):
		rm.quitting = true
		return rm, tea.Quit
	case key.Matches(msg, rm.keys.Down):
		rm.offset = min(rm.offset+1, rm.maxOffset())
	case key.Matches(msg, rm.keys.Up):
		rm.offset = max(rm.offset-1, 0)
	case key.Matches(msg, rm.keys.PageDown):
		rm.offset = min(rm.offset+rm.itemsPerPage(), rm.maxOffset())
	case key.Matches(msg, rm.keys.PageUp):
		rm.offset = max(rm.offset-rm.itemsPerPage(), 0)
	case key.Matches(msg, rm.keys.Top):
		rm.offset = 0
	case key.Matches(msg, rm.keys.Bottom):
		rm.offset = rm.maxOffset()
	case key.Matches(msg, rm.keys.Filter):
		rm.minSeverity = nextMinSeverity(rm.minSeverity)
		rm.visible = rm.filter()
		rm.offset = 0
	}

	return rm, nil
}

// nextMinSeverity cycles LOW → MEDIUM → HIGH → CRITICAL → LOW.
func nextMinSeverity(current m.Severity) m.Severity {
	switch current {
	case m.SeverityLow:
		return m.SeverityMedium
	case m.SeverityMedium:
		return m.SeverityHigh
	case m.SeverityHigh:
		return m.SeverityCritical
	}

	return m.SeverityLow
}

// linesPerItem is the height of one rendered violation.
const linesPerItem = 2

// itemsPerPage calculates how many violations fit on screen.
func (rm reportModel) itemsPerPage() int {
	if rm.height == 0 {
		return 10
	}

	// header (3) + summary (3) + footer (3)
	reserved := 9

	available := (rm.height - reserved) / linesPerItem
	if available < 1 {
		return 1
	}

	return available
}

func (rm reportModel) maxOffset() int {
	return max(len(rm.visible)-rm.itemsPerPage(), 0)
}

// needsPagination returns true if the list is too large to fit on screen.
func (rm reportModel) needsPagination() bool {
	return rm.height > 0 && len(rm.visible) > rm.itemsPerPage()
}

func (rm reportModel) View() string {
	if rm.quitting {
		return ""
	}

	var b strings.Builder

	rm.renderHeader(&b)

	if len(rm.visible) == 0 {
		b.WriteString("  No violations at or above " + renderSeverity(rm.minSeverity) + "\n")
	} else {
		rm.renderViolations(&b)
	}

	rm.renderFooter(&b)

	return b.String()
}

func (rm reportModel) renderHeader(b *strings.Builder) {
	fmt.Fprintf(b, "%s %s\n", titleStyle.Render("tafscan report"), faintStyle.Render(string(rm.report.ProjectPath)))
	fmt.Fprintf(b, "Score %s  %s\n", renderScore(rm.report.Score), renderSummary(rm.report))
	fmt.Fprintf(b, "%s\n", faintStyle.Render(fmt.Sprintf("%d file(s) analyzed in %.2fs", rm.report.FilesAnalyzed, rm.report.ExecutionTimeSeconds)))
	b.WriteString("\n")
}

func (rm reportModel) renderViolations(b *strings.Builder) {
	end := len(rm.visible)
	if rm.needsPagination() {
		end = min(rm.offset+rm.itemsPerPage(), len(rm.visible))
	}

	start := 0
	if rm.needsPagination() {
		start = rm.offset
	}

	for _, v := range rm.visible[start:end] {
		fmt.Fprintf(b, "  %-8s %s  %s\n", renderSeverity(v.Severity), v.Location(), faintStyle.Render(string(v.Type)))
		fmt.Fprintf(b, "           %s\n", rm.truncate(v.Message))
	}
}

func (rm reportModel) truncate(text string) string {
	limit := rm.width - 12
	runes := []rune(text)

	if rm.width == 0 || limit <= 3 || len(runes) <= limit {
		return text
	}

	return string(runes[:limit-3]) + "..."
}

func (rm reportModel) renderFooter(b *strings.Builder) {
	b.WriteString("\n")

	if rm.needsPagination() {
		end := min(rm.offset+rm.itemsPerPage(), len(rm.visible))
		fmt.Fprintf(b, "  %d-%d of %d  ", rm.offset+1, end, len(rm.visible))
	}

	fmt.Fprintf(b, "%s\n", faintStyle.Render(rm.keys.help()))
}

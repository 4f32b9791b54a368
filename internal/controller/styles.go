package controller

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)

	severityStyles = map[m.Severity]lipgloss.Style{
		m.SeverityCritical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		m.SeverityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		m.SeverityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		m.SeverityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
)

func renderSeverity(severity m.Severity) string {
	style, ok := severityStyles[severity]
	if !ok {
		return string(severity)
	}

	return style.Render(string(severity))
}

// renderScore colours the score: green from 90, yellow from 70, red below.
func renderScore(score int) string {
	color := lipgloss.Color("9")

	switch {
	case score >= 90:
		color = lipgloss.Color("10")
	case score >= 70:
		color = lipgloss.Color("11")
	}

	return lipgloss.NewStyle().Bold(true).Foreground(color).Render(fmt.Sprintf("%d/%d", score, m.MaxScore))
}

// renderSummary is the severity breakdown line shared by both UIs.
func renderSummary(report *m.Report) string {
	counts := report.SeverityCounts()

	parts := make([]string, 0, len(counts))
	for _, severity := range m.Severities() {
		parts = append(parts, fmt.Sprintf("%s %d", renderSeverity(severity), counts[severity]))
	}

	return strings.Join(parts, "  ")
}

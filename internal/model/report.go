package model

import (
	"cmp"
	"slices"
)

// MaxScore is the score of a report without violations.
const MaxScore = 100

// Report is the result of analysing one project.
type Report struct {
	ID                   string      `json:"id" yaml:"id"`
	ProjectPath          Path        `json:"project_path" yaml:"project_path"`
	Violations           []Violation `json:"violations" yaml:"violations"`
	FilesAnalyzed        int         `json:"files_analyzed" yaml:"files_analyzed"`
	Score                int         `json:"score" yaml:"score"`
	ExecutionTimeSeconds float64     `json:"execution_time_seconds" yaml:"execution_time_seconds"`
}

// NewReport creates an empty report for a project root.
func NewReport(id string, project Path) *Report {
	return &Report{
		ID:          id,
		ProjectPath: project,
		Violations:  []Violation{},
		Score:       MaxScore,
	}
}

// Add appends violations. Callers must recompute the score afterwards.
func (r *Report) Add(violations ...Violation) {
	r.Violations = append(r.Violations, violations...)
}

// CalculateScore recomputes, stores and returns max(0, 100 - penalties).
func (r *Report) CalculateScore() int {
	penalty := 0
	for _, v := range r.Violations {
		penalty += v.Severity.Penalty()
	}

	r.Score = max(0, MaxScore-penalty)

	return r.Score
}

// SeverityCounts returns the number of violations per severity. Every
// severity is present in the map, possibly with a zero count.
func (r *Report) SeverityCounts() map[Severity]int {
	counts := make(map[Severity]int, len(Severities()))
	for _, severity := range Severities() {
		counts[severity] = 0
	}

	for _, v := range r.Violations {
		counts[v.Severity]++
	}

	return counts
}

// HasCritical reports whether any violation is CRITICAL.
func (r *Report) HasCritical() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityCritical {
			return true
		}
	}

	return false
}

// Filter drops violations whose type is excluded.
func (r *Report) Filter(exclude map[ViolationType]struct{}) {
	if len(exclude) == 0 {
		return
	}

	r.Violations = slices.DeleteFunc(r.Violations, func(v Violation) bool {
		_, skip := exclude[v.Type]
		return skip
	})
}

// Sort orders violations by path, line and type. The sort is stable so
// violations on the same line keep their checker order.
func (r *Report) Sort() {
	slices.SortStableFunc(r.Violations, func(a, b Violation) int {
		return cmp.Or(
			cmp.Compare(a.FilePath, b.FilePath),
			cmp.Compare(a.LineNumber, b.LineNumber),
			cmp.Compare(a.Type, b.Type),
		)
	})
}

package checkers

import (
	"strings"

	"tafscan.dev/pkg/tafscan/internal/domain"
	"tafscan.dev/pkg/tafscan/internal/frontend"
	m "tafscan.dev/pkg/tafscan/internal/model"
)

// MaxStepSpan is the longest accepted step definition, in lines.
const MaxStepSpan = 20

// BDDChecker inspects feature files and step definitions.
type BDDChecker struct {
	Base
	steps *StepRegistry
}

// NewBDDChecker creates the BDD checker. steps is shared by every file of
// the run.
func NewBDDChecker(steps *StepRegistry) *BDDChecker {
	return &BDDChecker{Base: Base{name: "bdd"}, steps: steps}
}

// CanCheck accepts feature files and every source file that may hold step
// definitions.
func (c *BDDChecker) CanCheck(m.Path) bool {
	return true
}

// Index registers every step pattern of BDD code files in sorted file order.
func (c *BDDChecker) Index(path m.Path, pr *m.ParseResult, cls m.Classification) {
	if pr == nil || pr.Language == m.LangGherkin || !cls.IsBDD {
		return
	}

	for _, fn := range pr.AllFunctions() {
		if pattern := normalizePattern(domain.StepPattern(fn)); pattern != "" {
			c.steps.Register(pattern, path, fn.LineStart)
		}
	}
}

func (c *BDDChecker) Check(path m.Path, pr *m.ParseResult, cls m.Classification) ([]m.Violation, error) {
	switch {
	case pr == nil:
		return nil, nil
	case pr.Language == m.LangGherkin:
		return c.checkFeature(path, pr), nil
	case cls.IsBDD:
		return c.checkSteps(path, pr), nil
	}

	return nil, nil
}

// checkFeature looks at step text and at each scenario's verification step.
func (c *BDDChecker) checkFeature(path m.Path, pr *m.ParseResult) []m.Violation {
	var (
		violations []m.Violation
		seen       = lineSet{}
	)

	for _, literal := range pr.Strings {
		kind := technicalKind(literal.Value)
		if kind == "" || !seen.add(literal.Line) {
			continue
		}

		violations = append(violations, m.NewViolation(m.ViolationGherkinImplementation, path,
			m.WithLine(literal.Line),
			m.WithMessage("Step describes a %s instead of behaviour", kind),
			m.WithSnippet(literal.Value),
		))
	}

	for _, scenario := range pr.Functions {
		if hasThenStep(pr.CallsWithin(scenario)) {
			continue
		}

		violations = append(violations, m.NewViolation(m.ViolationMissingThenStep, path,
			m.WithLine(scenario.LineStart),
			m.WithMessage("Scenario %q has no Then step", scenario.Name),
		))
	}

	return violations
}

func hasThenStep(calls []m.Call) bool {
	for _, call := range calls {
		if call.ObjectName == m.StepReceiver && call.MethodName == frontend.KeywordThen {
			return true
		}
	}

	return false
}

// checkSteps applies the step-definition rules to every step function.
func (c *BDDChecker) checkSteps(path m.Path, pr *m.ParseResult) []m.Violation {
	var (
		violations []m.Violation
		seen       = lineSet{}
	)

	for _, fn := range pr.AllFunctions() {
		if !domain.IsStepFunction(fn) {
			continue
		}

		for _, call := range automationCallsByLine(pr.CallsWithin(fn)) {
			if !seen.add(call.Line) {
				continue
			}

			violations = append(violations, m.NewViolation(m.ViolationStepDefinitionDirectCall, path,
				m.WithLine(call.Line),
				m.WithMessage("Step %q calls %s directly", stepLabel(fn), callName(call)),
				m.WithSnippet(call.FullText),
			))
		}

		if span := fn.LineEnd - fn.LineStart; span > MaxStepSpan {
			violations = append(violations, m.NewViolation(m.ViolationStepDefinitionTooComplex, path,
				m.WithLine(fn.LineStart),
				m.WithMessage("Step %q spans %d lines (limit %d)", stepLabel(fn), span, MaxStepSpan),
			))
		}

		pattern := normalizePattern(domain.StepPattern(fn))
		if pattern == "" {
			continue
		}

		first, ok := c.steps.Definition(pattern)
		if !ok || (first.Path == path && first.Line == fn.LineStart) {
			continue
		}

		violations = append(violations, m.NewViolation(m.ViolationDuplicateStepPattern, path,
			m.WithLine(fn.LineStart),
			m.WithMessage("Step pattern %q is already defined at %s:%d", pattern, first.Path, first.Line),
		))
	}

	return violations
}

func normalizePattern(pattern string) string {
	return strings.Join(strings.Fields(pattern), " ")
}

func stepLabel(fn m.Function) string {
	if pattern := domain.StepPattern(fn); pattern != "" {
		return pattern
	}

	return fn.Name
}

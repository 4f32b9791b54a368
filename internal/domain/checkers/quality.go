package checkers

import (
	"tafscan.dev/pkg/tafscan/internal/domain"
	m "tafscan.dev/pkg/tafscan/internal/model"
)

// MaxTestSpan is the longest accepted test function, in lines.
const MaxTestSpan = 50

// QualityChecker flags hard-coded data, oversized or badly named tests and
// fixed sleeps in test files.
type QualityChecker struct {
	Base
}

// NewQualityChecker creates the test quality checker.
func NewQualityChecker() *QualityChecker {
	return &QualityChecker{Base: Base{name: "quality"}}
}

// CanCheck accepts every source file except feature files.
func (c *QualityChecker) CanCheck(path m.Path) bool {
	return !isFeatureFile(path)
}

func (c *QualityChecker) Check(path m.Path, pr *m.ParseResult, cls m.Classification) ([]m.Violation, error) {
	if !cls.IsTestFile || pr == nil {
		return nil, nil
	}

	var (
		violations []m.Violation
		dataLines  = lineSet{}
	)

	for _, fn := range pr.AllFunctions() {
		if !domain.IsTestFunction(pr.Language, fn) {
			continue
		}

		if span := fn.LineEnd - fn.LineStart; span > MaxTestSpan {
			violations = append(violations, m.NewViolation(m.ViolationLongTestFunction, path,
				m.WithLine(fn.LineStart),
				m.WithMessage("Test %q spans %d lines (limit %d)", fn.Name, span, MaxTestSpan),
			))
		}

		if isGenericTestName(fn.Name) {
			violations = append(violations, m.NewViolation(m.ViolationPoorTestNaming, path,
				m.WithLine(fn.LineStart),
				m.WithMessage("Test name %q does not describe the behaviour under test", fn.Name),
			))
		}

		for _, literal := range pr.StringsWithin(fn) {
			kind := sensitiveKind(literal.Value)
			if kind == "" || !dataLines.add(literal.Line) {
				continue
			}

			violations = append(violations, m.NewViolation(m.ViolationHardcodedTestData, path,
				m.WithLine(literal.Line),
				m.WithMessage("Test %q hard-codes a %s", fn.Name, kind),
				m.WithSnippet(literal.Value),
			))
		}
	}

	sleeps := lineSet{}

	for _, call := range pr.Calls {
		if !isSleep(call) || !sleeps.add(call.Line) {
			continue
		}

		violations = append(violations, m.NewViolation(m.ViolationHardcodedSleep, path,
			m.WithLine(call.Line),
			m.WithMessage("Fixed sleep %s", callName(call)),
			m.WithSnippet(call.FullText),
		))
	}

	return violations, nil
}

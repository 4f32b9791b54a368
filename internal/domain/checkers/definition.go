package checkers

import (
	"tafscan.dev/pkg/tafscan/internal/domain"
	m "tafscan.dev/pkg/tafscan/internal/model"
)

// DefinitionChecker keeps raw automation calls out of test functions.
type DefinitionChecker struct {
	Base
}

// NewDefinitionChecker creates the definition-layer checker.
func NewDefinitionChecker() *DefinitionChecker {
	return &DefinitionChecker{Base: Base{name: "definition"}}
}

// CanCheck accepts every source file except feature files.
func (c *DefinitionChecker) CanCheck(path m.Path) bool {
	return !isFeatureFile(path)
}

// Check reports each line of a test function that calls the automation API
// directly.
func (c *DefinitionChecker) Check(path m.Path, pr *m.ParseResult, cls m.Classification) ([]m.Violation, error) {
	if !cls.IsTestFile || pr == nil {
		return nil, nil
	}

	var (
		violations []m.Violation
		seen       = lineSet{}
	)

	for _, fn := range pr.AllFunctions() {
		if !domain.IsTestFunction(pr.Language, fn) {
			continue
		}

		for _, call := range automationCallsByLine(pr.CallsWithin(fn)) {
			if !seen.add(call.Line) {
				continue
			}

			violations = append(violations, m.NewViolation(m.ViolationAdaptationInDefinition, path,
				m.WithLine(call.Line),
				m.WithMessage("Test %q calls %s directly", fn.Name, callName(call)),
				m.WithSnippet(call.FullText),
			))
		}
	}

	return violations, nil
}

package checkers

import (
	"strings"

	"tafscan.dev/pkg/tafscan/internal/domain"
	m "tafscan.dev/pkg/tafscan/internal/model"
)

// AdaptationChecker keeps page objects free of assertions, test framework
// imports, business logic and duplicated locators.
type AdaptationChecker struct {
	Base
	locators *LocatorRegistry
}

// NewAdaptationChecker creates the page-object checker. locators is shared
// by every file of the run.
func NewAdaptationChecker(locators *LocatorRegistry) *AdaptationChecker {
	return &AdaptationChecker{Base: Base{name: "adaptation"}, locators: locators}
}

// CanCheck accepts every source file except feature files.
func (c *AdaptationChecker) CanCheck(path m.Path) bool {
	return !isFeatureFile(path)
}

// Index registers the locators of page-object files.
func (c *AdaptationChecker) Index(path m.Path, pr *m.ParseResult, cls m.Classification) {
	if !cls.IsPageObject || pr == nil {
		return
	}

	for _, literal := range pr.Strings {
		if isLocator(literal.Value) {
			c.locators.Register(strings.TrimSpace(literal.Value), path, literal.Line)
		}
	}
}

func (c *AdaptationChecker) Check(path m.Path, pr *m.ParseResult, cls m.Classification) ([]m.Violation, error) {
	if !cls.IsPageObject || pr == nil {
		return nil, nil
	}

	var violations []m.Violation

	violations = append(violations, c.forbiddenImports(path, pr)...)
	violations = append(violations, c.methodBodies(path, pr)...)
	violations = append(violations, c.duplicateLocators(path, pr)...)

	if !cls.AutoWaiting {
		violations = append(violations, c.missingWaits(path, pr)...)
	}

	return violations, nil
}

func (c *AdaptationChecker) forbiddenImports(path m.Path, pr *m.ParseResult) []m.Violation {
	var violations []m.Violation

	for _, imp := range pr.Imports {
		if !domain.IsTestFrameworkImport(pr.Language, imp) {
			continue
		}

		violations = append(violations, m.NewViolation(m.ViolationForbiddenImport, path,
			m.WithLine(imp.Line),
			m.WithMessage("Page object imports test framework %q", imp.Module),
			m.WithSnippet(imp.Module),
		))
	}

	return violations
}

// methodBodies reports assertions line by line and control flow once per
// class method. Module-level helpers are not part of the page object.
func (c *AdaptationChecker) methodBodies(path m.Path, pr *m.ParseResult) []m.Violation {
	var (
		violations []m.Violation
		asserted   = lineSet{}
	)

	for _, fn := range pr.Methods() {
		var branches []m.Call

		for _, call := range pr.CallsWithin(fn) {
			if call.ObjectName == m.ControlFlowReceiver {
				branches = append(branches, call)
				continue
			}

			if !isAssertion(call) || !asserted.add(call.Line) {
				continue
			}

			violations = append(violations, m.NewViolation(m.ViolationAssertionInPageObject, path,
				m.WithLine(call.Line),
				m.WithMessage("Page object method %q contains an assertion", fn.Name),
				m.WithSnippet(call.FullText),
			))
		}

		if len(branches) == 0 {
			continue
		}

		kinds := make([]string, 0, len(branches))
		for _, branch := range branches {
			kinds = append(kinds, branch.MethodName)
		}

		violations = append(violations, m.NewViolation(m.ViolationBusinessLogicInPageObject, path,
			m.WithLine(branches[0].Line),
			m.WithMessage("Page object method %q contains control flow (%s)", fn.Name, strings.Join(kinds, ", ")),
			m.WithSnippet(branches[0].FullText),
		))
	}

	return violations
}

func (c *AdaptationChecker) duplicateLocators(path m.Path, pr *m.ParseResult) []m.Violation {
	var (
		violations []m.Violation
		reported   = map[string]bool{}
	)

	for _, literal := range pr.Strings {
		locator := strings.TrimSpace(literal.Value)
		if reported[locator] || !isLocator(locator) {
			continue
		}

		owner, ok := c.locators.Owner(locator)
		if !ok || owner.Path == path {
			continue
		}

		reported[locator] = true

		violations = append(violations, m.NewViolation(m.ViolationDuplicateLocator, path,
			m.WithLine(literal.Line),
			m.WithMessage("Locator %q is already defined in %s:%d", locator, owner.Path, owner.Line),
			m.WithSnippet(literal.Value),
		))
	}

	return violations
}

// missingWaits reports a page object that interacts with elements but never
// waits for any.
func (c *AdaptationChecker) missingWaits(path m.Path, pr *m.ParseResult) []m.Violation {
	var first *m.Call

	for i, call := range pr.Calls {
		if isWait(call) {
			return nil
		}

		if first == nil && isInteraction(call) {
			first = &pr.Calls[i]
		}
	}

	if first == nil {
		return nil
	}

	return []m.Violation{m.NewViolation(m.ViolationMissingWaitStrategy, path,
		m.WithLine(first.Line),
		m.WithMessage("Page object interacts with elements (%s) without any explicit wait", first.MethodName),
		m.WithSnippet(first.FullText),
	)}
}

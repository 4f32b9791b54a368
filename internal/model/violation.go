package model

import (
	"fmt"
	"slices"
	"strings"
)

// Severity ranks how badly a violation breaks the layered architecture.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// Severities lists every severity from most to least severe.
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}
}

// Rank orders severities: CRITICAL=4 down to LOW=1, unknown=0.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}

	return 0
}

// Penalty is the score deduction for one violation of this severity.
func (s Severity) Penalty() int {
	switch s {
	case SeverityCritical:
		return 10
	case SeverityHigh:
		return 5
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}

	return 0
}

// ParseSeverity accepts any casing of a severity name.
func ParseSeverity(value string) (Severity, error) {
	s := Severity(strings.ToUpper(strings.TrimSpace(value)))
	if s.Rank() == 0 {
		return "", fmt.Errorf("unknown severity %q", value)
	}

	return s, nil
}

// UnmarshalText rejects unknown severities in saved reports and normalises
// their casing.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}

// ViolationType is the enumerated kind of a violation.
type ViolationType string

const (
	ViolationAdaptationInDefinition    ViolationType = "ADAPTATION_IN_DEFINITION"
	ViolationAssertionInPageObject     ViolationType = "ASSERTION_IN_PAGE_OBJECT"
	ViolationForbiddenImport           ViolationType = "FORBIDDEN_IMPORT"
	ViolationBusinessLogicInPageObject ViolationType = "BUSINESS_LOGIC_IN_PAGE_OBJECT"
	ViolationDuplicateLocator          ViolationType = "DUPLICATE_LOCATOR"
	ViolationMissingWaitStrategy       ViolationType = "MISSING_WAIT_STRATEGY"
	ViolationHardcodedTestData         ViolationType = "HARDCODED_TEST_DATA"
	ViolationLongTestFunction          ViolationType = "LONG_TEST_FUNCTION"
	ViolationPoorTestNaming            ViolationType = "POOR_TEST_NAMING"
	ViolationHardcodedSleep            ViolationType = "HARDCODED_SLEEP"
	ViolationMissingLayerStructure     ViolationType = "MISSING_LAYER_STRUCTURE"
	ViolationGherkinImplementation     ViolationType = "GHERKIN_IMPLEMENTATION_DETAIL"
	ViolationStepDefinitionDirectCall  ViolationType = "STEP_DEFINITION_DIRECT_CALL"
	ViolationStepDefinitionTooComplex  ViolationType = "STEP_DEFINITION_TOO_COMPLEX"
	ViolationMissingThenStep           ViolationType = "MISSING_THEN_STEP"
	ViolationDuplicateStepPattern      ViolationType = "DUPLICATE_STEP_PATTERN"
)

// ViolationInfo is the taxonomy entry for one violation type.
type ViolationInfo struct {
	Severity       Severity
	Description    string
	Recommendation string
}

var catalog = map[ViolationType]ViolationInfo{
	ViolationAdaptationInDefinition: {
		Severity:       SeverityCritical,
		Description:    "Test code calls the automation API directly instead of going through a page object",
		Recommendation: "Move the interaction into a page object method and call that method from the test",
	},
	ViolationAssertionInPageObject: {
		Severity:       SeverityHigh,
		Description:    "Page object contains an assertion",
		Recommendation: "Return state from the page object and assert on it in the test",
	},
	ViolationForbiddenImport: {
		Severity:       SeverityHigh,
		Description:    "Page object imports a test or assertion framework",
		Recommendation: "Remove test framework imports from page objects; keep them in the test layer",
	},
	ViolationBusinessLogicInPageObject: {
		Severity:       SeverityMedium,
		Description:    "Page object method contains control flow or business logic",
		Recommendation: "Keep page object methods as thin interaction wrappers; move decisions into tests or helpers",
	},
	ViolationDuplicateLocator: {
		Severity:       SeverityMedium,
		Description:    "The same locator is defined in more than one page object",
		Recommendation: "Define each locator once, in the page object that owns the element",
	},
	ViolationMissingWaitStrategy: {
		Severity:       SeverityLow,
		Description:    "Page object interacts with elements without any explicit wait",
		Recommendation: "Wait for the element to be ready before interacting with it",
	},
	ViolationHardcodedTestData: {
		Severity:       SeverityHigh,
		Description:    "Test contains hard-coded sensitive or environment data",
		Recommendation: "Load test data from fixtures, data files or configuration",
	},
	ViolationLongTestFunction: {
		Severity:       SeverityMedium,
		Description:    "Test function is too long",
		Recommendation: "Split the test or move setup and steps into page objects and helpers",
	},
	ViolationPoorTestNaming: {
		Severity:       SeverityLow,
		Description:    "Test name does not describe the behaviour under test",
		Recommendation: "Name tests after the behaviour they verify",
	},
	ViolationHardcodedSleep: {
		Severity:       SeverityMedium,
		Description:    "Test uses a fixed sleep",
		Recommendation: "Replace fixed sleeps with explicit waits on a condition",
	},
	ViolationMissingLayerStructure: {
		Severity:       SeverityCritical,
		Description:    "Project lacks the directories that separate test definition from page adaptation",
		Recommendation: "Create a tests directory for test definitions and a pages directory for page objects",
	},
	ViolationGherkinImplementation: {
		Severity:       SeverityHigh,
		Description:    "Feature file step contains technical implementation detail",
		Recommendation: "Describe behaviour in business language; keep selectors, URLs and queries in step definitions",
	},
	ViolationStepDefinitionDirectCall: {
		Severity:       SeverityCritical,
		Description:    "Step definition calls the automation API directly",
		Recommendation: "Delegate interactions from step definitions to page objects",
	},
	ViolationStepDefinitionTooComplex: {
		Severity:       SeverityMedium,
		Description:    "Step definition is too long",
		Recommendation: "Keep step definitions short and delegate to page objects or helpers",
	},
	ViolationMissingThenStep: {
		Severity:       SeverityMedium,
		Description:    "Scenario has no verification step",
		Recommendation: "Add a Then step that states the expected outcome",
	},
	ViolationDuplicateStepPattern: {
		Severity:       SeverityLow,
		Description:    "Step pattern is defined more than once",
		Recommendation: "Keep a single step definition per pattern and reuse it",
	},
}

// AllViolationTypes returns every catalogued type ordered by severity, then name.
func AllViolationTypes() []ViolationType {
	types := make([]ViolationType, 0, len(catalog))
	for _, severity := range Severities() {
		var group []ViolationType

		for vt, info := range catalog {
			if info.Severity == severity {
				group = append(group, vt)
			}
		}

		slices.Sort(group)
		types = append(types, group...)
	}

	return types
}

// Info returns the taxonomy entry for the type.
func (t ViolationType) Info() (ViolationInfo, bool) {
	info, ok := catalog[t]
	return info, ok
}

// Severity returns the catalogued severity, LOW for unknown types.
func (t ViolationType) Severity() Severity {
	if info, ok := t.Info(); ok {
		return info.Severity
	}

	return SeverityLow
}

// Description returns the catalogued description.
func (t ViolationType) Description() string {
	if info, ok := t.Info(); ok {
		return info.Description
	}

	return string(t)
}

// Recommendation returns the catalogued remediation text.
func (t ViolationType) Recommendation() string {
	if info, ok := t.Info(); ok {
		return info.Recommendation
	}

	return "Review this finding against the layered test architecture"
}

// Violation is one located deviation from the layered architecture.
type Violation struct {
	Type           ViolationType `json:"violation_type" yaml:"violation_type"`
	Severity       Severity      `json:"severity" yaml:"severity"`
	FilePath       Path          `json:"file_path" yaml:"file_path"`
	LineNumber     int           `json:"line_number,omitempty" yaml:"line_number,omitempty"`
	Message        string        `json:"message" yaml:"message"`
	CodeSnippet    string        `json:"code_snippet,omitempty" yaml:"code_snippet,omitempty"`
	Recommendation string        `json:"recommendation" yaml:"recommendation"`
	// AISuggestion is filled after the fact by an enrichment pass.
	AISuggestion string `json:"ai_suggestion,omitempty" yaml:"ai_suggestion,omitempty"`
}

// ViolationOption customises a violation built by NewViolation.
type ViolationOption func(*Violation)

// WithLine sets the 1-based line number.
func WithLine(line int) ViolationOption {
	return func(v *Violation) {
		v.LineNumber = line
	}
}

// WithMessage overrides the catalogued description.
func WithMessage(format string, args ...any) ViolationOption {
	return func(v *Violation) {
		if len(args) == 0 {
			v.Message = format
			return
		}

		v.Message = fmt.Sprintf(format, args...)
	}
}

// WithSnippet attaches a bounded code snippet.
func WithSnippet(snippet string) ViolationOption {
	return func(v *Violation) {
		v.CodeSnippet = Truncate(snippet)
	}
}

// WithSeverity overrides the catalogued severity.
func WithSeverity(severity Severity) ViolationOption {
	return func(v *Violation) {
		v.Severity = severity
	}
}

// WithRecommendation overrides the catalogued remediation text.
func WithRecommendation(recommendation string) ViolationOption {
	return func(v *Violation) {
		v.Recommendation = recommendation
	}
}

// NewViolation builds a violation, back-filling severity, message and
// recommendation from the taxonomy when they are not supplied.
func NewViolation(vt ViolationType, path Path, opts ...ViolationOption) Violation {
	v := Violation{
		Type:     vt,
		FilePath: path,
	}

	for _, opt := range opts {
		opt(&v)
	}

	v.Normalize()

	return v
}

// Normalize back-fills empty fields from the taxonomy. Enrichment passes that
// build violations by hand call it before appending to a report.
func (v *Violation) Normalize() {
	if v.Severity.Rank() == 0 {
		v.Severity = v.Type.Severity()
	}

	if strings.TrimSpace(v.Message) == "" {
		v.Message = v.Type.Description()
	}

	if strings.TrimSpace(v.Recommendation) == "" {
		v.Recommendation = v.Type.Recommendation()
	}
}

// Location renders path:line, or just the path when no line is known.
func (v Violation) Location() string {
	if v.LineNumber > 0 {
		return fmt.Sprintf("%s:%d", v.FilePath, v.LineNumber)
	}

	return string(v.FilePath)
}

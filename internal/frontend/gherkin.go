package frontend

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/google/uuid"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

// Effective step keywords.
const (
	KeywordGiven = "given"
	KeywordWhen  = "when"
	KeywordThen  = "then"
)

// Feature is the behaviour-level view of a .feature file.
type Feature struct {
	Name       string
	Line       int
	Background []Step
	Scenarios  []Scenario
}

// Scenario is one scenario or scenario outline. LineEnd is the line of its
// last step.
type Scenario struct {
	Name    string
	Line    int
	LineEnd int
	Tags    []string
	Steps   []Step
}

// Step is a single Given/When/Then line. Effective is the keyword after
// continuation steps (And, But, *) inherit from their predecessor.
type Step struct {
	Keyword   string
	Effective string
	Text      string
	Line      int
}

// Gherkin is the front-end for .feature files. It needs no CGO.
type Gherkin struct{}

// NewGherkin constructs the Gherkin front-end.
func NewGherkin() *Gherkin {
	return &Gherkin{}
}

// Language implements Frontend.
func (g *Gherkin) Language() m.Language { return m.LangGherkin }

// Extensions implements Frontend.
func (g *Gherkin) Extensions() []string { return gherkinExtensions }

// Parse implements Frontend. Scenarios become functions (tags as
// decorators), steps become calls on m.StepReceiver named by their
// effective keyword, and step texts become string literals.
func (g *Gherkin) Parse(_ context.Context, src []byte) *m.ParseResult {
	feature, err := ParseFeature(src)

	result := &m.ParseResult{Language: m.LangGherkin}
	if err != nil {
		result.ParseErrors = append(result.ParseErrors, err.Error())
	}

	if feature == nil {
		return result
	}

	addStep := func(step Step) {
		result.Calls = append(result.Calls, m.Call{
			ObjectName: m.StepReceiver,
			MethodName: step.Effective,
			Line:       step.Line,
			FullText:   m.Truncate(step.Keyword + " " + step.Text),
		})
		result.Strings = append(result.Strings, m.StringLiteral{Value: step.Text, Line: step.Line})
	}

	for _, step := range feature.Background {
		addStep(step)
	}

	for _, scenario := range feature.Scenarios {
		result.Functions = append(result.Functions, m.Function{
			Name:       scenario.Name,
			LineStart:  scenario.Line,
			LineEnd:    scenario.LineEnd,
			Decorators: scenario.Tags,
		})

		for _, step := range scenario.Steps {
			addStep(step)
		}
	}

	return result
}

// ParseFeature parses src with the cucumber parser. When the document is
// rejected, a line scanner recovers what it can and the parser error is
// returned alongside.
func ParseFeature(src []byte) (*Feature, error) {
	doc, err := gherkin.ParseGherkinDocument(bytes.NewReader(src), uuid.NewString)
	if err != nil {
		return scanFeature(src), err
	}

	if doc.Feature == nil {
		return &Feature{}, nil
	}

	feature := &Feature{Name: doc.Feature.Name, Line: locationLine(doc.Feature.Location)}

	for _, child := range doc.Feature.Children {
		switch {
		case child.Background != nil:
			feature.Background = append(feature.Background, convertSteps(child.Background.Steps)...)
		case child.Scenario != nil:
			feature.Scenarios = append(feature.Scenarios, convertScenario(child.Scenario))
		case child.Rule != nil:
			for _, ruleChild := range child.Rule.Children {
				switch {
				case ruleChild.Background != nil:
					feature.Background = append(feature.Background, convertSteps(ruleChild.Background.Steps)...)
				case ruleChild.Scenario != nil:
					feature.Scenarios = append(feature.Scenarios, convertScenario(ruleChild.Scenario))
				}
			}
		}
	}

	return feature, nil
}

func convertScenario(s *messages.Scenario) Scenario {
	scenario := Scenario{
		Name:  s.Name,
		Line:  locationLine(s.Location),
		Steps: convertSteps(s.Steps),
	}

	scenario.LineEnd = scenario.Line
	if n := len(scenario.Steps); n > 0 {
		scenario.LineEnd = scenario.Steps[n-1].Line
	}

	for _, tag := range s.Tags {
		scenario.Tags = append(scenario.Tags, strings.TrimPrefix(tag.Name, "@"))
	}

	return scenario
}

func convertSteps(in []*messages.Step) []Step {
	steps := make([]Step, 0, len(in))
	previous := ""

	for _, s := range in {
		keyword := strings.TrimSpace(s.Keyword)

		var effective string
		switch s.KeywordType {
		case messages.StepKeywordType_CONTEXT:
			effective = KeywordGiven
		case messages.StepKeywordType_ACTION:
			effective = KeywordWhen
		case messages.StepKeywordType_OUTCOME:
			effective = KeywordThen
		default:
			effective = effectiveKeyword(keyword, previous)
		}

		previous = effective
		steps = append(steps, Step{Keyword: keyword, Effective: effective, Text: s.Text, Line: locationLine(s.Location)})
	}

	return steps
}

// effectiveKeyword resolves an English keyword; continuations inherit
// previous and a leading continuation counts as a precondition.
func effectiveKeyword(keyword, previous string) string {
	switch strings.ToLower(keyword) {
	case KeywordGiven:
		return KeywordGiven
	case KeywordWhen:
		return KeywordWhen
	case KeywordThen:
		return KeywordThen
	}

	if previous != "" {
		return previous
	}

	return KeywordGiven
}

func locationLine(loc *messages.Location) int {
	if loc == nil {
		return 0
	}

	return int(loc.Line)
}

var scenarioPrefixes = []string{"Scenario Outline:", "Scenario Template:", "Scenario:", "Example:"}

var stepKeywords = []string{"Given", "When", "Then", "And", "But", "*"}

// scanFeature is the fallback for documents the cucumber parser rejects.
// It understands English keywords only.
func scanFeature(src []byte) *Feature {
	feature := &Feature{}

	var (
		current     *Scenario
		background  bool
		inDocString bool
		tags        []string
		previous    string
	)

	flush := func() {
		if current != nil {
			feature.Scenarios = append(feature.Scenarios, *current)
			current = nil
		}
	}

	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		trimmed := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "```") {
			inDocString = !inDocString
			continue
		}

		if inDocString || trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "@"):
			for _, tag := range strings.Fields(trimmed) {
				tags = append(tags, strings.TrimPrefix(tag, "@"))
			}

			continue
		case strings.HasPrefix(trimmed, "Feature:"):
			feature.Name = strings.TrimSpace(strings.TrimPrefix(trimmed, "Feature:"))
			feature.Line = lineNo
			tags = nil

			continue
		case strings.HasPrefix(trimmed, "Background:"):
			flush()
			background, previous = true, ""

			continue
		case strings.HasPrefix(trimmed, "Examples:"), strings.HasPrefix(trimmed, "Rule:"):
			flush()
			background = false

			continue
		}

		if name, ok := cutAnyPrefix(trimmed, scenarioPrefixes); ok {
			flush()
			current = &Scenario{Name: name, Line: lineNo, LineEnd: lineNo, Tags: tags}
			background, previous, tags = false, "", nil

			continue
		}

		keyword, rest, ok := splitStep(trimmed)
		if !ok {
			continue
		}

		step := Step{Keyword: keyword, Effective: effectiveKeyword(keyword, previous), Text: rest, Line: lineNo}
		previous = step.Effective

		switch {
		case background:
			feature.Background = append(feature.Background, step)
		case current != nil:
			current.Steps = append(current.Steps, step)
			current.LineEnd = lineNo
		}
	}

	flush()

	return feature
}

func cutAnyPrefix(s string, prefixes []string) (string, bool) {
	for _, prefix := range prefixes {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			return strings.TrimSpace(rest), true
		}
	}

	return "", false
}

func splitStep(line string) (string, string, bool) {
	for _, keyword := range stepKeywords {
		rest, ok := strings.CutPrefix(line, keyword)
		if !ok {
			continue
		}

		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			continue
		}

		return keyword, strings.TrimSpace(rest), true
	}

	return "", "", false
}

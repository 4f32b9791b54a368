package checkers

import (
	"regexp"
	"strings"

	m "tafscan.dev/pkg/tafscan/internal/model"
)

// automationObjects are receivers that belong to a UI automation library.
var automationObjects = map[string]bool{
	"driver":    true,
	"webdriver": true,
	"wd":        true,
	"browser":   true,
	"page":      true,
	"selenium":  true,
	"cy":        true,
}

// contextHolders carry the driver in BDD frameworks (behave's context,
// cucumber-js's world).
var contextHolders = map[string]bool{
	"context": true,
	"ctx":     true,
	"world":   true,
}

// automationMethods are raw element lookups and interactions.
var automationMethods = map[string]bool{
	"find_element": true, "find_elements": true, "findelement": true, "findelements": true,
	"find_element_by_id": true, "find_element_by_xpath": true, "find_element_by_css_selector": true,
	"find_element_by_name": true, "find_element_by_class_name": true, "find_element_by_link_text": true,
	"click": true, "dblclick": true, "double_click": true, "send_keys": true, "sendkeys": true,
	"clear": true, "submit": true, "get": true, "goto": true, "navigate": true, "visit": true,
	"fill": true, "type": true, "press": true, "hover": true, "check": true, "uncheck": true,
	"locator": true, "query_selector": true, "queryselector": true, "query_selector_all": true,
	"wait_for_selector": true, "waitforselector": true, "get_by_role": true, "getbyrole": true,
	"get_by_text": true, "getbytext": true, "get_by_label": true, "getbylabel": true,
	"get_by_test_id": true, "getbytestid": true, "get_by_placeholder": true, "getbyplaceholder": true,
	"execute_script": true, "executescript": true, "switch_to": true, "switchto": true,
	"select_option": true, "selectoption": true, "contains": true, "$": true, "$$": true,
	"element": true, "elements": true, "fill_in": true, "setvalue": true,
}

// isAutomationCall reports whether call drives the UI directly: an
// automation method on an automation object, either as the chain root or
// right behind a BDD context holder.
func isAutomationCall(call m.Call) bool {
	if call.IsMarker() || !automationMethods[strings.ToLower(call.MethodName)] {
		return false
	}

	root := receiverName(call.ObjectName)
	if automationObjects[root] {
		return true
	}

	if !contextHolders[root] {
		return false
	}

	for _, segment := range receiverSegments(call.FullText) {
		if automationObjects[receiverName(segment)] {
			return true
		}
	}

	return false
}

// receiverName lower-cases a receiver and drops private-field underscores,
// so _driver and __page match driver and page.
func receiverName(name string) string {
	return strings.TrimLeft(strings.ToLower(strings.TrimSpace(name)), "_")
}

// automationCallsByLine keeps one automation call per line, preferring the
// innermost call of a chain: driver.find_element(x) over
// driver.find_element(x).click(). Lines keep their first-seen order.
func automationCallsByLine(calls []m.Call) []m.Call {
	var (
		picked []m.Call
		index  = map[int]int{}
	)

	for _, call := range calls {
		if !isAutomationCall(call) {
			continue
		}

		i, ok := index[call.Line]
		if !ok {
			index[call.Line] = len(picked)
			picked = append(picked, call)

			continue
		}

		if len(call.FullText) < len(picked[i].FullText) {
			picked[i] = call
		}
	}

	return picked
}

// receiverSegments splits the dotted receiver in front of the first call of
// a snippet: "context.driver.find_element(x)" gives context, driver.
func receiverSegments(snippet string) []string {
	head, _, _ := strings.Cut(snippet, "(")
	head = strings.TrimPrefix(strings.TrimSpace(head), "await ")

	segments := strings.Split(head, ".")
	if len(segments) < 2 {
		return nil
	}

	return segments[:len(segments)-1]
}

var assertionObjects = map[string]bool{
	"assert":           true,
	"assertions":       true,
	"collectionassert": true,
	"stringassert":     true,
	"expect":           true,
	"should":           true,
	"chai":             true,
}

// isAssertion matches assert statements and assertion library calls.
func isAssertion(call m.Call) bool {
	if call.ObjectName == m.AssertReceiver {
		return true
	}

	if call.IsMarker() {
		return false
	}

	method := strings.ToLower(call.MethodName)
	switch {
	case strings.HasPrefix(method, "assert"):
		return true
	case method == "expect", method == "should", method == "verify":
		return true
	}

	return assertionObjects[strings.ToLower(call.ObjectName)]
}

// interactionMethods change page state and therefore need the element to be
// ready.
var interactionMethods = map[string]bool{
	"click": true, "dblclick": true, "double_click": true, "send_keys": true, "sendkeys": true,
	"clear": true, "submit": true, "fill": true, "type": true, "press": true, "check": true,
	"uncheck": true, "select_by_visible_text": true, "select_by_value": true, "select_by_index": true,
	"selectbyvisibletext": true, "selectbyvalue": true, "selectbyindex": true, "select_option": true,
	"selectoption": true, "hover": true, "setvalue": true,
}

func isInteraction(call m.Call) bool {
	return !call.IsMarker() && interactionMethods[strings.ToLower(call.MethodName)]
}

// isWait matches explicit waits: WebDriverWait, wait.until, waitFor*,
// expected conditions and similar.
func isWait(call m.Call) bool {
	if call.IsMarker() {
		return false
	}

	object := strings.ToLower(call.ObjectName)
	method := strings.ToLower(call.MethodName)

	return strings.Contains(method, "wait") || strings.Contains(object, "wait") ||
		method == "until" || object == "ec" || object == "expectedconditions"
}

// isSleep matches fixed delays.
func isSleep(call m.Call) bool {
	if call.IsMarker() {
		return false
	}

	object := strings.ToLower(call.ObjectName)
	method := strings.ToLower(call.MethodName)

	switch method {
	case "sleep", "waitfortimeout", "wait_for_timeout", "settimeout", "usleep":
		return true
	case "pause":
		return object == "browser" || object == "driver"
	case "delay":
		return object == "task"
	case "wait":
		return object == "cy" && numericArgument.MatchString(call.FullText)
	}

	return false
}

var numericArgument = regexp.MustCompile(`\.wait\(\s*\d`)

// locatorPatterns recognise CSS and XPath selectors.
var locatorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\(?\.?//[\w*@(\[]`),
	regexp.MustCompile(`^(css|xpath|id|text|data-testid|role)=\S`),
	regexp.MustCompile(`^[#.][A-Za-z_][\w-]*([\s>+~.#:\[][^\s]*)*$`),
	regexp.MustCompile(`^\[[\w-]+([~|^$*]?=[^\]]+)?\]`),
	regexp.MustCompile(`^(a|button|input|div|span|form|select|option|textarea|label|li|ul|ol|table|tr|td|th|img|h[1-6]|p|nav|section|header|footer|iframe)([\[#.:]|\s*>)`),
}

func isLocator(value string) bool {
	value = strings.TrimSpace(value)
	if len(value) < 2 || len(value) > 300 || strings.Contains(value, "\n") {
		return false
	}

	for _, pattern := range locatorPatterns {
		if pattern.MatchString(value) {
			return true
		}
	}

	return false
}

// sensitivePattern is one shape of hard-coded data.
type sensitivePattern struct {
	kind    string
	pattern *regexp.Regexp
}

var sensitivePatterns = []sensitivePattern{
	{"email address", regexp.MustCompile(`\b[\w.+-]+@[\w-]+(\.[\w-]+)*\.[A-Za-z]{2,}\b`)},
	{"URL", regexp.MustCompile(`\bhttps?://\S+`)},
	{"phone number", regexp.MustCompile(`^(\+\d{1,3}[\s.-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}$|^\+\d{7,15}$`)},
	{"credential", regexp.MustCompile(`(?i)\b(passw(or)?d|pwd|secret|api[_-]?key|access[_-]?token|auth[_-]?token)\s*[:=]\s*\S+`)},
}

// sensitiveKind returns the kind of hard-coded data in value, or "".
func sensitiveKind(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || isLocator(value) {
		return ""
	}

	for _, sp := range sensitivePatterns {
		if sp.pattern.MatchString(value) {
			return sp.kind
		}
	}

	if looksLikePassword(value) {
		return "credential"
	}

	return ""
}

// looksLikePassword matches short, space-free strings mixing letters,
// digits and symbols, like "P@ssw0rd!".
func looksLikePassword(value string) bool {
	if len(value) < 8 || len(value) > 64 || strings.ContainsAny(value, " \t/") {
		return false
	}

	var letter, digit, symbol bool

	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			letter = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune("!@#$%^&*?", r):
			symbol = true
		case strings.ContainsRune("_-+=.", r):
		default:
			return false
		}
	}

	return letter && digit && symbol
}

// genericTestName matches counter-like or placeholder test names such as
// test_1, test_a, testCase2 or "test 3".
var genericTestName = regexp.MustCompile(`(?i)^(test|it|should|spec)?[_\s-]*((case|scenario|something|stuff|thing|foo|bar|baz|temp|tmp|new|example|sample|dummy|check)?[_\s-]*\d*|[a-z]|\d+)$`)

func isGenericTestName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	return genericTestName.MatchString(name)
}

// technicalPattern is one kind of implementation detail that must not leak
// into a feature file.
type technicalPattern struct {
	kind    string
	pattern *regexp.Regexp
}

var technicalPatterns = []technicalPattern{
	{"URL", regexp.MustCompile(`\bhttps?://\S+`)},
	{"XPath", regexp.MustCompile(`(^|[\s"'])\(?//[\w*@]`)},
	{"CSS selector", regexp.MustCompile(`(^|[\s"'])([#.][A-Za-z_][\w-]*\[|#[A-Za-z_][\w-]*\b|\[[\w-]+=|\.[a-z][\w-]*\s*>)`)},
	{"SQL", regexp.MustCompile(`(?i)\b(select\s+[\w*,\s]+\s+from|insert\s+into|update\s+\w+\s+set|delete\s+from|drop\s+table)\b`)},
	{"file path", regexp.MustCompile(`(^|[\s"'])(/[\w.-]+){2,}|[A-Za-z]:\\[\w\\.-]+|\.\.?/[\w.-]+/`)},
	{"locator call", regexp.MustCompile(`(?i)\b(find_?element|getelementby\w+|queryselector|xpath|css=|data-testid)\b`)},
	{"HTTP request", regexp.MustCompile(`\b(GET|POST|PUT|PATCH|DELETE)\s+/\S*`)},
}

// technicalKind returns the kind of implementation detail in step text, or
// "".
func technicalKind(text string) string {
	for _, tp := range technicalPatterns {
		if tp.pattern.MatchString(text) {
			return tp.kind
		}
	}

	return ""
}

package probe

import (
	"errors"
	"fmt"
	"strings"
)

var evalTagRules = []struct {
	trigger string
	tag     func(expr string) string
}{
	{"use of undeclared identifier", func(e string) string { return fmt.Sprintf("<use of undeclared identifier '%s'>", e) }},
	{"no member named", func(e string) string { return fmt.Sprintf("<no member named in %s>", e) }},
	{"cannot be used", func(e string) string { return fmt.Sprintf("<%s cannot be used>", e) }},
	{"not found", func(e string) string { return fmt.Sprintf("<%s not found>", e) }},
	{"undefined", func(e string) string { return fmt.Sprintf("<%s undefined>", e) }},
}

func classifyEvalError(expr, message string) string {
	lower := strings.ToLower(message)
	for _, rule := range evalTagRules {
		if strings.Contains(lower, rule.trigger) {
			return rule.tag(expr)
		}
	}
	return fmt.Sprintf("<evaluation error for %s>", expr)
}

// EvaluateAll issues one evaluate request per expression, in declared order,
// against frameID. Adapter-signalled errors are classified into a short tag
// (§4.3); transport errors become "<runtime_value_unavailable>". Neither
// aborts the remaining expressions or the session.
func EvaluateAll(client Client, frameID int, exprs []string) []NamedValue {
	out := make([]NamedValue, 0, len(exprs))
	for _, expr := range exprs {
		out = append(out, evaluateOne(client, frameID, expr))
	}
	return out
}

func evaluateOne(client Client, frameID int, expr string) NamedValue {
	value, err := client.Evaluate(expr, frameID)
	if err == nil {
		return NamedValue{Name: expr, Value: value}
	}
	var adapterErr *AdapterError
	if errors.As(err, &adapterErr) {
		return NamedValue{Name: expr, Value: classifyEvalError(expr, adapterErr.Message)}
	}
	return NamedValue{Name: expr, Value: "<runtime_value_unavailable>"}
}

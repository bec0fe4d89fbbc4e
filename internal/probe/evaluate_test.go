package probe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyEvalError(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"undeclared", "use of undeclared identifier 'x'", "<use of undeclared identifier 'x'>"},
		{"no member", "no member named 'foo' in 'Bar'", "<no member named in expr>"},
		{"cannot be used", "expression cannot be used here", "<expr cannot be used>"},
		{"not found", "symbol not found", "<expr not found>"},
		{"undefined", "identifier undefined", "<expr undefined>"},
		{"unrecognized", "something completely unexpected happened", "<evaluation error for expr>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyEvalError("expr", tt.message)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateAllPreservesOrderAndIsolatesFailures(t *testing.T) {
	client := newFakeClient()
	client.evalResults["a"] = "1"
	client.evalErrs["b"] = &AdapterError{Message: "use of undeclared identifier 'b'"}
	client.evalResults["c"] = "3"

	got := EvaluateAll(client, 0, []string{"a", "b", "c"})
	want := []NamedValue{
		{Name: "a", Value: "1"},
		{Name: "b", Value: "<use of undeclared identifier 'b'>"},
		{Name: "c", Value: "3"},
	}
	assert.Equal(t, want, got)
}

func TestEvaluateOneTransportErrorBecomesRuntimeUnavailable(t *testing.T) {
	client := newFakeClient()
	client.evalErrs["x"] = errors.New("broken pipe")

	got := evaluateOne(client, 0, "x")
	assert.Equal(t, NamedValue{Name: "x", Value: "<runtime_value_unavailable>"}, got)
}

package otel

import "testing"

func TestSetTrace(t *testing.T) {
	orig := TraceEnabled()
	t.Cleanup(func() { SetTrace(orig) })

	SetTrace(true)
	if !TraceEnabled() {
		t.Error("tracing should be on")
	}
	SetTrace(false)
	if TraceEnabled() {
		t.Error("tracing should be off")
	}
}

func TestTraceFromEnv(t *testing.T) {
	tests := map[string]bool{
		"":      false,
		"0":     false,
		"false": false,
		"1":     true,
		"true":  true,
		"yes":   true,
	}
	for in, want := range tests {
		if got := traceFromEnv(in); got != want {
			t.Errorf("traceFromEnv(%q) = %v, want %v", in, got, want)
		}
	}
}

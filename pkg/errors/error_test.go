package errors

import (
	"errors"
	"sync"
	"testing"
)

var (
	errBeanNotFound = Code("BEAN_0001").New("bean {{.name}} not found")
	errBeanCycle    = Code("BEAN_0002").New("cycle through {{.chain}}")
)

func TestWithPrefix(t *testing.T) {
	t.Parallel()
	next := WithPrefix("CONTEXT")
	for _, want := range []Code{"CONTEXT_0001", "CONTEXT_0002", "CONTEXT_0003"} {
		if got := next(); got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	}
}

func TestError_Error(t *testing.T) {
	t.Parallel()
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"plain", Code("X_0001").New("registry closed"), "X_0001: registry closed"},
		{"missing_detail", errBeanNotFound, "BEAN_0001: bean <no value> not found"},
		{"detail", errBeanNotFound.WithDetail("name", "db"), "BEAN_0001: bean db not found"},
		{"cause", errBeanNotFound.WithDetail("name", "db").WithCause(cause), "BEAN_0001: bean db not found (caused by: connection refused)"},
		{"broken_template", Code("X_0002").New("bean {{.name"), "X_0002: bean {{.name"},
		{"failing_template", Code("X_0003").New("{{.name.Field}}").WithDetail("name", "db"), "X_0003: {{.name.Field}}"},
		{"empty", Code("X_0004").New(""), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_RaisedCopies(t *testing.T) {
	t.Parallel()
	first := errBeanNotFound.WithDetail("name", "a")
	second := first.WithDetail("name", "b").WithCause(errors.New("boom"))

	if len(errBeanNotFound.Details) != 0 || errBeanNotFound.Stack != "" {
		t.Errorf("sentinel was mutated: %+v", errBeanNotFound)
	}
	if first.Details["name"] != "a" || second.Details["name"] != "b" {
		t.Errorf("copies share details: %v / %v", first.Details, second.Details)
	}
	if first.Stack == "" || first.Timestamp.IsZero() {
		t.Error("raised copy should record stack and timestamp")
	}
	if second.Stack != first.Stack {
		t.Error("re-raising should keep the original stack")
	}
	if first.Cause != nil {
		t.Error("cause leaked into an earlier copy")
	}
}

func TestError_Is(t *testing.T) {
	t.Parallel()
	cause := errors.New("boom")
	raised := errBeanNotFound.WithDetail("name", "db").WithCause(cause)

	tests := []struct {
		name   string
		target error
		want   bool
	}{
		{"own_sentinel", errBeanNotFound, true},
		{"other_sentinel", errBeanCycle, false},
		{"cause", cause, true},
		{"unrelated", errors.New("boom"), false},
	}
	for _, tt := range tests {
		if got := errors.Is(raised, tt.target); got != tt.want {
			t.Errorf("%s: errors.Is = %t, want %t", tt.name, got, tt.want)
		}
	}
}

func TestError_ConcurrentRaise(t *testing.T) {
	t.Parallel()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = errBeanCycle.WithDetail("chain", i).Error()
		}()
	}
	wg.Wait()

	if len(errBeanCycle.Details) != 0 {
		t.Errorf("sentinel mutated under concurrency: %v", errBeanCycle.Details)
	}
}

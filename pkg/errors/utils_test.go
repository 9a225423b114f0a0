package errors

import (
	"errors"
	"testing"
)

func TestIs_NilHandling(t *testing.T) {
	t.Parallel()
	plain := errors.New("plain")

	tests := []struct {
		name        string
		err, target error
		want        bool
	}{
		{"both_nil", nil, nil, false},
		{"same", plain, plain, true},
		{"different", plain, errors.New("plain"), false},
		{"nil_err", nil, plain, false},
		{"wrapped_sentinel", errBeanNotFound.WithCause(errBeanCycle.WithDetail("chain", "a")), errBeanCycle, true},
	}
	for _, tt := range tests {
		if got := Is(tt.err, tt.target); got != tt.want {
			t.Errorf("%s: Is = %t, want %t", tt.name, got, tt.want)
		}
	}
}

func TestAs(t *testing.T) {
	t.Parallel()
	var target *Error
	if !As(error(errBeanNotFound.WithDetail("name", "db")), &target) || target.Code != "BEAN_0001" {
		t.Errorf("As should find *Error, got %v", target)
	}
	if As(errors.New("generic"), &target) || As(nil, &target) {
		t.Error("As should fail for foreign and nil errors")
	}
}

func TestJoin(t *testing.T) {
	t.Parallel()
	if Join() != nil || Join(nil, nil) != nil {
		t.Error("Join of nothing should be nil")
	}
	joined := Join(New("first"), nil, New("second"))
	if joined == nil || joined.Error() != "first\nsecond" {
		t.Errorf("unexpected joined error: %v", joined)
	}
}

func TestUnwrapAndCode(t *testing.T) {
	t.Parallel()
	inner := errBeanCycle.WithDetail("chain", "a -> b")
	outer := errBeanNotFound.WithCause(inner)

	if Unwrap(outer) != error(inner) {
		t.Error("Unwrap should return the immediate cause")
	}
	if Unwrap(nil) != nil {
		t.Error("Unwrap(nil) should be nil")
	}
	if code := GetErrorCode(outer); code != "BEAN_0001" {
		t.Errorf("GetErrorCode = %q", code)
	}
	if code := GetErrorCode(New("plain")); code != "" {
		t.Errorf("GetErrorCode(plain) = %q", code)
	}
}

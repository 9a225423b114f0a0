package errors

import (
	"fmt"
	"maps"
	"runtime"
	"strings"
	"sync/atomic"
	"text/template"
	"time"
)

type Code string

// New declares a sentinel. Message is a text/template rendered over Details.
func (c Code) New(msg string) *Error {
	return &Error{Code: c, Message: msg, Details: map[string]any{}}
}

// WithPrefix numbers codes PREFIX_0001, PREFIX_0002 and so on in call order.
func WithPrefix(prefix string) func() Code {
	var seq atomic.Int64
	return func() Code {
		return Code(fmt.Sprintf("%s_%04d", prefix, seq.Add(1)))
	}
}

type Error struct {
	Code      Code           `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Cause     error          `json:"-"`
	Stack     string         `json:"-"`
	Timestamp time.Time      `json:"timestamp"`
}

func (e *Error) Error() string {
	msg := e.render()
	if msg == "" {
		return ""
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// render falls back to the raw template when it cannot be executed.
func (e *Error) render() (msg string) {
	defer func() {
		if recover() != nil {
			msg = e.Message
		}
	}()

	t, err := template.New(string(e.Code)).Option("missingkey=zero").Parse(e.Message)
	if err != nil {
		return e.Message
	}
	var sb strings.Builder
	if err := t.Execute(&sb, e.Details); err != nil {
		return e.Message
	}
	return sb.String()
}

// WithCause returns a copy of e carrying err. Sentinels are never mutated.
func (e *Error) WithCause(err error) *Error {
	c := e.raise()
	c.Cause = err
	return c
}

// WithDetail returns a copy of e with key set in its Details.
func (e *Error) WithDetail(key string, value any) *Error {
	c := e.raise()
	c.Details[key] = value
	return c
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on Code, so a raised copy still matches its sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// raise copies e; the first copy of a sentinel records where it was raised.
func (e *Error) raise() *Error {
	c := *e
	c.Details = maps.Clone(e.Details)
	if c.Details == nil {
		c.Details = map[string]any{}
	}
	if c.Stack == "" {
		buf := make([]byte, 4096)
		c.Stack = string(buf[:runtime.Stack(buf, false)])
		c.Timestamp = time.Now()
	}
	return &c
}

package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/shuldan/ioc/pkg/contracts"
)

// Expand replaces every ${key} and ${key:default} placeholder in template.
// A default is itself a template and may contain placeholders; resolved
// values are inserted verbatim.
func Expand(template string, lookup func(key string) (string, bool)) (string, error) {
	if !strings.Contains(template, "${") {
		return template, nil
	}

	var sb strings.Builder
	for i := 0; i < len(template); {
		start := strings.Index(template[i:], "${")
		if start < 0 {
			sb.WriteString(template[i:])
			break
		}
		start += i
		sb.WriteString(template[i:start])

		end := closingBrace(template, start+2)
		if end < 0 {
			return "", ErrMalformedTemplate.
				WithDetail("template", template).
				WithDetail("offset", start)
		}

		value, err := resolvePlaceholder(template, template[start+2:end], start, lookup)
		if err != nil {
			return "", err
		}
		sb.WriteString(value)
		i = end + 1
	}
	return sb.String(), nil
}

func resolvePlaceholder(template, body string, offset int, lookup func(string) (string, bool)) (string, error) {
	key, def, hasDefault := strings.Cut(body, ":")
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrMalformedTemplate.
			WithDetail("template", template).
			WithDetail("offset", offset)
	}

	if v, ok := lookup(key); ok {
		return v, nil
	}
	if hasDefault {
		return Expand(def, lookup)
	}
	return "", ErrPropertyNotFound.WithDetail("key", key)
}

// closingBrace returns the index of the brace closing the placeholder whose
// body starts at from, or -1.
func closingBrace(s string, from int) int {
	depth := 1
	for i := from; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func ComputeInt(r contracts.PropertyResolver, template string) (int, error) {
	return compute(r, template, "int", strconv.Atoi)
}

func ComputeUint16(r contracts.PropertyResolver, template string) (uint16, error) {
	return compute(r, template, "uint16", func(s string) (uint16, error) {
		v, err := strconv.ParseUint(s, 10, 16)
		return uint16(v), err
	})
}

func ComputeBool(r contracts.PropertyResolver, template string) (bool, error) {
	return compute(r, template, "bool", strconv.ParseBool)
}

func ComputeFloat64(r contracts.PropertyResolver, template string) (float64, error) {
	return compute(r, template, "float64", func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

func ComputeDuration(r contracts.PropertyResolver, template string) (time.Duration, error) {
	return compute(r, template, "duration", time.ParseDuration)
}

func compute[T any](r contracts.PropertyResolver, template, kind string, parse func(string) (T, error)) (T, error) {
	var zero T
	s, err := r.ComputeTemplateValue(template)
	if err != nil {
		return zero, err
	}
	v, err := parse(strings.TrimSpace(s))
	if err != nil {
		return zero, ErrInvalidValue.
			WithDetail("value", s).
			WithDetail("template", template).
			WithDetail("kind", kind).
			WithCause(err)
	}
	return v, nil
}

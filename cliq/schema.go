package cliq

import (
	"fmt"
	"strconv"
	"strings"
)

// Issue is a single validation problem reported by a Schema.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Result is the outcome of a Validate call: either Value is set or Issues is
// non-empty. Pending is reserved for adapters bridging validation libraries
// that complete asynchronously; the dispatch pipeline is synchronous end to
// end, so a Pending result is a fatal usage error, never awaited.
type Result struct {
	Value   map[string]any
	Issues  []Issue
	Pending bool
}

// Schema is the external validation capability the binder hands its merged
// record to. Validate must complete synchronously.
type Schema interface {
	Validate(input map[string]any) *Result
}

// Introspector is the minimal reflection surface the binder and the help
// generator need from a schema. Any concrete validation library can adapt to
// it; the binder degrades gracefully (no variadic accumulation, no
// positional typing) when a schema does not implement it.
type Introspector interface {
	FieldNames() []string
	IsRequired(name string) bool
	IsArray(name string) bool
	IsBool(name string) bool
}

// FieldType enumerates the value shapes ObjectSchema can validate.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldBool    FieldType = "bool"
	FieldInt     FieldType = "int"
	FieldFloat   FieldType = "float64"
	FieldStrings FieldType = "[]string"
)

// Field describes a single ObjectSchema field.
type Field struct {
	Type     FieldType
	Required bool
	Default  any
	Choices  []string // non-empty restricts string values to this set
}

// ObjectSchema is a small concrete Schema so the module is usable without an
// external validation library. It coerces the binder's string/bool/slice
// shapes into typed values, applies defaults, enforces required fields and
// choice sets, and implements Introspector.
type ObjectSchema struct {
	fields map[string]Field
	order  []string
}

// NewObjectSchema creates an empty object schema.
func NewObjectSchema() *ObjectSchema {
	return &ObjectSchema{fields: make(map[string]Field)}
}

// Field adds or replaces a field definition, preserving declaration order.
func (s *ObjectSchema) Field(name string, f Field) *ObjectSchema {
	if _, exists := s.fields[name]; !exists {
		s.order = append(s.order, name)
	}
	s.fields[name] = f
	return s
}

// FieldNames implements Introspector.
func (s *ObjectSchema) FieldNames() []string {
	return append([]string(nil), s.order...)
}

// IsRequired implements Introspector.
func (s *ObjectSchema) IsRequired(name string) bool {
	return s.fields[name].Required
}

// IsArray implements Introspector.
func (s *ObjectSchema) IsArray(name string) bool {
	return s.fields[name].Type == FieldStrings
}

// IsBool implements Introspector.
func (s *ObjectSchema) IsBool(name string) bool {
	return s.fields[name].Type == FieldBool
}

// Validate implements Schema. Unknown keys pass through untouched; the
// binder deliberately permits ad hoc flags and dropping them here would hide
// them from handlers that want them.
func (s *ObjectSchema) Validate(input map[string]any) *Result {
	value := make(map[string]any, len(input))
	var issues []Issue

	for k, v := range input {
		field, known := s.fields[k]
		if !known {
			value[k] = v
			continue
		}
		coerced, err := coerceField(field, v)
		if err != nil {
			issues = append(issues, Issue{Path: k, Message: err.Error()})
			continue
		}
		value[k] = coerced
	}

	for _, name := range s.order {
		field := s.fields[name]
		if _, present := value[name]; present {
			continue
		}
		if field.Default != nil {
			value[name] = field.Default
			continue
		}
		if field.Required {
			issues = append(issues, Issue{Path: name, Message: "required"})
		}
	}

	if len(issues) > 0 {
		return &Result{Issues: issues}
	}
	return &Result{Value: value}
}

// coerceField converts the binder's raw string/bool/slice value into the
// field's declared type.
func coerceField(field Field, v any) (any, error) {
	switch field.Type {
	case FieldString:
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		if len(field.Choices) > 0 && !contains(field.Choices, str) {
			return nil, fmt.Errorf("must be one of: %s", strings.Join(field.Choices, ", "))
		}
		return str, nil

	case FieldBool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			return parseBool(b)
		default:
			return nil, fmt.Errorf("expected bool, got %T", v)
		}

	case FieldInt:
		switch n := v.(type) {
		case int:
			return n, nil
		case float64:
			return int(n), nil
		case string:
			parsed, err := strconv.Atoi(n)
			if err != nil {
				return nil, fmt.Errorf("invalid integer %q", n)
			}
			return parsed, nil
		default:
			return nil, fmt.Errorf("expected int, got %T", v)
		}

	case FieldFloat:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case string:
			parsed, err := strconv.ParseFloat(n, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q", n)
			}
			return parsed, nil
		default:
			return nil, fmt.Errorf("expected float, got %T", v)
		}

	case FieldStrings:
		switch list := v.(type) {
		case []string:
			return list, nil
		case string:
			// A lone scalar (from env or config) becomes a one-element slice.
			return []string{list}, nil
		case []any:
			out := make([]string, 0, len(list))
			for _, item := range list {
				out = append(out, fmt.Sprintf("%v", item))
			}
			return out, nil
		default:
			return nil, fmt.Errorf("expected string list, got %T", v)
		}

	default:
		return nil, fmt.Errorf("unsupported field type %q", field.Type)
	}
}

// parseBool accepts the usual spellings from env vars and config files.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1", "on":
		return true, nil
	case "false", "f", "no", "n", "0", "off", "":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value %q", s)
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

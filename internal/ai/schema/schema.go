// Package schema validates decoded JSON values against genai schemas. The
// same schema instance that is sent to the model as its response schema is
// used here to verify both flow inputs and model outputs, so there is exactly
// one source of truth per shape.
package schema

import (
	"fmt"
	"math"
	"strings"

	"google.golang.org/genai"
)

// ValidationError reports the first constraint violation found, with a dotted
// path into the value such as "quotes[2].provider.rating".
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func fail(path, format string, args ...any) error {
	return &ValidationError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks value, as produced by encoding/json (maps, slices, float64,
// string, bool, nil), against the schema. It returns nil when the value
// conforms and a *ValidationError describing the first violation otherwise.
func Validate(s *genai.Schema, value any) error {
	if s == nil {
		return fmt.Errorf("schema is required")
	}
	return walk(s, value, "")
}

func walk(s *genai.Schema, value any, path string) error {
	if value == nil {
		if s.Nullable != nil && *s.Nullable {
			return nil
		}
		return fail(path, "value is null")
	}

	switch s.Type {
	case genai.TypeString:
		return walkString(s, value, path)
	case genai.TypeNumber:
		return walkNumber(s, value, path, false)
	case genai.TypeInteger:
		return walkNumber(s, value, path, true)
	case genai.TypeBoolean:
		return walkBoolean(value, path)
	case genai.TypeArray:
		return walkArray(s, value, path)
	case genai.TypeObject:
		return walkObject(s, value, path)
	default:
		return fail(path, "unsupported schema type %q", s.Type)
	}
}

func walkString(s *genai.Schema, value any, path string) error {
	str, ok := value.(string)
	if !ok {
		return fail(path, "expected a string, got %T", value)
	}

	if len(s.Enum) > 0 {
		for _, allowed := range s.Enum {
			if str == allowed {
				return nil
			}
		}
		return fail(path, "%q is not one of [%s]", str, strings.Join(s.Enum, ", "))
	}

	return nil
}

func walkNumber(s *genai.Schema, value any, path string, integral bool) error {
	num, ok := toFloat(value)
	if !ok {
		return fail(path, "expected a number, got %T", value)
	}

	if integral && num != math.Trunc(num) {
		return fail(path, "expected an integer, got %v", num)
	}

	if s.Minimum != nil && num < *s.Minimum {
		return fail(path, "%v is below the minimum %v", num, *s.Minimum)
	}
	if s.Maximum != nil && num > *s.Maximum {
		return fail(path, "%v is above the maximum %v", num, *s.Maximum)
	}

	return nil
}

func walkBoolean(value any, path string) error {
	if _, ok := value.(bool); !ok {
		return fail(path, "expected a boolean, got %T", value)
	}
	return nil
}

func walkArray(s *genai.Schema, value any, path string) error {
	items, ok := value.([]any)
	if !ok {
		return fail(path, "expected an array, got %T", value)
	}

	if s.MinItems != nil && int64(len(items)) < *s.MinItems {
		return fail(path, "expected at least %d item(s), got %d", *s.MinItems, len(items))
	}
	if s.MaxItems != nil && int64(len(items)) > *s.MaxItems {
		return fail(path, "expected at most %d item(s), got %d", *s.MaxItems, len(items))
	}

	if s.Items != nil {
		for i, item := range items {
			if err := walk(s.Items, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}

	return nil
}

func walkObject(s *genai.Schema, value any, path string) error {
	obj, ok := value.(map[string]any)
	if !ok {
		return fail(path, "expected an object, got %T", value)
	}

	for _, name := range s.Required {
		if _, present := obj[name]; !present {
			return fail(joinPath(path, name), "required field is missing")
		}
	}

	for name, property := range s.Properties {
		fieldValue, present := obj[name]
		if !present {
			continue
		}
		if err := walk(property, fieldValue, joinPath(path, name)); err != nil {
			return err
		}
	}

	return nil
}

func joinPath(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

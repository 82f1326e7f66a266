package tool

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
)

// Validate checks args against an object schema: required keys, unknown keys,
// value types, enums and array items. A nil schema accepts only empty args.
func (s *Schema) Validate(args map[string]any) error {
	if s == nil {
		if len(args) > 0 {
			return &ArgumentError{Reason: "tool takes no arguments"}
		}
		return nil
	}
	return s.validateObject("", args)
}

func (s *Schema) validateObject(path string, obj map[string]any) error {
	for _, name := range s.Required {
		if v, ok := obj[name]; !ok || v == nil {
			return &ArgumentError{Path: join(path, name), Reason: "is required"}
		}
	}

	// Sorted so the first reported problem is deterministic.
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		prop, ok := s.Properties[k]
		if !ok {
			return &ArgumentError{Path: join(path, k), Reason: "unknown argument"}
		}
		if obj[k] == nil {
			continue
		}
		if err := prop.validateValue(join(path, k), obj[k]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) validateValue(path string, v any) error {
	switch s.Type {
	case TypeString:
		str, ok := v.(string)
		if !ok {
			return typeError(path, s.Type, v)
		}
		if len(s.Enum) > 0 && !slices.Contains(s.Enum, str) {
			return &ArgumentError{Path: path, Reason: fmt.Sprintf("must be one of %v", s.Enum)}
		}
	case TypeNumber:
		if _, ok := toFloat(v); !ok {
			return typeError(path, s.Type, v)
		}
	case TypeInteger:
		f, ok := toFloat(v)
		if !ok || f != math.Trunc(f) {
			return typeError(path, s.Type, v)
		}
	case TypeBoolean:
		if _, ok := v.(bool); !ok {
			return typeError(path, s.Type, v)
		}
	case TypeArray:
		items, ok := v.([]any)
		if !ok {
			if strs, isStrs := v.([]string); isStrs {
				items = make([]any, len(strs))
				for i, str := range strs {
					items[i] = str
				}
			} else {
				return typeError(path, s.Type, v)
			}
		}
		if s.Items != nil {
			for i, item := range items {
				if err := s.Items.validateValue(fmt.Sprintf("%s[%d]", path, i), item); err != nil {
					return err
				}
			}
		}
	case TypeObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return typeError(path, s.Type, v)
		}
		if s.Properties != nil {
			return s.validateObject(path, obj)
		}
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func typeError(path string, want Type, got any) error {
	return &ArgumentError{Path: path, Reason: fmt.Sprintf("must be %s, got %T", want, got)}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// Package settings merges model option schemas with sparse override maps
// into concrete configurations. All functions are pure; none hold state
// between calls.
package settings

import (
	"fmt"
	"sort"

	"github.com/shapiromatron/hawc-sub006/internal/models"
)

// Defaults returns a fresh map of wire-encoded default values keyed by each
// field's own key. The result never aliases the schema's field table.
func Defaults(fields map[string]models.Field) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f.Key()] = f.Default()
	}
	return out
}

// Merge overlays overrides on the field defaults and returns the combined
// configuration in wire encoding. Merging an empty override map yields the
// same result as Defaults.
func Merge(fields map[string]models.Field, overrides map[string]any) map[string]any {
	out := Defaults(fields)
	for k, v := range overrides {
		if v == nil {
			continue
		}
		if _, ok := out[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Resolve returns the merged configuration with every value decoded to its
// field's native type: booleans as true/false rather than 0/1, integers as
// int, parameter assignments as ParameterValue.
func Resolve(fields map[string]models.Field, overrides map[string]any) (map[string]any, error) {
	merged := Merge(fields, overrides)
	out := make(map[string]any, len(merged))
	for key, raw := range merged {
		f, ok := fields[key]
		if !ok {
			return nil, fmt.Errorf("no field descriptor for key %q", key)
		}
		v, err := Decode(f, raw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		out[key] = v
	}
	return out, nil
}

// Overridden reports whether the key carries an explicit override value.
func Overridden(overrides map[string]any, key string) bool {
	v, ok := overrides[key]
	return ok && v != nil
}

// Override is one entry in a non-default settings summary.
type Override struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// OverrideSummary lists the fields with explicit overrides, in key order,
// with decoded values for display.
func OverrideSummary(fields map[string]models.Field, overrides map[string]any) []Override {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		if Overridden(overrides, k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var out []Override
	for _, k := range keys {
		f, ok := fields[k]
		if !ok {
			continue
		}
		v, err := Decode(f, overrides[k])
		if err != nil {
			v = overrides[k]
		}
		out = append(out, Override{Key: k, Name: f.Name(), Value: v})
	}
	return out
}

// Decode coerces a wire-encoded value to the field's native type. The switch
// is exhaustive over the field kinds; an unhandled kind is a defect in this
// package, not a runtime condition.
func Decode(f models.Field, raw any) (any, error) {
	switch f := f.(type) {
	case *models.IntegerField:
		return toInt(raw)
	case *models.FloatField:
		return toFloat(raw)
	case *models.BooleanField:
		return DecodeBool(raw)
	case *models.ChoiceField:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected string for choice field, got %T", raw)
		}
		return s, nil
	case *models.ParameterField:
		return toParameterValue(raw)
	default:
		return nil, fmt.Errorf("unhandled field kind %T", f)
	}
}

// Encode converts a native value back to wire encoding for storage in an
// override map. Booleans become 0/1; everything else passes through.
func Encode(f models.Field, v any) any {
	if _, ok := f.(*models.BooleanField); ok {
		if b, isBool := v.(bool); isBool {
			return EncodeBool(b)
		}
	}
	return v
}

// DecodeBool coerces the remote 0/1 boolean encoding (and plain bools) to a
// Go bool.
func DecodeBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case float64:
		return v != 0, nil
	default:
		return false, fmt.Errorf("expected 0/1 or bool, got %T", raw)
	}
}

// EncodeBool converts a bool to the remote 0/1 encoding.
func EncodeBool(b bool) int {
	if b {
		return 1
	}
	return 0
}

func toInt(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", raw)
	}
}

func toFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", raw)
	}
}

func toParameterValue(raw any) (models.ParameterValue, error) {
	switch v := raw.(type) {
	case models.ParameterValue:
		return v, nil
	case map[string]any:
		var pv models.ParameterValue
		t, _ := v["t"].(string)
		pv.Type = t
		if val, ok := v["v"]; ok {
			f, err := toFloat(val)
			if err != nil {
				return pv, err
			}
			pv.Value = f
		}
		return pv, nil
	default:
		return models.ParameterValue{}, fmt.Errorf("expected parameter assignment, got %T", raw)
	}
}

package models

import (
	"fmt"
	"sort"
)

// RawOptionSchema is the wire form of a model option schema. Defaults maps a
// dictionary key to an undecoded field descriptor; the descriptor itself may
// omit its own "key" entry.
type RawOptionSchema struct {
	Name     string                    `json:"name"`
	Defaults map[string]map[string]any `json:"defaults"`
}

// ModelOptionSchema is the decoded, immutable option schema for one model
// type. Fields is keyed by each field's own key, which is author-supplied and
// may differ from the wire dictionary key.
type ModelOptionSchema struct {
	Name   string
	Fields map[string]Field
}

// DecodeOptionSchema decodes a raw schema. Descriptors that omit their own
// key are stamped with the dictionary key they were stored under before
// decoding; the remote payload relies on this injection.
func DecodeOptionSchema(raw RawOptionSchema) (*ModelOptionSchema, error) {
	fields := make(map[string]Field, len(raw.Defaults))
	for dictKey, rawField := range raw.Defaults {
		stamped := make(map[string]any, len(rawField)+1)
		for k, v := range rawField {
			stamped[k] = v
		}
		if _, ok := stamped["key"]; !ok {
			stamped["key"] = dictKey
		}

		f, err := DecodeField(stamped)
		if err != nil {
			return nil, fmt.Errorf("schema %q, field %q: %w", raw.Name, dictKey, err)
		}
		fields[f.Key()] = f
	}
	return &ModelOptionSchema{Name: raw.Name, Fields: fields}, nil
}

// FieldKeys returns the schema's field keys in sorted order.
func (s *ModelOptionSchema) FieldKeys() []string {
	keys := make([]string, 0, len(s.Fields))
	for k := range s.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

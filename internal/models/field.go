package models

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// FieldType identifies the kind of an option field. The values match the
// wire codes used by the remote system.
type FieldType string

const (
	FieldInteger           FieldType = "i"
	FieldFloat             FieldType = "d"
	FieldBoolean           FieldType = "b"
	FieldChoice            FieldType = "dd"
	FieldParameter         FieldType = "p"
	FieldParameterRestrict FieldType = "rp"
)

// FieldCategory groups option fields for display and serialization.
type FieldCategory string

const (
	CategoryModel     FieldCategory = "model"
	CategoryOptimizer FieldCategory = "optimizer"
	CategoryParameter FieldCategory = "parameter"
)

// Field is a typed option-field descriptor. Each kind carries the payload
// shape it needs; Default returns the wire-encoded default value, so boolean
// defaults come back as 0/1 rather than true/false.
type Field interface {
	Key() string
	Name() string
	Type() FieldType
	Category() FieldCategory
	Default() any
}

// FieldMeta holds the attributes shared by every field kind.
type FieldMeta struct {
	FieldKey      string        `mapstructure:"key" json:"key"`
	FieldName     string        `mapstructure:"name" json:"name"`
	FieldCategory FieldCategory `mapstructure:"category" json:"category"`
}

func (m FieldMeta) Key() string             { return m.FieldKey }
func (m FieldMeta) Name() string            { return m.FieldName }
func (m FieldMeta) Category() FieldCategory { return m.FieldCategory }

// IntegerField is a whole-number option.
type IntegerField struct {
	FieldMeta    `mapstructure:",squash"`
	DefaultValue int `mapstructure:"default"`
}

func (f *IntegerField) Type() FieldType { return FieldInteger }
func (f *IntegerField) Default() any    { return f.DefaultValue }

// FloatField is a real-valued option.
type FloatField struct {
	FieldMeta    `mapstructure:",squash"`
	DefaultValue float64 `mapstructure:"default"`
}

func (f *FloatField) Type() FieldType { return FieldFloat }
func (f *FloatField) Default() any    { return f.DefaultValue }

// BooleanField is a true/false option. The remote system stores these as 0/1;
// DefaultValue holds the decoded form and Default re-encodes it.
type BooleanField struct {
	FieldMeta    `mapstructure:",squash"`
	DefaultValue bool `mapstructure:"default"`
}

func (f *BooleanField) Type() FieldType { return FieldBoolean }

func (f *BooleanField) Default() any {
	if f.DefaultValue {
		return 1
	}
	return 0
}

// Choice is one selectable value of a ChoiceField.
type Choice struct {
	Value string `mapstructure:"value" json:"value"`
	Label string `mapstructure:"label" json:"label"`
}

// ChoiceField is a discrete-choice option.
type ChoiceField struct {
	FieldMeta    `mapstructure:",squash"`
	DefaultValue string   `mapstructure:"default"`
	Choices      []Choice `mapstructure:"choices"`
}

func (f *ChoiceField) Type() FieldType { return FieldChoice }
func (f *ChoiceField) Default() any    { return f.DefaultValue }

// ParameterValue is a per-parameter assignment: how a single curve parameter
// is treated by the fit.
type ParameterValue struct {
	// Type is the assignment mode: "d" default, "s" specified, "i" initialized.
	Type  string  `mapstructure:"t" json:"t"`
	Value float64 `mapstructure:"v" json:"v"`
}

// ParameterField assigns a value or mode to one curve parameter. Restricted
// marks parameters whose sign is constrained by the model form.
type ParameterField struct {
	FieldMeta    `mapstructure:",squash"`
	DefaultValue ParameterValue `mapstructure:"default"`
	Restricted   bool
}

func (f *ParameterField) Type() FieldType {
	if f.Restricted {
		return FieldParameterRestrict
	}
	return FieldParameter
}

func (f *ParameterField) Default() any { return f.DefaultValue }

// DecodeField decodes a raw field descriptor into its typed kind. The raw map
// must carry a "type" entry with one of the wire codes; unknown codes are an
// error rather than a silent fallback.
func DecodeField(raw map[string]any) (Field, error) {
	code, _ := raw["type"].(string)

	switch FieldType(code) {
	case FieldInteger:
		var f IntegerField
		if err := decodeWeak(raw, &f); err != nil {
			return nil, err
		}
		return &f, nil
	case FieldFloat:
		var f FloatField
		if err := decodeWeak(raw, &f); err != nil {
			return nil, err
		}
		return &f, nil
	case FieldBoolean:
		var f BooleanField
		if err := decodeWeak(raw, &f); err != nil {
			return nil, err
		}
		return &f, nil
	case FieldChoice:
		var f ChoiceField
		if err := decodeWeak(raw, &f); err != nil {
			return nil, err
		}
		return &f, nil
	case FieldParameter, FieldParameterRestrict:
		var f ParameterField
		if err := decodeWeak(raw, &f); err != nil {
			return nil, err
		}
		f.Restricted = FieldType(code) == FieldParameterRestrict
		return &f, nil
	default:
		return nil, fmt.Errorf("%q is not a valid field type", code)
	}
}

// decodeWeak decodes a raw map with weak typing, so JSON numbers (float64)
// fill integer fields and 0/1 payloads fill booleans.
func decodeWeak(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

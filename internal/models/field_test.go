package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeField_Kinds(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[string]any
		wantType FieldType
	}{
		{
			name: "integer",
			raw: map[string]any{
				"key": "degree_poly", "name": "Degree", "type": "i",
				"default": float64(2), "category": "model",
			},
			wantType: FieldInteger,
		},
		{
			name: "float",
			raw: map[string]any{
				"key": "bmr_value", "name": "BMR value", "type": "d",
				"default": 0.1, "category": "optimizer",
			},
			wantType: FieldFloat,
		},
		{
			name: "boolean",
			raw: map[string]any{
				"key": "append_or_overwrite", "name": "Append", "type": "b",
				"default": float64(1), "category": "optimizer",
			},
			wantType: FieldBoolean,
		},
		{
			name: "choice",
			raw: map[string]any{
				"key": "dose_drop", "name": "Doses to drop", "type": "dd",
				"default": "0", "category": "optimizer",
				"choices": []any{map[string]any{"value": "0", "label": "0"}},
			},
			wantType: FieldChoice,
		},
		{
			name: "parameter",
			raw: map[string]any{
				"key": "background", "name": "Background", "type": "p",
				"default": map[string]any{"t": "d", "v": float64(0)}, "category": "parameter",
			},
			wantType: FieldParameter,
		},
		{
			name: "restricted parameter",
			raw: map[string]any{
				"key": "slope", "name": "Slope", "type": "rp",
				"default": map[string]any{"t": "d", "v": float64(0)}, "category": "parameter",
			},
			wantType: FieldParameterRestrict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := DecodeField(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, f.Type())
			assert.Equal(t, tt.raw["key"], f.Key())
			assert.Equal(t, tt.raw["name"], f.Name())
		})
	}
}

func TestDecodeField_BooleanDefaultCoercion(t *testing.T) {
	f, err := DecodeField(map[string]any{
		"key": "cv", "name": "Constant variance", "type": "b",
		"default": float64(1), "category": "model",
	})
	require.NoError(t, err)

	b, ok := f.(*BooleanField)
	require.True(t, ok)
	assert.True(t, b.DefaultValue)

	// The wire default stays 0/1 encoded.
	assert.Equal(t, 1, f.Default())
}

func TestDecodeField_InvalidType(t *testing.T) {
	_, err := DecodeField(map[string]any{"key": "x", "type": "zz"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid field type")
}

func TestDecodeOptionSchema_KeyInjection(t *testing.T) {
	raw := RawOptionSchema{
		Name: "Linear",
		Defaults: map[string]map[string]any{
			// No "key" entry; the dictionary key must be stamped in.
			"degree_poly": {
				"name": "Degree", "type": "i", "default": float64(2), "category": "model",
			},
			// An explicit key wins over the dictionary key.
			"dict_key": {
				"key": "author_key", "name": "Authored", "type": "i",
				"default": float64(0), "category": "model",
			},
		},
	}

	schema, err := DecodeOptionSchema(raw)
	require.NoError(t, err)

	require.Contains(t, schema.Fields, "degree_poly")
	assert.Equal(t, "degree_poly", schema.Fields["degree_poly"].Key())

	// The field is indexed by its own key, not the dictionary key.
	require.Contains(t, schema.Fields, "author_key")
	assert.NotContains(t, schema.Fields, "dict_key")

	// The raw payload is not mutated by the stamping.
	assert.NotContains(t, raw.Defaults["degree_poly"], "key")
}

func TestDecodeOptionSchema_InvalidField(t *testing.T) {
	raw := RawOptionSchema{
		Name: "Broken",
		Defaults: map[string]map[string]any{
			"bad": {"name": "Bad", "type": "??", "category": "model"},
		},
	}

	_, err := DecodeOptionSchema(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `schema "Broken"`)
}

package forms

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringify(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", " as is ", " as is "},
		{"true", true, "true"},
		{"integral float", float64(42), "42"},
		{"fraction", 2.5, "2.5"},
		{"large", 1e21, "1000000000000000000000"},
		{"json number", json.Number("7.10"), "7.10"},
		{"int", 3, "3"},
		{"array", []any{"a", float64(1), true}, "a,1,true"},
		{"strings", []string{"x", "y"}, "x,y"},
		{"object", map[string]any{"b": float64(1), "a": "z"}, `{"a":"z","b":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stringify(tt.in))
		})
	}
}

func TestNormalizeValues(t *testing.T) {
	got := normalizeValues(map[string]any{
		"Your name":  "second",
		"Your  name": "first",
		"Age":        float64(30),
		"   ":        "dropped",
		"":           "dropped",
	})
	assert.Equal(t, map[string]string{
		"Your_name": "second",
		"Age":       "30",
		"_":         "dropped",
	}, got)
}

func TestMergeExtra(t *testing.T) {
	fields := map[string]string{
		"Name":   "Ada",
		"_extra": `{"Name":"shadowed","utm":"mail"}`,
	}
	require.NoError(t, mergeExtra(fields))
	assert.Equal(t, map[string]string{"Name": "Ada", "utm": "mail"}, fields)

	bad := map[string]string{"_extra": "{oops"}
	assert.Error(t, mergeExtra(bad))
	assert.Equal(t, "{oops", bad["_extra"])

	none := map[string]string{"a": "b"}
	require.NoError(t, mergeExtra(none))
	assert.Equal(t, map[string]string{"a": "b"}, none)
}

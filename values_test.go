package formflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Active  bool   `json:"active"`
	Address struct {
		City string `json:"city"`
	} `json:"address"`
}

func TestApplyValue(t *testing.T) {
	p, err := applyValue(profile{}, "/name", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)

	p, err = applyValue(p, "/age", int64(30))
	require.NoError(t, err)
	assert.Equal(t, 30, p.Age)

	p, err = applyValue(p, "/active", true)
	require.NoError(t, err)
	assert.True(t, p.Active)

	p, err = applyValue(p, "/address/city", "Berlin")
	require.NoError(t, err)
	assert.Equal(t, "Berlin", p.Address.City)

	// Earlier commits survive later ones.
	assert.Equal(t, "Alice", p.Name)
}

func TestApplyValueRejectsWrongType(t *testing.T) {
	_, err := applyValue(profile{}, "/age", "not a number")
	require.Error(t, err)
}

func TestPointerValue(t *testing.T) {
	p := profile{Name: "Alice"}
	p.Address.City = "Berlin"
	doc, err := valueDocument(p)
	require.NoError(t, err)

	v, ok := pointerValue(doc, "/name")
	require.True(t, ok)
	assert.Equal(t, "Alice", v)

	v, ok = pointerValue(doc, "/address/city")
	require.True(t, ok)
	assert.Equal(t, "Berlin", v)

	_, ok = pointerValue(doc, "/missing")
	assert.False(t, ok)

	_, ok = pointerValue(doc, "/name/deeper")
	assert.False(t, ok)
}

func TestIsUnknownValue(t *testing.T) {
	cases := []struct {
		name    string
		value   any
		present bool
		unknown bool
	}{
		{"absent", nil, false, true},
		{"nil", nil, true, true},
		{"empty string", "", true, true},
		{"string", "x", true, false},
		{"zero number", float64(0), true, true},
		{"number", float64(4), true, false},
		{"false", false, true, true},
		{"true", true, true, false},
		{"empty list", []any{}, true, true},
		{"list", []any{"a"}, true, false},
		{"empty object", map[string]any{}, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.unknown, isUnknownValue(tc.value, tc.present))
		})
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "4", formatValue(float64(4), "Unspecified"))
	assert.Equal(t, "3.5", formatValue(3.5, "Unspecified"))
	assert.Equal(t, "Alice", formatValue("Alice", "Unspecified"))
	assert.Equal(t, "Unspecified", formatValue("", "Unspecified"))
	assert.Equal(t, "true", formatValue(true, "Unspecified"))
}

func TestPointerTokenEscaping(t *testing.T) {
	assert.Equal(t, "a~1b", escapePointerToken("a/b"))
	assert.Equal(t, "a~0b", escapePointerToken("a~b"))
	assert.Equal(t, "a/b", unescapePointerToken("a~1b"))
	assert.Equal(t, "a~b", unescapePointerToken("a~0b"))
}

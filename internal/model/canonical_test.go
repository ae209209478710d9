package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"negative int", -100, "-100"},
		{"float", 3.25, "3.25"},
		{"bool", true, "true"},
		{"null", nil, "null"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"array", []int{1, 2, 3}, "[1,2,3]"},
		{"object", map[string]int{"a": 1}, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalSortsNestedKeys(t *testing.T) {
	obj := map[string]any{
		"z": map[string]any{"b": 1, "a": 2},
		"a": 3,
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":3,"z":{"a":2,"b":1}}`, string(result))
}

func TestMarshalCanonicalStructFieldsSorted(t *testing.T) {
	type record struct {
		Zeta  string `json:"zeta"`
		Alpha string `json:"alpha"`
	}

	result, err := MarshalCanonical(record{Zeta: "z", Alpha: "a"})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":"a","zeta":"z"}`, string(result))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	result, err := MarshalCanonical("<a & b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a & b>"`, string(result))
}

func TestMarshalCanonicalLineSeparatorsLiteral(t *testing.T) {
	result, err := MarshalCanonical("a\u2028b\u2029c")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(result))
}

func TestMarshalCanonicalControlCharacters(t *testing.T) {
	result, err := MarshalCanonical("tab\there\nquote\"back\\\x01")
	require.NoError(t, err)
	assert.Equal(t, `"tab\there\nquote\"back\\\u0001"`, string(result))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// e + combining acute accent normalizes to U+00E9
	result, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(result))
}

func TestSortedKeysRFC8785Order(t *testing.T) {
	obj := map[string]int{
		"a":  1,
		"A":  2,
		"aa": 3,
		"aA": 4,
		"Aa": 5,
		"AA": 6,
	}

	assert.Equal(t, []string{"A", "AA", "Aa", "a", "aA", "aa"}, SortedKeys(obj))
}

func TestSortedKeysUTF16Surrogates(t *testing.T) {
	// U+1F600 encodes as surrogates 0xD83D 0xDE00, which sort before U+FB01 (0xFB01)
	// in UTF-16 even though UTF-8 byte order says the opposite.
	obj := map[string]int{
		"\ufb01":     1,
		"\U0001F600": 2,
	}

	assert.Equal(t, []string{"\U0001F600", "\ufb01"}, SortedKeys(obj))
}

func TestArtifactHashDeterministic(t *testing.T) {
	line := []byte(`{"a":1}`)

	h1 := ArtifactHash(line)
	h2 := ArtifactHash(line)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
	assert.NotEqual(t, h1, ArtifactHash([]byte(`{"a":2}`)))
}

func TestMarshalCanonicalNFCKeyCollision(t *testing.T) {
	obj := map[string]any{
		"\u00e9":  "precomposed",
		"e\u0301": "decomposed",
	}

	_, err := MarshalCanonical(map[string]any{"metadata": obj})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "equal after NFC normalization")
	assert.Contains(t, err.Error(), `value for key "metadata"`)
}

func TestMarshalCanonicalNormalizesKeysBeforeSorting(t *testing.T) {
	// "e\u0301" sorts before "f", its NFC form U+00E9 sorts after.
	obj := map[string]any{"e\u0301": 1, "f": 2}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, "{\"f\":2,\"\u00e9\":1}", string(result))
}

package property

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sgferrors "sgfgrove/internal/errors"
)

func TestScalarParse(t *testing.T) {
	tests := []struct {
		name  string
		codec Codec
		raw   string
		want  any
	}{
		{"number", Number, "42", 42},
		{"signed number", Number, "-7", -7},
		{"plus number", Number, "+3", 3},
		{"real", Real, "6.5", 6.5},
		{"real integer", Real, "6", 6.0},
		{"legacy real trailing dot", LegacyReal, "6.", 6.0},
		{"double one", Double, "1", 1},
		{"double two", Double, "2", 2},
		{"color", Color, "W", "W"},
		{"none", None, "", nil},
		{"opaque", Opaque, `a\]b`, "a]b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.codec.ParseValue(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScalarParseRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		codec Codec
		raw   string
	}{
		{"number with dot", Number, "1.5"},
		{"empty number", Number, ""},
		{"real trailing dot", Real, "6."},
		{"double three", Double, "3"},
		{"lowercase color", Color, "b"},
		{"none with content", None, "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.codec.ParseValue(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, sgferrors.ErrType)
		})
	}
}

func TestScalarStringify(t *testing.T) {
	tests := []struct {
		name  string
		codec Codec
		value any
		want  string
	}{
		{"number", Number, 19, "19"},
		{"number int64", Number, int64(-3), "-3"},
		{"number json", Number, json.Number("4"), "4"},
		{"real", Real, 6.5, "6.5"},
		{"real from int", Real, 7, "7"},
		{"real json", Real, json.Number("0.5"), "0.5"},
		{"double", Double, 2, "2"},
		{"color", Color, "B", "B"},
		{"none", None, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.codec.StringifyValue(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScalarStringifyRejectsWrongShape(t *testing.T) {
	tests := []struct {
		name  string
		codec Codec
		value any
	}{
		{"number from string", Number, "4"},
		{"number from float", Number, 4.5},
		{"number json real", Number, json.Number("4.5")},
		{"double out of range", Double, 3},
		{"color from int", Color, 1},
		{"color invalid", Color, "X"},
		{"none with value", None, "x"},
		{"text from int", Text, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.codec.StringifyValue(tt.value)
			assert.ErrorIs(t, err, sgferrors.ErrType)
		})
	}
}

func TestTextUnescape(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		text   string
		simple string
	}{
		{"plain", "hello", "hello", "hello"},
		{"escaped bracket", `a\]b`, "a]b", "a]b"},
		{"escaped backslash", `a\\b`, `a\b`, `a\b`},
		{"escaped colon", `a\:b`, "a:b", "a:b"},
		{"soft line break", "a\\\nb", "ab", "ab"},
		{"soft crlf", "a\\\r\nb", "ab", "ab"},
		{"hard line break", "a\nb", "a\nb", "a b"},
		{"hard crlf", "a\r\nb", "a\r\nb", "a b"},
		{"tab", "a\tb", "a b", "a b"},
		{"vertical tab", "a\vb", "a b", "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Text.ParseValue(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.text, got)

			got, err = SimpleText.ParseValue(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.simple, got)
		})
	}
}

func TestTextEscape(t *testing.T) {
	got, err := Text.StringifyValue(`a]b\c:d`)
	require.NoError(t, err)
	assert.Equal(t, `a\]b\\c\:d`, got)

	back, err := Text.ParseValue(got)
	require.NoError(t, err)
	assert.Equal(t, `a]b\c:d`, back)
}

func TestSingleArity(t *testing.T) {
	typ := Single(Number)

	_, err := typ.Parse([]string{"1", "2"})
	assert.ErrorIs(t, err, sgferrors.ErrType)

	v, err := typ.Parse([]string{"5"})
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	raw, err := typ.Stringify(5)
	require.NoError(t, err)
	assert.Equal(t, []string{"5"}, raw)
}

func TestUnknown(t *testing.T) {
	v, err := Unknown.Parse([]string{`foo\]`, `a\\b`})
	require.NoError(t, err)
	assert.Equal(t, []any{"foo]", `a\\b`}, v)

	raw, err := Unknown.Stringify(v)
	require.NoError(t, err)
	assert.Equal(t, []string{`foo\]`, `a\\b`}, raw)

	raw, err = Unknown.Stringify("x]")
	require.NoError(t, err)
	assert.Equal(t, []string{`x\]`}, raw)

	raw, err = Unknown.Stringify([]any{})
	require.NoError(t, err)
	assert.Equal(t, []string{""}, raw)

	_, err = Unknown.Stringify(3)
	assert.ErrorIs(t, err, sgferrors.ErrType)
}

// Package property holds the codecs that convert raw SGF property values to
// typed Go values and back, and the per file format property tables.
package property

import (
	"encoding/json"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	sgferrors "sgfgrove/internal/errors"
)

// Codec converts a single bracketed value.
type Codec interface {
	ParseValue(raw string) (any, error)
	StringifyValue(v any) (string, error)
}

// Type converts the complete value list of one property.
type Type interface {
	Parse(values []string) (any, error)
	Stringify(v any) ([]string, error)
}

// scalar is a Codec whose raw form is checked against pattern before parse
// and after stringify.
type scalar struct {
	name      string
	pattern   *regexp.Regexp
	parse     func(raw string) (any, error)
	stringify func(v any) (string, error)
}

func (s scalar) ParseValue(raw string) (any, error) {
	if s.pattern != nil && !s.pattern.MatchString(raw) {
		return nil, sgferrors.Typef("%s: malformed value %q", s.name, raw)
	}
	return s.parse(raw)
}

func (s scalar) StringifyValue(v any) (string, error) {
	raw, err := s.stringify(v)
	if err != nil {
		return "", err
	}
	if s.pattern != nil && !s.pattern.MatchString(raw) {
		return "", sgferrors.Typef("%s: %v does not produce a valid value", s.name, v)
	}
	return raw, nil
}

func (s scalar) String() string { return s.name }

type single struct {
	codec Codec
}

// Single turns a Codec into a Type that accepts exactly one value.
func Single(c Codec) Type {
	return single{codec: c}
}

func (s single) Parse(values []string) (any, error) {
	if len(values) != 1 {
		return nil, sgferrors.Typef("expected exactly one value, got %d", len(values))
	}
	return s.codec.ParseValue(values[0])
}

func (s single) Stringify(v any) ([]string, error) {
	raw, err := s.codec.StringifyValue(v)
	if err != nil {
		return nil, err
	}
	return []string{raw}, nil
}

var (
	numberPattern     = regexp.MustCompile(`^[+-]?\d+$`)
	realPattern       = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)
	legacyRealPattern = regexp.MustCompile(`^[+-]?\d+(\.\d*)?$`)
	doublePattern     = regexp.MustCompile(`^[12]$`)
	colorPattern      = regexp.MustCompile(`^[BW]$`)
	nonePattern       = regexp.MustCompile(`^$`)
)

var Number Codec = scalar{
	name:    "Number",
	pattern: numberPattern,
	parse: func(raw string) (any, error) {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, sgferrors.Typef("Number: %q out of range", raw)
		}
		return n, nil
	},
	stringify: func(v any) (string, error) {
		n, ok := toInt(v)
		if !ok {
			return "", sgferrors.Typef("Number: %T is not an integer", v)
		}
		return strconv.Itoa(n), nil
	},
}

// Real is the FF[4] real number; LegacyReal also accepts a trailing dot.
var (
	Real       Codec = newReal("Real", realPattern)
	LegacyReal Codec = newReal("Real", legacyRealPattern)
)

func newReal(name string, pattern *regexp.Regexp) Codec {
	return scalar{
		name:    name,
		pattern: pattern,
		parse: func(raw string) (any, error) {
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, sgferrors.Typef("%s: %q out of range", name, raw)
			}
			return f, nil
		},
		stringify: func(v any) (string, error) {
			f, ok := toFloat(v)
			if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
				return "", sgferrors.Typef("%s: %v is not a finite number", name, v)
			}
			return strconv.FormatFloat(f, 'f', -1, 64), nil
		},
	}
}

var Double Codec = scalar{
	name:    "Double",
	pattern: doublePattern,
	parse: func(raw string) (any, error) {
		return int(raw[0] - '0'), nil
	},
	stringify: func(v any) (string, error) {
		n, ok := toInt(v)
		if !ok {
			return "", sgferrors.Typef("Double: %T is not an integer", v)
		}
		return strconv.Itoa(n), nil
	},
}

var Color Codec = scalar{
	name:    "Color",
	pattern: colorPattern,
	parse: func(raw string) (any, error) {
		return raw, nil
	},
	stringify: stringOnly("Color"),
}

var None Codec = scalar{
	name:    "None",
	pattern: nonePattern,
	parse: func(string) (any, error) {
		return nil, nil
	},
	stringify: func(v any) (string, error) {
		if v != nil {
			return "", sgferrors.Typef("None: expected no value, got %T", v)
		}
		return "", nil
	},
}

var Text Codec = scalar{
	name: "Text",
	parse: func(raw string) (any, error) {
		return unescapeText(raw, false), nil
	},
	stringify: func(v any) (string, error) {
		s, ok := v.(string)
		if !ok {
			return "", sgferrors.Typef("Text: %T is not a string", v)
		}
		return escapeText(s), nil
	},
}

var SimpleText Codec = scalar{
	name: "SimpleText",
	parse: func(raw string) (any, error) {
		return unescapeText(raw, true), nil
	},
	stringify: func(v any) (string, error) {
		s, ok := v.(string)
		if !ok {
			return "", sgferrors.Typef("SimpleText: %T is not a string", v)
		}
		return escapeText(s), nil
	},
}

// Opaque keeps the value as written apart from the \] escape. It stands in for
// points and moves of games without dedicated coordinate rules.
var Opaque Codec = scalar{
	name: "Value",
	parse: func(raw string) (any, error) {
		return unescapeBracket(raw), nil
	},
	stringify: func(v any) (string, error) {
		s, ok := v.(string)
		if !ok {
			return "", sgferrors.Typef("Value: %T is not a string", v)
		}
		return escapeBracket(s), nil
	},
}

// Unknown is the fallback Type for identifiers missing from a table. It
// always yields one string per bracketed value.
var Unknown Type = unknown{}

type unknown struct{}

func (unknown) Parse(values []string) (any, error) {
	out := make([]any, len(values))
	for i, raw := range values {
		out[i] = unescapeBracket(raw)
	}
	return out, nil
}

func (unknown) Stringify(v any) ([]string, error) {
	if s, ok := v.(string); ok {
		return []string{escapeBracket(s)}, nil
	}
	items, ok := toSlice(v)
	if !ok {
		return nil, sgferrors.Typef("Unknown: %T is neither a string nor a list", v)
	}
	if len(items) == 0 {
		return []string{""}, nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, isString := item.(string)
		if !isString {
			return nil, sgferrors.Typef("Unknown: item %d is %T, not a string", i, item)
		}
		out[i] = escapeBracket(s)
	}
	return out, nil
}

func stringOnly(name string) func(v any) (string, error) {
	return func(v any) (string, error) {
		s, ok := v.(string)
		if !ok {
			return "", sgferrors.Typef("%s: %T is not a string", name, v)
		}
		return s, nil
	}
}

// unescapeText resolves SGF text escapes in one pass: soft line breaks are
// dropped, whitespace other than line breaks becomes a space and \x becomes x.
// In simple mode line breaks become spaces as well.
func unescapeText(raw string, simple bool) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '\\' && i+1 < len(raw) {
			i++
			c = raw[i]
			if isLineBreak(c) {
				i += pairedBreak(raw, i)
				continue
			}
		} else if simple && isLineBreak(c) {
			i += pairedBreak(raw, i)
			b.WriteByte(' ')
			continue
		}
		if isBlank(c) {
			c = ' '
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isLineBreak(c byte) bool { return c == '\n' || c == '\r' }

func isBlank(c byte) bool { return c == ' ' || c == '\t' || c == '\v' || c == '\f' }

// pairedBreak returns 1 when raw[i] starts a CRLF or LFCR pair.
func pairedBreak(raw string, i int) int {
	if i+1 < len(raw) && isLineBreak(raw[i+1]) && raw[i+1] != raw[i] {
		return 1
	}
	return 0
}

var textEscaper = strings.NewReplacer(`\`, `\\`, `]`, `\]`, `:`, `\:`)

func escapeText(s string) string { return textEscaper.Replace(s) }

func unescapeBracket(raw string) string { return strings.ReplaceAll(raw, `\]`, `]`) }

func escapeBracket(s string) string { return strings.ReplaceAll(s, `]`, `\]`) }

// splitCompose splits raw at its first colon that is not escaped.
func splitCompose(raw string) (string, string, bool) {
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '\\':
			i++
		case ':':
			return raw[:i], raw[i+1:], true
		}
	}
	return "", "", false
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case json.Number:
		if !numberPattern.MatchString(string(n)) {
			return 0, false
		}
		i, err := n.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}

func toFloat(v any) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	case json.Number:
		out, err := f.Float64()
		return out, err == nil
	default:
		n, ok := toInt(v)
		return float64(n), ok
	}
}

// toSlice accepts any slice or array and returns its elements.
func toSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

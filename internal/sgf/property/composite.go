package property

import (
	"sort"
	"strings"

	sgferrors "sgfgrove/internal/errors"
)

type composed struct {
	left, right Codec
}

// Compose builds the codec of a "left:right" value. The parsed value is a
// two element []any.
func Compose(left, right Codec) Codec {
	return composed{left: left, right: right}
}

func (c composed) ParseValue(raw string) (any, error) {
	l, r, ok := splitCompose(raw)
	if !ok {
		return nil, sgferrors.Typef("composed value %q has no ':' separator", raw)
	}
	a, err := c.left.ParseValue(l)
	if err != nil {
		return nil, err
	}
	b, err := c.right.ParseValue(r)
	if err != nil {
		return nil, err
	}
	return []any{a, b}, nil
}

func (c composed) StringifyValue(v any) (string, error) {
	pair, ok := toSlice(v)
	if !ok || len(pair) != 2 {
		return "", sgferrors.Typef("composed value must be a pair, got %T", v)
	}
	l, err := c.left.StringifyValue(pair[0])
	if err != nil {
		return "", err
	}
	r, err := c.right.StringifyValue(pair[1])
	if err != nil {
		return "", err
	}
	return l + ":" + r, nil
}

type list struct {
	item       Codec
	canBeEmpty bool
}

// ListOf accepts one or more values of item.
func ListOf(item Codec) Type {
	return list{item: item}
}

// EListOf is ListOf that also accepts the empty list, written as [].
func EListOf(item Codec) Type {
	return list{item: item, canBeEmpty: true}
}

func (l list) Parse(values []string) (any, error) {
	if isEmptyList(values) {
		if !l.canBeEmpty {
			return nil, sgferrors.Typef("list must not be empty")
		}
		return []any{}, nil
	}
	out := make([]any, 0, len(values))
	for _, raw := range values {
		v, err := l.item.ParseValue(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (l list) Stringify(v any) ([]string, error) {
	items, ok := toSlice(v)
	if !ok {
		return nil, sgferrors.Typef("list expected, got %T", v)
	}
	if len(items) == 0 {
		if !l.canBeEmpty {
			return nil, sgferrors.Typef("list must not be empty")
		}
		return []string{""}, nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		raw, err := l.item.StringifyValue(item)
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

func isEmptyList(values []string) bool {
	return len(values) == 0 || (len(values) == 1 && values[0] == "")
}

type either struct {
	plain, composed Codec
}

// Either picks composed for values holding an unescaped ':' (or, when
// stringifying, for slice values) and plain otherwise.
func Either(plain, composed Codec) Codec {
	return either{plain: plain, composed: composed}
}

func (e either) ParseValue(raw string) (any, error) {
	if _, _, ok := splitCompose(raw); ok {
		return e.composed.ParseValue(raw)
	}
	return e.plain.ParseValue(raw)
}

func (e either) StringifyValue(v any) (string, error) {
	if _, ok := v.(string); !ok {
		if _, isSlice := toSlice(v); isSlice {
			return e.composed.StringifyValue(v)
		}
	}
	return e.plain.StringifyValue(v)
}

// BoardSize is SZ: a square size or a columns:rows pair.
var BoardSize = Single(Either(Number, Compose(Number, Number)))

// Figure is FG: empty, or flags:name.
var Figure = Single(Either(None, Compose(Number, SimpleText)))

type label struct {
	pair Codec
}

// Label parses point:text pairs into a map from point to text.
func Label(point Codec) Type {
	return label{pair: Compose(point, SimpleText)}
}

func (l label) Parse(values []string) (any, error) {
	if isEmptyList(values) {
		return nil, sgferrors.Typef("label list must not be empty")
	}
	out := make(map[string]string, len(values))
	for _, raw := range values {
		v, err := l.pair.ParseValue(raw)
		if err != nil {
			return nil, err
		}
		pair := v.([]any)
		point, ok := pair[0].(string)
		if !ok {
			return nil, sgferrors.Typef("label point %v is not a string", pair[0])
		}
		if _, dup := out[point]; dup {
			return nil, sgferrors.Typef("point %q labelled twice", point)
		}
		out[point] = pair[1].(string)
	}
	return out, nil
}

func (l label) Stringify(v any) ([]string, error) {
	labels, err := toLabels(v)
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, sgferrors.Typef("label list must not be empty")
	}
	points := make([]string, 0, len(labels))
	for p := range labels {
		points = append(points, p)
	}
	sort.Strings(points)

	out := make([]string, len(points))
	for i, p := range points {
		raw, err := l.pair.StringifyValue([]any{p, labels[p]})
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

func toLabels(v any) (map[string]string, error) {
	switch m := v.(type) {
	case map[string]string:
		return m, nil
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, item := range m {
			s, ok := item.(string)
			if !ok {
				return nil, sgferrors.Typef("label text for %q is %T, not a string", k, item)
			}
			out[k] = s
		}
		return out, nil
	default:
		return nil, sgferrors.Typef("labels must be a map, got %T", v)
	}
}

// describe names a Type the way the tables listing prints it.
func describe(t Type) string {
	switch tt := t.(type) {
	case single:
		return codecName(tt.codec)
	case list:
		if tt.canBeEmpty {
			return "elist of " + codecName(tt.item)
		}
		return "list of " + codecName(tt.item)
	case pointList:
		name := "list of " + codecName(tt.point)
		if tt.canBeEmpty {
			name = "e" + name
		}
		if tt.compressed {
			name += " (compressed)"
		}
		return name
	case label:
		return "Label"
	case unknown:
		return "Unknown"
	default:
		return "Type"
	}
}

func codecName(c Codec) string {
	switch cc := c.(type) {
	case scalar:
		return cc.name
	case composed:
		return codecName(cc.left) + ":" + codecName(cc.right)
	case either:
		return strings.Join([]string{codecName(cc.plain), codecName(cc.composed)}, " | ")
	default:
		return "Value"
	}
}

package property

import (
	"regexp"

	sgferrors "sgfgrove/internal/errors"
)

const coordinates = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var (
	goPointPattern       = regexp.MustCompile(`^[a-zA-Z]{2}$`)
	legacyGoPointPattern = regexp.MustCompile(`^[a-s]{2}$`)
	compressedPattern    = regexp.MustCompile(`^[a-zA-Z]{2}:[a-zA-Z]{2}$`)
)

// GoPoint is an FF[4] Go point: two letters from a-z then A-Z, for boards up
// to 52x52. LegacyGoPoint is the FF[1]/FF[3] point limited to a-s.
var (
	GoPoint       Codec = newPoint("Point", goPointPattern)
	LegacyGoPoint Codec = newPoint("Point", legacyGoPointPattern)
)

func newPoint(name string, pattern *regexp.Regexp) Codec {
	return scalar{
		name:    name,
		pattern: pattern,
		parse: func(raw string) (any, error) {
			return raw, nil
		},
		stringify: stringOnly(name),
	}
}

type move struct {
	point Codec
	pass  string
}

// GoMove is an FF[4] move where the empty value is a pass. LegacyGoMove
// writes the pass as "tt". Passes parse to nil.
var (
	GoMove       Codec = move{point: GoPoint, pass: ""}
	LegacyGoMove Codec = move{point: LegacyGoPoint, pass: "tt"}
)

func (m move) ParseValue(raw string) (any, error) {
	if raw == m.pass {
		return nil, nil
	}
	return m.point.ParseValue(raw)
}

func (m move) StringifyValue(v any) (string, error) {
	if v == nil {
		return m.pass, nil
	}
	return m.point.StringifyValue(v)
}

type pointList struct {
	point      Codec
	canBeEmpty bool
	compressed bool
}

// PointList is a list of points. With compressed set, an item "p1:p2" stands
// for every point of the rectangle spanned by p1 and p2, expanded row by row.
func PointList(point Codec, canBeEmpty, compressed bool) Type {
	return pointList{point: point, canBeEmpty: canBeEmpty, compressed: compressed}
}

func (l pointList) Parse(values []string) (any, error) {
	if isEmptyList(values) {
		if !l.canBeEmpty {
			return nil, sgferrors.Typef("point list must not be empty")
		}
		return []any{}, nil
	}
	out := make([]any, 0, len(values))
	for _, raw := range values {
		if l.compressed {
			if from, to, ok := splitCompose(raw); ok {
				points, err := l.expand(from, to)
				if err != nil {
					return nil, err
				}
				out = append(out, points...)
				continue
			}
		}
		p, err := l.point.ParseValue(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (l pointList) expand(from, to string) ([]any, error) {
	if _, err := l.point.ParseValue(from); err != nil {
		return nil, err
	}
	if _, err := l.point.ParseValue(to); err != nil {
		return nil, err
	}
	if from == to {
		return nil, sgferrors.Typef("rectangle %s:%s is a single point, write it as %s", from, to, from)
	}
	x1, y1 := Coordinate(from[0]), Coordinate(from[1])
	x2, y2 := Coordinate(to[0]), Coordinate(to[1])
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	out := make([]any, 0, (x2-x1+1)*(y2-y1+1))
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			out = append(out, string([]byte{coordinates[x], coordinates[y]}))
		}
	}
	return out, nil
}

func (l pointList) Stringify(v any) ([]string, error) {
	items, ok := toSlice(v)
	if !ok {
		return nil, sgferrors.Typef("point list expected, got %T", v)
	}
	if len(items) == 0 {
		if !l.canBeEmpty {
			return nil, sgferrors.Typef("point list must not be empty")
		}
		return []string{""}, nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		if s, isString := item.(string); isString && l.compressed && compressedPattern.MatchString(s) {
			from, to, _ := splitCompose(s)
			if _, err := l.expand(from, to); err != nil {
				return nil, err
			}
			out[i] = s
			continue
		}
		raw, err := l.point.StringifyValue(item)
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

// Coordinate is the zero based index of a point letter.
func Coordinate(c byte) int {
	if c >= 'a' && c <= 'z' {
		return int(c - 'a')
	}
	return int(c-'A') + 26
}

// Package serializer writes typed game trees back to SGF text.
package serializer

import (
	"fmt"
	"sort"
	"strings"

	"sgfgrove/internal/domain/sgf"
	sgferrors "sgfgrove/internal/errors"
	"sgfgrove/internal/sgf/property"
)

// propertyOrder puts root and game info properties first; anything else
// follows in alphabetical order.
var propertyOrder = []string{
	"FF", "GM", "SZ", "CA", "AP", "ST",
	"PB", "BR", "PW", "WR", "DT", "EV", "RO", "PC", "RE", "KM", "HA", "RU", "TM", "OT",
	"C", "B", "W",
}

var orderRank = func() map[string]int {
	m := make(map[string]int, len(propertyOrder))
	for i, ident := range propertyOrder {
		m[ident] = i
	}
	return m
}()

// Serializer converts a Collection to SGF text. The zero value is ready to use.
type Serializer struct {
	// Replacer, when set, is applied top-down to each property before it is
	// converted; returning false leaves the property out.
	Replacer sgf.Transform

	// Include, when non-empty, is the list of identifiers to write.
	Include []string
}

// Stringify writes c with the default Serializer.
func Stringify(c sgf.Collection) (string, error) {
	var s Serializer
	return s.Stringify(c)
}

// Stringify writes every game tree of c. Variations holding a single tree are
// merged into their parent. Identifiers that are not valid for the format of
// the tree are skipped silently.
func (s *Serializer) Stringify(c sgf.Collection) (string, error) {
	if len(c) == 0 {
		return "", fmt.Errorf("%w: collection has no game tree", sgferrors.ErrMalformedInput)
	}

	var include map[string]struct{}
	if len(s.Include) > 0 {
		include = make(map[string]struct{}, len(s.Include))
		for _, ident := range s.Include {
			include[ident] = struct{}{}
		}
	}

	w := &writer{replacer: s.Replacer, include: include}
	for i, t := range c {
		if t == nil || len(t.Nodes) == 0 {
			return "", fmt.Errorf("%w: game tree %d has no node", sgferrors.ErrMalformedInput, i)
		}
		if err := w.tree(i, t); err != nil {
			return "", err
		}
	}
	return w.b.String(), nil
}

type writer struct {
	b        strings.Builder
	replacer sgf.Transform
	include  map[string]struct{}
}

func (w *writer) tree(index int, t *sgf.GameTree) error {
	root, table, err := resolveRoot(t.Nodes[0])
	if err != nil {
		return &sgferrors.NodeError{Tree: index, Err: err}
	}

	type frame struct {
		tree  *sgf.GameTree
		close bool
	}
	stack := []frame{{tree: t}}
	nodeIndex := 0

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.close {
			w.b.WriteByte(')')
			continue
		}

		w.b.WriteByte('(')
		cur := f.tree
		for {
			if len(cur.Nodes) == 0 {
				return &sgferrors.NodeError{Tree: index, Node: nodeIndex, Err: sgferrors.ErrEmptyTree}
			}
			for _, n := range cur.Nodes {
				if nodeIndex == 0 {
					n = root
				}
				if err := w.node(n, table); err != nil {
					return &sgferrors.NodeError{Tree: index, Node: nodeIndex, Err: err}
				}
				nodeIndex++
			}
			if len(cur.Children) != 1 {
				break
			}
			cur = cur.Children[0]
			if cur == nil {
				return &sgferrors.NodeError{Tree: index, Node: nodeIndex, Err: sgferrors.ErrMalformedInput}
			}
		}

		stack = append(stack, frame{close: true})
		for i := len(cur.Children) - 1; i >= 0; i-- {
			if cur.Children[i] == nil {
				return &sgferrors.NodeError{Tree: index, Node: nodeIndex, Err: sgferrors.ErrMalformedInput}
			}
			stack = append(stack, frame{tree: cur.Children[i]})
		}
	}
	return nil
}

func (w *writer) node(n sgf.Node, table *property.Table) error {
	w.b.WriteByte(';')
	for _, ident := range orderedKeys(n) {
		if !table.ValidIdentifier(ident) {
			continue
		}
		if w.include != nil {
			if _, ok := w.include[ident]; !ok {
				continue
			}
		}

		v, ok := sgf.Replace(ident, n[ident], w.replacer)
		if !ok {
			continue
		}
		values, err := stringifyValue(table, ident, v)
		if err != nil {
			return &sgferrors.PropertyError{Ident: ident, Payload: v, Err: err}
		}
		if len(values) == 0 {
			continue
		}

		w.b.WriteString(ident)
		for _, raw := range values {
			w.b.WriteByte('[')
			w.b.WriteString(raw)
			w.b.WriteByte(']')
		}
	}
	return nil
}

func stringifyValue(table *property.Table, ident string, v any) ([]string, error) {
	if m, ok := v.(sgf.Marshaler); ok {
		return m.MarshalSGF()
	}
	return table.Type(ident).Stringify(v)
}

func orderedKeys(n sgf.Node) []string {
	keys := make([]string, 0, len(n))
	for k := range n {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iRanked := orderRank[keys[i]]
		rj, jRanked := orderRank[keys[j]]
		switch {
		case iRanked && jRanked:
			return ri < rj
		case iRanked != jRanked:
			return iRanked
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// resolveRoot normalises FF, GM and SZ of a root node through the Number codec,
// so that values such as "4", json.Number("4") or []any{4} select the same
// table as the integer 4. The returned node carries the normalised values.
func resolveRoot(root sgf.Node) (sgf.Node, *property.Table, error) {
	ff, err := rootNumber(root, "FF")
	if err != nil {
		return nil, nil, err
	}
	gm, err := rootNumber(root, "GM")
	if err != nil {
		return nil, nil, err
	}
	table, err := property.Resolve(ff, gm)
	if err != nil {
		return nil, nil, err
	}

	normalized := make(sgf.Node, len(root))
	for k, v := range root {
		normalized[k] = v
	}
	if _, ok := root["FF"]; ok {
		normalized["FF"] = ff
	}
	if _, ok := root["GM"]; ok {
		normalized["GM"] = gm
	}
	if sz, ok := root["SZ"]; ok {
		normalized["SZ"] = normalizeSize(sz)
	}
	return normalized, table, nil
}

// normalizeSize turns a square SZ given as a string, float or one element
// slice into an int. Anything else is left for the codec to judge.
func normalizeSize(v any) any {
	switch val := v.(type) {
	case string:
		if strings.Contains(val, ":") {
			return v
		}
	case []any:
		if len(val) != 1 {
			return v
		}
	case []string:
		if len(val) != 1 {
			return v
		}
	case float64:
	default:
		return v
	}
	n, err := normalizeNumber(v)
	if err != nil {
		return v
	}
	return n
}

func rootNumber(root sgf.Node, ident string) (int, error) {
	v, ok := root[ident]
	if !ok || v == nil {
		return 1, nil
	}
	n, err := normalizeNumber(v)
	if err != nil {
		return 0, &sgferrors.PropertyError{Ident: ident, Payload: v, Err: err}
	}
	return n, nil
}

func normalizeNumber(v any) (int, error) {
	switch val := v.(type) {
	case string:
		n, err := property.Number.ParseValue(val)
		if err != nil {
			return 0, err
		}
		return n.(int), nil
	case []string:
		if len(val) == 1 {
			return normalizeNumber(val[0])
		}
	case []any:
		if len(val) == 1 {
			return normalizeNumber(val[0])
		}
	case float64:
		if val == float64(int(val)) {
			return int(val), nil
		}
	}
	raw, err := property.Number.StringifyValue(v)
	if err != nil {
		return 0, err
	}
	n, err := property.Number.ParseValue(raw)
	if err != nil {
		return 0, err
	}
	return n.(int), nil
}

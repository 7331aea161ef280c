package sgf

import "strconv"

// Transform rewrites one entry of a node or of a composite value. key is the
// property identifier, the decimal index inside a slice, or the map key of a
// label. Returning false removes the entry. Only property values are visited,
// never whole nodes or game trees. A label map whose texts come back as
// anything but strings is returned as a map[string]any.
type Transform func(key string, value any) (any, bool)

// Revive applies fn bottom-up to every property of every node in c: nested
// values are transformed before the value that contains them.
func Revive(c Collection, fn Transform) {
	if fn == nil {
		return
	}
	stack := append([]*GameTree(nil), c...)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == nil {
			continue
		}
		for _, n := range cur.Nodes {
			ReviveNode(n, fn)
		}
		stack = append(stack, cur.Children...)
	}
}

// ReviveNode applies fn bottom-up to the properties of n in place.
func ReviveNode(n Node, fn Transform) {
	for key, v := range n {
		out, ok := fn(key, reviveChildren(v, fn))
		if !ok {
			delete(n, key)
			continue
		}
		n[key] = out
	}
}

func reviveChildren(v any, fn Transform) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, 0, len(val))
		for i, item := range val {
			if res, ok := fn(strconv.Itoa(i), reviveChildren(item, fn)); ok {
				out = append(out, res)
			}
		}
		return out
	case map[string]string:
		return transformLabels(val, fn)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if res, ok := fn(k, reviveChildren(item, fn)); ok {
				out[k] = res
			}
		}
		return out
	default:
		return v
	}
}

// Replace applies fn top-down to one property: the property value first,
// then the entries of whatever value fn returned. It does not modify value.
func Replace(key string, value any, fn Transform) (any, bool) {
	if fn == nil {
		return value, true
	}
	out, ok := fn(key, value)
	if !ok {
		return nil, false
	}
	return replaceChildren(out, fn), true
}

func replaceChildren(v any, fn Transform) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, 0, len(val))
		for i, item := range val {
			if res, ok := Replace(strconv.Itoa(i), item, fn); ok {
				out = append(out, res)
			}
		}
		return out
	case map[string]string:
		return transformLabels(val, func(key string, value any) (any, bool) {
			return Replace(key, value, fn)
		})
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if res, ok := Replace(k, item, fn); ok {
				out[k] = res
			}
		}
		return out
	default:
		return v
	}
}

// transformLabels keeps the map[string]string shape until fn yields a
// non-string text.
func transformLabels(m map[string]string, fn Transform) any {
	out := make(map[string]string, len(m))
	var promoted map[string]any
	for k, item := range m {
		res, ok := fn(k, item)
		if !ok {
			continue
		}
		if text, isString := res.(string); isString && promoted == nil {
			out[k] = text
			continue
		}
		if promoted == nil {
			promoted = make(map[string]any, len(m))
			for pk, pv := range out {
				promoted[pk] = pv
			}
		}
		promoted[k] = res
	}
	if promoted != nil {
		return promoted
	}
	return out
}

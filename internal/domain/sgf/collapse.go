package sgf

// Collapse folds every variation list holding exactly one tree into its
// parent, so that (;a(;b)) and (;a;b) share one shape. It works in place and
// is idempotent.
func Collapse(c Collection) Collection {
	for _, t := range c {
		t.Collapse()
	}
	return c
}

// Collapse applies the single-variation folding to t and all its descendants.
func (t *GameTree) Collapse() *GameTree {
	if t == nil {
		return nil
	}
	stack := []*GameTree{t}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for len(cur.Children) == 1 && cur.Children[0] != nil {
			only := cur.Children[0]
			cur.Nodes = append(cur.Nodes, only.Nodes...)
			cur.Children = only.Children
		}
		for _, child := range cur.Children {
			if child != nil {
				stack = append(stack, child)
			}
		}
	}
	return t
}

// IsCollapsed reports whether no tree in c has a single variation.
func IsCollapsed(c Collection) bool {
	stack := append([]*GameTree(nil), c...)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == nil {
			continue
		}
		if len(cur.Children) == 1 {
			return false
		}
		stack = append(stack, cur.Children...)
	}
	return true
}

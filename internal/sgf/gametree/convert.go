package gametree

import (
	"fmt"

	"sgfgrove/internal/domain/sgf"
	sgferrors "sgfgrove/internal/errors"
)

// FromGameTree builds the node view of t and returns its root. Property maps
// are shared with t, not copied.
func FromGameTree(t *sgf.GameTree) (*Node, error) {
	if t == nil || len(t.Nodes) == 0 {
		return nil, sgferrors.ErrEmptyTree
	}

	type pending struct {
		tree   *sgf.GameTree
		parent *Node
	}
	var root *Node
	stack := []pending{{tree: t}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.tree == nil || len(p.tree.Nodes) == 0 {
			return nil, fmt.Errorf("%w: variation has no node", sgferrors.ErrEmptyTree)
		}

		last := p.parent
		for _, props := range p.tree.Nodes {
			n := New(props)
			if last == nil {
				root = n
			} else {
				last.children = append(last.children, n)
				n.parent = last
			}
			last = n
		}
		for i := len(p.tree.Children) - 1; i >= 0; i-- {
			stack = append(stack, pending{tree: p.tree.Children[i], parent: last})
		}
	}
	return root, nil
}

// FromCollection returns one root per game tree of c.
func FromCollection(c sgf.Collection) ([]*Node, error) {
	roots := make([]*Node, 0, len(c))
	for i, t := range c {
		r, err := FromGameTree(t)
		if err != nil {
			return nil, &sgferrors.NodeError{Tree: i, Err: err}
		}
		roots = append(roots, r)
	}
	return roots, nil
}

// GameTree converts the subtree rooted at n back to sequence form. Runs of
// nodes with a single child become one sequence, so the result is always
// collapsed.
func (n *Node) GameTree() *sgf.GameTree {
	type pending struct {
		node *Node
		tree *sgf.GameTree
	}
	out := &sgf.GameTree{}
	stack := []pending{{n, out}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cur := p.node
		for {
			p.tree.Nodes = append(p.tree.Nodes, cur.Properties)
			if len(cur.children) != 1 {
				break
			}
			cur = cur.children[0]
		}
		if len(cur.children) == 0 {
			continue
		}
		p.tree.Children = make([]*sgf.GameTree, len(cur.children))
		for i := len(cur.children) - 1; i >= 0; i-- {
			p.tree.Children[i] = &sgf.GameTree{}
			stack = append(stack, pending{cur.children[i], p.tree.Children[i]})
		}
	}
	return out
}

// ToCollection converts every root back to sequence form.
func ToCollection(roots []*Node) sgf.Collection {
	c := make(sgf.Collection, 0, len(roots))
	for _, r := range roots {
		c = append(c, r.GameTree())
	}
	return c
}

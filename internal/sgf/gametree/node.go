// Package gametree is a navigable, editable view of SGF game trees where
// every SGF node is a tree node: its children are the next node of its
// sequence, or the first nodes of the variations that follow it.
//
// Nodes are not safe for concurrent use.
package gametree

import (
	"fmt"

	"sgfgrove/internal/domain/sgf"
	sgferrors "sgfgrove/internal/errors"
)

type Node struct {
	Properties sgf.Node

	parent   *Node
	children []*Node
}

// New returns a detached node holding props.
func New(props sgf.Node) *Node {
	if props == nil {
		props = sgf.Node{}
	}
	return &Node{Properties: props}
}

func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Siblings returns the children of the parent, n included. A root is its
// only sibling.
func (n *Node) Siblings() []*Node {
	if n.parent == nil {
		return []*Node{n}
	}
	return n.parent.Children()
}

// Depth is the number of edges between n and its root.
func (n *Node) Depth() int {
	depth := 0
	for p := n.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// Index is the position of n among its siblings.
func (n *Node) Index() int {
	if n.parent == nil {
		return 0
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

func (n *Node) IsRoot() bool { return n.parent == nil }

func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Height is the longest distance from n down to a leaf.
func (n *Node) Height() int {
	type item struct {
		node  *Node
		depth int
	}
	height := 0
	stack := []item{{n, 0}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.depth > height {
			height = cur.depth
		}
		for _, c := range cur.node.children {
			stack = append(stack, item{c, cur.depth + 1})
		}
	}
	return height
}

// LeafCount is the number of distinct lines of play ending below n.
func (n *Node) LeafCount() int {
	count := 0
	n.Walk(func(cur *Node) bool {
		if cur.IsLeaf() {
			count++
		}
		return true
	})
	return count
}

// Walk visits n and its descendants in pre-order until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(cur) {
			return
		}
		for i := len(cur.children) - 1; i >= 0; i-- {
			stack = append(stack, cur.children[i])
		}
	}
}

// InsertChildAt attaches child at index i of the child list, detaching it
// from its current parent first. i is an index into the list as it is once
// child has been detached.
func (n *Node) InsertChildAt(i int, child *Node) error {
	if err := n.checkAttach(child); err != nil {
		return err
	}
	size := len(n.children)
	if child.parent == n {
		size--
	}
	if i < 0 || i > size {
		return fmt.Errorf("%w: %d not in [0, %d]", sgferrors.ErrIndexOutOfRange, i, size)
	}
	child.Detach()
	n.insert(i, child)
	return nil
}

// RemoveChildAt detaches the child at index i and returns it with its subtree.
func (n *Node) RemoveChildAt(i int) (*Node, error) {
	if i < 0 || i >= len(n.children) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", sgferrors.ErrIndexOutOfRange, i, len(n.children))
	}
	return n.children[i].Detach(), nil
}

// Remove deletes n alone: its children take its place in the parent's child
// list. A root cannot be removed; a root without children would leave an
// empty tree.
func (n *Node) Remove() error {
	if n.parent == nil {
		if len(n.children) == 0 {
			return sgferrors.ErrEmptyTree
		}
		return sgferrors.ErrNoParent
	}
	parent, idx := n.parent, n.Index()

	spliced := make([]*Node, 0, len(parent.children)-1+len(n.children))
	spliced = append(spliced, parent.children[:idx]...)
	spliced = append(spliced, n.children...)
	spliced = append(spliced, parent.children[idx+1:]...)
	for _, c := range n.children {
		c.parent = parent
	}
	parent.children = spliced
	n.parent = nil
	n.children = nil
	return nil
}

// Append attaches child as the last variation of n.
func (n *Node) Append(child *Node) error {
	size := len(n.children)
	if child != nil && child.parent == n {
		size--
	}
	return n.InsertChildAt(size, child)
}

// Prepend attaches child as the first variation of n.
func (n *Node) Prepend(child *Node) error {
	return n.InsertChildAt(0, child)
}

// Before inserts sibling right before n in the parent's child list.
func (n *Node) Before(sibling *Node) error {
	return n.insertSibling(sibling, 0)
}

// After inserts sibling right after n in the parent's child list.
func (n *Node) After(sibling *Node) error {
	return n.insertSibling(sibling, 1)
}

func (n *Node) insertSibling(sibling *Node, offset int) error {
	if n.parent == nil {
		return sgferrors.ErrNoParent
	}
	if sibling == n {
		return nil
	}
	parent := n.parent
	if err := parent.checkAttach(sibling); err != nil {
		return err
	}
	sibling.Detach()
	parent.insert(n.Index()+offset, sibling)
	return nil
}

// ReplaceWith puts other where n is and detaches n.
func (n *Node) ReplaceWith(other *Node) error {
	if n.parent == nil {
		return sgferrors.ErrNoParent
	}
	if other == n {
		return nil
	}
	parent := n.parent
	if err := parent.checkAttach(other); err != nil {
		return err
	}
	other.Detach()
	parent.children[n.Index()] = other
	other.parent = parent
	n.parent = nil
	return nil
}

// Detach removes n from its parent, making it the root of its own tree.
func (n *Node) Detach() *Node {
	if n.parent == nil {
		return n
	}
	idx := n.Index()
	p := n.parent
	p.children = append(p.children[:idx:idx], p.children[idx+1:]...)
	n.parent = nil
	return n
}

// Empty removes every child of n.
func (n *Node) Empty() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// Clone deep-copies n and its subtree. The copy is a root.
func (n *Node) Clone() *Node {
	type pair struct{ src, dst *Node }
	root := &Node{Properties: n.Properties.Clone()}
	stack := []pair{{n, root}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(p.src.children) == 0 {
			continue
		}
		p.dst.children = make([]*Node, len(p.src.children))
		for i, c := range p.src.children {
			cp := &Node{Properties: c.Properties.Clone(), parent: p.dst}
			p.dst.children[i] = cp
			stack = append(stack, pair{c, cp})
		}
	}
	return root
}

func (n *Node) insert(i int, child *Node) {
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = child
	child.parent = n
}

// checkAttach rejects children that would make the tree cyclic.
func (n *Node) checkAttach(child *Node) error {
	if child == nil {
		return fmt.Errorf("%w: nil node", sgferrors.ErrMalformedInput)
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return sgferrors.ErrCycle
		}
	}
	return nil
}

func (n *Node) nextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	return n.parent.Child(n.Index() + 1)
}

func (n *Node) previousSibling() *Node {
	if n.parent == nil {
		return nil
	}
	return n.parent.Child(n.Index() - 1)
}

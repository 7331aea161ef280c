package gametree

// Cursor walks a tree in pre-order, one node at a time, in both directions.
// It starts on the root it was created with and never leaves that subtree.
type Cursor struct {
	root    *Node
	current *Node
}

func NewCursor(root *Node) *Cursor {
	return &Cursor{root: root, current: root}
}

func (c *Cursor) Current() *Node { return c.current }

// Next moves to the following node and returns it, or returns nil and stays
// put at the end of the walk.
func (c *Cursor) Next() *Node {
	n := c.Peek()
	if n != nil {
		c.current = n
	}
	return n
}

// Previous moves to the preceding node and returns it, or returns nil and
// stays put on the root.
func (c *Cursor) Previous() *Node {
	n := c.LookBack()
	if n != nil {
		c.current = n
	}
	return n
}

// Peek returns the node Next would move to.
func (c *Cursor) Peek() *Node {
	if len(c.current.children) > 0 {
		return c.current.children[0]
	}
	for n := c.current; n != c.root && n != nil; n = n.parent {
		if sib := n.nextSibling(); sib != nil {
			return sib
		}
	}
	return nil
}

// LookBack returns the node Previous would move to.
func (c *Cursor) LookBack() *Node {
	if c.current == c.root {
		return nil
	}
	prev := c.current.previousSibling()
	if prev == nil {
		return c.current.parent
	}
	for len(prev.children) > 0 {
		prev = prev.children[len(prev.children)-1]
	}
	return prev
}

func (c *Cursor) HasNext() bool { return c.Peek() != nil }

func (c *Cursor) HasPrevious() bool { return c.LookBack() != nil }

// Rewind moves back to the root.
func (c *Cursor) Rewind() { c.current = c.root }

// Seek moves to n, which must lie in the cursor's subtree.
func (c *Cursor) Seek(n *Node) bool {
	for p := n; p != nil; p = p.parent {
		if p == c.root {
			c.current = n
			return true
		}
	}
	return false
}

package sgf

// Collection is the content of one SGF file: independent game records.
type Collection []*GameTree

// GameTree is a main line of nodes followed by its variations.
type GameTree struct {
	Nodes    []Node      `json:"nodes" yaml:"nodes" bson:"nodes"`
	Children []*GameTree `json:"children" yaml:"children,omitempty" bson:"children"`
}

// Node maps a property identifier to its typed value.
type Node map[string]any

// Marshaler lets a property value produce its own raw bracket contents.
// The returned strings are emitted verbatim, so they must already be escaped.
type Marshaler interface {
	MarshalSGF() ([]string, error)
}

// Cloner lets a property value control how it is duplicated by Clone.
type Cloner interface {
	CloneSGF() any
}

// NewGameTree returns a tree holding the given nodes and no variations.
func NewGameTree(nodes ...Node) *GameTree {
	return &GameTree{Nodes: nodes}
}

// Root returns the first node of the tree, or nil for a malformed tree.
func (t *GameTree) Root() Node {
	if t == nil || len(t.Nodes) == 0 {
		return nil
	}
	return t.Nodes[0]
}

// MainLine returns the nodes reached by always following the first variation.
func (t *GameTree) MainLine() []Node {
	var line []Node
	for cur := t; cur != nil; {
		line = append(line, cur.Nodes...)
		if len(cur.Children) == 0 {
			break
		}
		cur = cur.Children[0]
	}
	return line
}

// Clone deep-copies the collection.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	for i, t := range c {
		out[i] = t.Clone()
	}
	return out
}

// Clone deep-copies the tree including every property value.
func (t *GameTree) Clone() *GameTree {
	if t == nil {
		return nil
	}
	type pair struct{ src, dst *GameTree }
	root := &GameTree{}
	stack := []pair{{t, root}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		p.dst.Nodes = make([]Node, len(p.src.Nodes))
		for i, n := range p.src.Nodes {
			p.dst.Nodes[i] = n.Clone()
		}
		if p.src.Children == nil {
			continue
		}
		p.dst.Children = make([]*GameTree, len(p.src.Children))
		for i, child := range p.src.Children {
			if child == nil {
				continue
			}
			p.dst.Children[i] = &GameTree{}
			stack = append(stack, pair{child, p.dst.Children[i]})
		}
	}
	return root
}

// Clone deep-copies the node.
func (n Node) Clone() Node {
	if n == nil {
		return nil
	}
	out := make(Node, len(n))
	for k, v := range n {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies a typed property value. Values implementing Cloner
// are asked to copy themselves.
func CloneValue(v any) any {
	switch val := v.(type) {
	case Cloner:
		return val.CloneSGF()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CloneValue(item)
		}
		return out
	case [2]any:
		return [2]any{CloneValue(val[0]), CloneValue(val[1])}
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	case map[string]string:
		out := make(map[string]string, len(val))
		for k, s := range val {
			out[k] = s
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = CloneValue(item)
		}
		return out
	default:
		return v
	}
}

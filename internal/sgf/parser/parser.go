// Package parser reads SGF text into typed game trees.
package parser

import (
	"fmt"
	"io"

	"sgfgrove/internal/domain/sgf"
	sgferrors "sgfgrove/internal/errors"
	"sgfgrove/internal/sgf/property"
)

// Parser converts SGF text into a Collection. The zero value is ready to use.
type Parser struct {
	// Reviver, when set, is applied bottom-up to every property value after
	// the values have been typed.
	Reviver sgf.Transform

	// CollapseVariations folds single-child variations into their parent,
	// the same canonical form the serializer writes.
	CollapseVariations bool
}

// Parse parses text with the default Parser.
func Parse(text string) (sgf.Collection, error) {
	var p Parser
	return p.Parse(text)
}

// ParseReader reads r to the end and parses it.
func (p *Parser) ParseReader(r io.Reader) (sgf.Collection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read sgf: %w", err)
	}
	return p.Parse(string(data))
}

// Parse runs the syntax pass over text and types every property with the
// table selected by the FF and GM of each game tree's root node. Any error
// aborts the whole parse.
func (p *Parser) Parse(text string) (sgf.Collection, error) {
	sc := &scanner{src: text}
	trees, err := sc.collection()
	if err != nil {
		return nil, err
	}

	out := make(sgf.Collection, len(trees))
	for i, rt := range trees {
		table, err := resolveTable(i, rt.nodes[0])
		if err != nil {
			return nil, err
		}
		out[i], err = finalizeTree(i, rt, table)
		if err != nil {
			return nil, err
		}
	}

	if p.CollapseVariations {
		sgf.Collapse(out)
	}
	if p.Reviver != nil {
		sgf.Revive(out, p.Reviver)
	}
	return out, nil
}

// resolveTable reads FF and GM from a root node, both defaulting to 1.
func resolveTable(tree int, root *rawNode) (*property.Table, error) {
	ff, err := rootNumber(root, "FF")
	if err != nil {
		return nil, &sgferrors.NodeError{Tree: tree, Rendered: root.render(), Err: err}
	}
	gm, err := rootNumber(root, "GM")
	if err != nil {
		return nil, &sgferrors.NodeError{Tree: tree, Rendered: root.render(), Err: err}
	}
	table, err := property.Resolve(ff, gm)
	if err != nil {
		return nil, &sgferrors.NodeError{Tree: tree, Rendered: root.render(), Err: err}
	}
	return table, nil
}

var rootNumberType = property.Single(property.Number)

func rootNumber(root *rawNode, ident string) (int, error) {
	values, ok := root.values(ident)
	if !ok {
		return 1, nil
	}
	v, err := rootNumberType.Parse(values)
	if err != nil {
		return 0, &sgferrors.PropertyError{Ident: ident, Payload: values, Err: err}
	}
	return v.(int), nil
}

// finalizeTree types every node of rt. Node indexes count nodes in pre-order
// across the tree and its variations.
func finalizeTree(index int, rt *rawTree, table *property.Table) (*sgf.GameTree, error) {
	type pending struct {
		raw   *rawTree
		typed *sgf.GameTree
	}

	root := &sgf.GameTree{}
	stack := []pending{{rt, root}}
	nodeIndex := 0

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cur.typed.Nodes = make([]sgf.Node, 0, len(cur.raw.nodes))
		for _, rn := range cur.raw.nodes {
			n, err := finalizeNode(rn, table)
			if err != nil {
				return nil, &sgferrors.NodeError{Tree: index, Node: nodeIndex, Rendered: rn.render(), Err: err}
			}
			cur.typed.Nodes = append(cur.typed.Nodes, n)
			nodeIndex++
		}

		if len(cur.raw.children) == 0 {
			continue
		}
		cur.typed.Children = make([]*sgf.GameTree, len(cur.raw.children))
		for i := len(cur.raw.children) - 1; i >= 0; i-- {
			cur.typed.Children[i] = &sgf.GameTree{}
			stack = append(stack, pending{cur.raw.children[i], cur.typed.Children[i]})
		}
	}
	return root, nil
}

func finalizeNode(rn *rawNode, table *property.Table) (sgf.Node, error) {
	node := make(sgf.Node, len(rn.props))
	for _, prop := range rn.props {
		ident := table.Fold(prop.ident)
		if !table.ValidIdentifier(ident) {
			return nil, sgferrors.Syntaxf("invalid property identifier %q for FF[%d]", prop.ident, table.FF())
		}
		if _, dup := node[ident]; dup {
			return nil, sgferrors.Syntaxf("duplicate property %s (from %s)", ident, prop.ident)
		}
		v, err := table.Type(ident).Parse(prop.values)
		if err != nil {
			return nil, &sgferrors.PropertyError{Ident: ident, Payload: prop.values, Err: err}
		}
		node[ident] = v
	}
	return node, nil
}

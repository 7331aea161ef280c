package parser

import (
	"fmt"
	"strings"

	sgferrors "sgfgrove/internal/errors"
)

const snippetRadius = 12

// rawProperty is an identifier with its bracket contents as written.
type rawProperty struct {
	ident  string
	values []string
}

type rawNode struct {
	offset int
	props  []rawProperty
}

func (n *rawNode) values(ident string) ([]string, bool) {
	for _, p := range n.props {
		if p.ident == ident {
			return p.values, true
		}
	}
	return nil, false
}

// render writes the node back in SGF form for error messages.
func (n *rawNode) render() string {
	var b strings.Builder
	b.WriteByte(';')
	for _, p := range n.props {
		b.WriteString(p.ident)
		for _, v := range p.values {
			b.WriteByte('[')
			b.WriteString(v)
			b.WriteByte(']')
		}
	}
	s := b.String()
	if len(s) > 64 {
		s = s[:61] + "..."
	}
	return s
}

type rawTree struct {
	offset   int
	nodes    []*rawNode
	children []*rawTree
}

// scanner runs the syntax pass. Every rule starts at pos; nothing is skipped
// except whitespace between tokens.
type scanner struct {
	src string
	pos int
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) && s.src[s.pos] <= ' ' {
		s.pos++
	}
}

func (s *scanner) errorf(offset int, format string, args ...any) error {
	from := max(offset-snippetRadius, 0)
	to := min(offset+snippetRadius, len(s.src))
	return &sgferrors.SyntaxError{
		Offset:  offset,
		Snippet: s.src[from:to],
		Msg:     fmt.Sprintf(format, args...),
	}
}

func (s *scanner) collection() ([]*rawTree, error) {
	var trees []*rawTree
	for {
		s.skipSpace()
		if s.pos >= len(s.src) {
			break
		}
		if s.src[s.pos] != '(' {
			return nil, s.errorf(s.pos, "expected '(' but found %q", s.src[s.pos])
		}
		t, err := s.gameTree()
		if err != nil {
			return nil, err
		}
		trees = append(trees, t)
	}
	if len(trees) == 0 {
		return nil, s.errorf(s.pos, "collection contains no game tree")
	}
	return trees, nil
}

// gameTree reads one parenthesised tree. Variations are tracked on an
// explicit stack so deep nesting does not grow the goroutine stack.
func (s *scanner) gameTree() (*rawTree, error) {
	root := &rawTree{offset: s.pos}
	s.pos++
	stack := []*rawTree{root}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		s.skipSpace()
		if s.pos >= len(s.src) {
			return nil, s.errorf(cur.offset, "game tree is not closed")
		}

		switch c := s.src[s.pos]; c {
		case ';':
			if len(cur.children) > 0 {
				return nil, s.errorf(s.pos, "node after variations")
			}
			n, err := s.node()
			if err != nil {
				return nil, err
			}
			cur.nodes = append(cur.nodes, n)
		case '(':
			if len(cur.nodes) == 0 {
				return nil, s.errorf(s.pos, "expected ';' before variation")
			}
			child := &rawTree{offset: s.pos}
			s.pos++
			cur.children = append(cur.children, child)
			stack = append(stack, child)
		case ')':
			if len(cur.nodes) == 0 {
				return nil, s.errorf(cur.offset, "empty game tree")
			}
			s.pos++
			stack = stack[:len(stack)-1]
		default:
			if len(cur.nodes) == 0 {
				return nil, s.errorf(s.pos, "expected ';' but found %q", c)
			}
			return nil, s.errorf(s.pos, "unexpected %q", c)
		}
	}
	return root, nil
}

func (s *scanner) node() (*rawNode, error) {
	n := &rawNode{offset: s.pos}
	s.pos++

	seen := make(map[string]struct{})
	for {
		s.skipSpace()
		start := s.pos
		for s.pos < len(s.src) && isIdentByte(s.src[s.pos]) {
			s.pos++
		}
		if start == s.pos {
			return n, nil
		}
		ident := s.src[start:s.pos]
		if _, dup := seen[ident]; dup {
			return nil, s.errorf(start, "duplicate property %s", ident)
		}
		seen[ident] = struct{}{}

		var values []string
		for {
			s.skipSpace()
			if s.pos >= len(s.src) || s.src[s.pos] != '[' {
				break
			}
			v, err := s.value()
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			return nil, s.errorf(s.pos, "property %s has no value", ident)
		}
		n.props = append(n.props, rawProperty{ident: ident, values: values})
	}
}

// value reads one bracketed value and returns its content with escapes
// left in place.
func (s *scanner) value() (string, error) {
	start := s.pos
	for i := s.pos + 1; i < len(s.src); i++ {
		switch s.src[i] {
		case '\\':
			i++
		case ']':
			s.pos = i + 1
			return s.src[start+1 : i], nil
		}
	}
	return "", s.errorf(start, "property value is not closed")
}

func isIdentByte(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

package errors

import (
	"errors"
	"fmt"
)

var (
	ErrSyntax            = errors.New("sgf syntax error")
	ErrType              = errors.New("sgf type error")
	ErrUnsupportedFormat = errors.New("unsupported sgf file format")

	ErrEmptyTree        = errors.New("game tree must contain at least one node")
	ErrNoParent         = errors.New("node has no parent")
	ErrCycle            = errors.New("node cannot be attached to its own subtree")
	ErrIndexOutOfRange  = errors.New("child index out of range")
	ErrMalformedInput   = errors.New("value is not shaped like a collection")
	ErrRecordNotFound   = errors.New("record not found")
	ErrInvalidMove      = errors.New("invalid move")
	ErrRecordImportFail = errors.New("record import failed")
	ErrInternal         = errors.New("internal error")
)

// SyntaxError is a grammar violation at a byte offset of the source text.
type SyntaxError struct {
	Offset  int
	Snippet string
	Msg     string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d near %q: %s", ErrSyntax, e.Offset, e.Snippet, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// PropertyError reports a value that does not fit the Type resolved for Ident.
// Payload holds the raw values on parse or the typed value on stringify.
type PropertyError struct {
	Ident   string
	Payload any
	Err     error
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("property %s %v: %v", e.Ident, e.Payload, e.Err)
}

func (e *PropertyError) Unwrap() error { return e.Err }

// NodeError attaches a position to a failure found while finalizing or
// emitting a node. Tree is the index of the top-level game tree, Node the
// pre-order index of the node inside it.
type NodeError struct {
	Tree     int
	Node     int
	Rendered string
	Err      error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("game tree %d, node %d %s: %v", e.Tree, e.Node, e.Rendered, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// FormatError is returned for an FF value outside 1..4.
type FormatError struct {
	FF int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: FF[%d]", ErrUnsupportedFormat, e.FF)
}

func (e *FormatError) Unwrap() error { return ErrUnsupportedFormat }

// Typef builds a type error wrapping ErrType.
func Typef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrType, fmt.Sprintf(format, args...))
}

// Syntaxf builds a position-less syntax error wrapping ErrSyntax.
func Syntaxf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...))
}

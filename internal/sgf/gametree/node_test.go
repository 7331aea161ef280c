package gametree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sgfgrove/internal/domain/sgf"
	sgferrors "sgfgrove/internal/errors"
)

func named(name string) *Node {
	return New(sgf.Node{"N": name})
}

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Properties["N"].(string)
	}
	return out
}

// sample builds
//
//	a
//	├── b
//	│   ├── d
//	│   └── e
//	└── c
func sample(t *testing.T) map[string]*Node {
	t.Helper()
	nodes := map[string]*Node{}
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		nodes[name] = named(name)
	}
	require.NoError(t, nodes["a"].Append(nodes["b"]))
	require.NoError(t, nodes["a"].Append(nodes["c"]))
	require.NoError(t, nodes["b"].Append(nodes["d"]))
	require.NoError(t, nodes["b"].Append(nodes["e"]))
	return nodes
}

func TestNodeQueries(t *testing.T) {
	n := sample(t)

	assert.True(t, n["a"].IsRoot())
	assert.False(t, n["a"].IsLeaf())
	assert.True(t, n["d"].IsLeaf())
	assert.Same(t, n["a"], n["e"].Root())
	assert.Same(t, n["b"], n["e"].Parent())
	assert.Equal(t, 2, n["e"].Depth())
	assert.Equal(t, 1, n["e"].Index())
	assert.Equal(t, 2, n["a"].Height())
	assert.Equal(t, 3, n["a"].LeafCount())
	assert.Equal(t, []string{"b", "c"}, names(n["c"].Siblings()))
	assert.Equal(t, []string{"a"}, names(n["a"].Siblings()))
	assert.Nil(t, n["a"].Child(5))
	assert.Nil(t, n["a"].Parent())
}

func TestChildrenReturnsCopy(t *testing.T) {
	n := sample(t)
	children := n["a"].Children()
	children[0] = nil
	assert.Same(t, n["b"], n["a"].Child(0))
}

func TestWalkPreOrder(t *testing.T) {
	n := sample(t)
	var visited []*Node
	n["a"].Walk(func(cur *Node) bool {
		visited = append(visited, cur)
		return true
	})
	assert.Equal(t, []string{"a", "b", "d", "e", "c"}, names(visited))

	visited = nil
	n["a"].Walk(func(cur *Node) bool {
		visited = append(visited, cur)
		return cur != n["d"]
	})
	assert.Equal(t, []string{"a", "b", "d"}, names(visited))
}

func TestInsertChildAt(t *testing.T) {
	n := sample(t)
	f := named("f")

	require.NoError(t, n["a"].InsertChildAt(1, f))
	assert.Equal(t, []string{"b", "f", "c"}, names(n["a"].Children()))
	assert.Same(t, n["a"], f.Parent())

	// moving within the same parent indexes the list without the child
	require.NoError(t, n["a"].InsertChildAt(2, n["b"]))
	assert.Equal(t, []string{"f", "c", "b"}, names(n["a"].Children()))

	err := n["a"].InsertChildAt(4, named("g"))
	assert.ErrorIs(t, err, sgferrors.ErrIndexOutOfRange)
	err = n["a"].InsertChildAt(-1, named("g"))
	assert.ErrorIs(t, err, sgferrors.ErrIndexOutOfRange)
}

func TestInsertMovesAcrossParents(t *testing.T) {
	n := sample(t)
	require.NoError(t, n["c"].Append(n["d"]))

	assert.Equal(t, []string{"e"}, names(n["b"].Children()))
	assert.Equal(t, []string{"d"}, names(n["c"].Children()))
	assert.Same(t, n["c"], n["d"].Parent())
}

func TestInsertRejectsCycles(t *testing.T) {
	n := sample(t)

	assert.ErrorIs(t, n["d"].Append(n["a"]), sgferrors.ErrCycle)
	assert.ErrorIs(t, n["b"].Append(n["b"]), sgferrors.ErrCycle)
	assert.ErrorIs(t, n["d"].Before(n["b"]), sgferrors.ErrCycle)
	assert.ErrorIs(t, n["a"].Append(nil), sgferrors.ErrMalformedInput)

	// the tree is unchanged
	assert.Equal(t, []string{"b", "c"}, names(n["a"].Children()))
	assert.Equal(t, []string{"d", "e"}, names(n["b"].Children()))
}

func TestPrepend(t *testing.T) {
	n := sample(t)
	require.NoError(t, n["a"].Prepend(n["c"]))
	assert.Equal(t, []string{"c", "b"}, names(n["a"].Children()))
}

func TestBeforeAndAfter(t *testing.T) {
	n := sample(t)
	f, g := named("f"), named("g")

	require.NoError(t, n["e"].Before(f))
	require.NoError(t, n["e"].After(g))
	assert.Equal(t, []string{"d", "f", "e", "g"}, names(n["b"].Children()))

	require.NoError(t, n["d"].After(g))
	require.NoError(t, g.Before(n["d"]))
	assert.Equal(t, []string{"d", "g", "f", "e"}, names(n["b"].Children()))

	assert.ErrorIs(t, n["a"].Before(named("x")), sgferrors.ErrNoParent)
	assert.ErrorIs(t, n["a"].After(named("x")), sgferrors.ErrNoParent)
}

func TestRemoveSplicesChildren(t *testing.T) {
	n := sample(t)
	require.NoError(t, n["b"].Remove())

	assert.Equal(t, []string{"d", "e", "c"}, names(n["a"].Children()))
	assert.Same(t, n["a"], n["d"].Parent())
	assert.True(t, n["b"].IsRoot())
	assert.True(t, n["b"].IsLeaf())
}

func TestRemoveRoot(t *testing.T) {
	n := sample(t)
	assert.ErrorIs(t, n["a"].Remove(), sgferrors.ErrNoParent)
	assert.ErrorIs(t, named("lonely").Remove(), sgferrors.ErrEmptyTree)
}

func TestRemoveChildAt(t *testing.T) {
	n := sample(t)
	removed, err := n["a"].RemoveChildAt(0)
	require.NoError(t, err)

	assert.Same(t, n["b"], removed)
	assert.True(t, removed.IsRoot())
	assert.Equal(t, []string{"d", "e"}, names(removed.Children()))
	assert.Equal(t, []string{"c"}, names(n["a"].Children()))

	_, err = n["a"].RemoveChildAt(1)
	assert.ErrorIs(t, err, sgferrors.ErrIndexOutOfRange)
}

func TestReplaceWith(t *testing.T) {
	n := sample(t)
	require.NoError(t, n["b"].ReplaceWith(n["c"]))

	assert.Equal(t, []string{"c"}, names(n["a"].Children()))
	assert.True(t, n["b"].IsRoot())
	assert.Equal(t, []string{"d", "e"}, names(n["b"].Children()))

	assert.ErrorIs(t, n["a"].ReplaceWith(named("x")), sgferrors.ErrNoParent)
	assert.ErrorIs(t, n["c"].ReplaceWith(n["a"]), sgferrors.ErrCycle)
}

func TestDetachAndEmpty(t *testing.T) {
	n := sample(t)
	assert.Same(t, n["e"], n["e"].Detach())
	assert.Equal(t, []string{"d"}, names(n["b"].Children()))
	assert.Same(t, n["a"], n["a"].Detach())

	n["a"].Empty()
	assert.True(t, n["a"].IsLeaf())
	assert.True(t, n["b"].IsRoot())
}

func TestClone(t *testing.T) {
	n := sample(t)
	n["d"].Properties["AB"] = []any{"aa"}

	cp := n["b"].Clone()
	assert.True(t, cp.IsRoot())
	assert.Equal(t, []string{"d", "e"}, names(cp.Children()))
	assert.Same(t, cp, cp.Child(0).Parent())

	cp.Child(0).Properties["AB"].([]any)[0] = "zz"
	assert.Equal(t, "aa", n["d"].Properties["AB"].([]any)[0])
	assert.Same(t, n["a"], n["b"].Parent())
}

package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sgferrors "sgfgrove/internal/errors"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		ff, gm         int
		wantFF, wantGM int
	}{
		{1, 1, 1, 1},
		{2, 1, 1, 1},
		{3, 1, 3, 1},
		{4, 1, 4, 1},
		{4, 2, 4, 0},
		{1, 7, 1, 0},
	}
	for _, tt := range tests {
		table, err := Resolve(tt.ff, tt.gm)
		require.NoError(t, err)
		assert.Equal(t, tt.wantFF, table.FF())
		assert.Equal(t, tt.wantGM, table.GM())
	}
}

func TestResolveUnsupported(t *testing.T) {
	for _, ff := range []int{0, 5, -1} {
		_, err := Resolve(ff, 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, sgferrors.ErrUnsupportedFormat)

		var formatErr *sgferrors.FormatError
		require.ErrorAs(t, err, &formatErr)
		assert.Equal(t, ff, formatErr.FF)
	}
	assert.Panics(t, func() { MustResolve(5, 1) })
}

func TestValidIdentifier(t *testing.T) {
	ff1 := MustResolve(1, 1)
	ff3 := MustResolve(3, 1)
	ff4 := MustResolve(4, 1)

	assert.True(t, ff1.ValidIdentifier("B"))
	assert.True(t, ff1.ValidIdentifier("B2"))
	assert.False(t, ff1.ValidIdentifier("ABC"))
	assert.False(t, ff1.ValidIdentifier("2B"))

	assert.True(t, ff3.ValidIdentifier("CP"))
	assert.False(t, ff3.ValidIdentifier("CoPyright"))

	assert.True(t, ff4.ValidIdentifier("MULTIGOGM"))
	assert.False(t, ff4.ValidIdentifier("B2"))
	assert.False(t, ff4.ValidIdentifier("customData"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "CP", MustResolve(3, 1).Fold("CoPyright"))
	assert.Equal(t, "CoPyright", MustResolve(4, 1).Fold("CoPyright"))
	assert.Equal(t, "CoPyright", MustResolve(1, 1).Fold("CoPyright"))
}

func TestTypeFallsBackToUnknown(t *testing.T) {
	table := MustResolve(4, 1)
	assert.False(t, table.Known("ZZ"))
	assert.Equal(t, Unknown, table.Type("ZZ"))
	assert.Equal(t, "Unknown", table.Describe("ZZ"))
	assert.True(t, table.Known("KM"))
	assert.Equal(t, "Real", table.Describe("KM"))
}

func TestTablesAreScopedByFormat(t *testing.T) {
	ff4, err := MustResolve(4, 1).Type("TB").Parse([]string{"aa:bb"})
	require.NoError(t, err)
	assert.Len(t, ff4, 4)

	_, err = MustResolve(1, 1).Type("TB").Parse([]string{"aa:bb"})
	assert.ErrorIs(t, err, sgferrors.ErrType)

	v, err := MustResolve(1, 1).Type("KM").Parse([]string{"5."})
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	_, err = MustResolve(4, 1).Type("KM").Parse([]string{"5."})
	assert.ErrorIs(t, err, sgferrors.ErrType)
}

func TestGenericTableUsesOpaquePoints(t *testing.T) {
	table := MustResolve(4, 2)

	v, err := table.Type("B").Parse([]string{"e2e4"})
	require.NoError(t, err)
	assert.Equal(t, "e2e4", v)

	v, err = table.Type("AB").Parse([]string{"a1", "b2"})
	require.NoError(t, err)
	assert.Equal(t, []any{"a1", "b2"}, v)

	assert.False(t, table.Known("KM"))
	assert.False(t, table.Known("HA"))
}

func TestIdentifiersSorted(t *testing.T) {
	ids := MustResolve(4, 1).Identifiers()
	require.NotEmpty(t, ids)
	assert.IsNonDecreasing(t, ids)
	assert.Contains(t, ids, "AP")
	assert.Contains(t, ids, "HA")
	assert.NotContains(t, MustResolve(1, 1).Identifiers(), "AP")
}

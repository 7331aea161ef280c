package property

import (
	"regexp"
	"sort"
	"strings"

	sgferrors "sgfgrove/internal/errors"
)

var (
	legacyIdentPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]?$`)
	identPattern       = regexp.MustCompile(`^[A-Z]+$`)
)

// Table maps property identifiers to Types for one file format and game.
// Tables are built once and never modified.
type Table struct {
	ff      int
	gm      int
	types   map[string]Type
	ident   *regexp.Regexp
	folding bool
}

// FF returns the file format the table implements (2 resolves to 1).
func (t *Table) FF() int { return t.ff }

// GM returns 1 for the Go table and 0 for the generic table of the format.
func (t *Table) GM() int { return t.gm }

// Type returns the Type registered for ident or Unknown.
func (t *Table) Type(ident string) Type {
	if typ, ok := t.types[ident]; ok {
		return typ
	}
	return Unknown
}

// Known reports whether ident has a dedicated Type.
func (t *Table) Known(ident string) bool {
	_, ok := t.types[ident]
	return ok
}

// ValidIdentifier checks ident against the identifier grammar of the format.
func (t *Table) ValidIdentifier(ident string) bool {
	return t.ident.MatchString(ident)
}

// Fold removes the lowercase letters FF[3] tolerates in identifiers, so that
// CoPyright becomes CP. Other formats return ident unchanged.
func (t *Table) Fold(ident string) string {
	if !t.folding {
		return ident
	}
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return -1
		}
		return r
	}, ident)
}

// Identifiers lists the identifiers with a dedicated Type, sorted.
func (t *Table) Identifiers() []string {
	out := make([]string, 0, len(t.types))
	for ident := range t.types {
		out = append(out, ident)
	}
	sort.Strings(out)
	return out
}

// Describe names the Type of ident, for diagnostics.
func (t *Table) Describe(ident string) string {
	return describe(t.Type(ident))
}

type tableKey struct {
	ff, gm int
}

var registry = buildRegistry()

func buildRegistry() map[tableKey]*Table {
	generic := gameCodecs{
		point:  Opaque,
		move:   Opaque,
		points: PointList(Opaque, false, false),
		empty:  PointList(Opaque, true, false),
	}
	legacyGo := gameCodecs{
		point:  LegacyGoPoint,
		move:   LegacyGoMove,
		points: PointList(LegacyGoPoint, false, false),
		empty:  PointList(LegacyGoPoint, true, false),
	}
	goCodecs := gameCodecs{
		point:  GoPoint,
		move:   GoMove,
		points: PointList(GoPoint, false, true),
		empty:  PointList(GoPoint, true, true),
	}

	return map[tableKey]*Table{
		{1, 0}: newTable(1, 0, ff1Types(generic), legacyIdentPattern, false),
		{1, 1}: newTable(1, 1, withGo(ff1Types(legacyGo), legacyGo, LegacyReal), legacyIdentPattern, false),
		{3, 0}: newTable(3, 0, ff3Types(generic), legacyIdentPattern, true),
		{3, 1}: newTable(3, 1, withGo(ff3Types(legacyGo), legacyGo, LegacyReal), legacyIdentPattern, true),
		{4, 0}: newTable(4, 0, ff4Types(generic), identPattern, false),
		{4, 1}: newTable(4, 1, withGo(ff4Types(goCodecs), goCodecs, Real), identPattern, false),
	}
}

func newTable(ff, gm int, types map[string]Type, ident *regexp.Regexp, folding bool) *Table {
	return &Table{ff: ff, gm: gm, types: types, ident: ident, folding: folding}
}

// Resolve returns the table for a file format and game type. FF[2] shares
// the FF[1] table, games other than Go (GM[1]) use the generic table.
func Resolve(ff, gm int) (*Table, error) {
	if ff == 2 {
		ff = 1
	}
	if ff != 1 && ff != 3 && ff != 4 {
		return nil, &sgferrors.FormatError{FF: ff}
	}
	if gm != 1 {
		gm = 0
	}
	return registry[tableKey{ff: ff, gm: gm}], nil
}

// MustResolve is Resolve for formats known to be supported.
func MustResolve(ff, gm int) *Table {
	t, err := Resolve(ff, gm)
	if err != nil {
		panic(err)
	}
	return t
}

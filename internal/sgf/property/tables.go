package property

// gameCodecs are the game dependent building blocks of a table.
type gameCodecs struct {
	point  Codec
	move   Codec
	points Type
	empty  Type
}

func merge(base map[string]Type, overrides map[string]Type) map[string]Type {
	out := make(map[string]Type, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

func ff1Types(g gameCodecs) map[string]Type {
	return map[string]Type{
		// moves and setup
		"B":  Single(g.move),
		"W":  Single(g.move),
		"AB": g.points,
		"AW": g.points,
		"AE": g.points,
		"PL": Single(Color),

		// annotations
		"C":  Single(Text),
		"N":  Single(SimpleText),
		"V":  Single(LegacyReal),
		"CH": Single(Double),
		"GB": Single(Double),
		"GW": Single(Double),
		"TE": Single(Double),
		"BM": Single(Double),

		// markup
		"L":  g.points,
		"M":  g.points,
		"SL": g.points,
		"RG": g.points,
		"SC": g.points,
		"TB": g.empty,
		"TW": g.empty,
		"VW": g.empty,

		// root and game info
		"FF": Single(Number),
		"GM": Single(Number),
		"SZ": Single(Number),
		"GN": Single(SimpleText),
		"GC": Single(Text),
		"EV": Single(SimpleText),
		"RO": Single(SimpleText),
		"DT": Single(SimpleText),
		"PC": Single(SimpleText),
		"PB": Single(SimpleText),
		"PW": Single(SimpleText),
		"BR": Single(SimpleText),
		"WR": Single(SimpleText),
		"RE": Single(SimpleText),
		"US": Single(SimpleText),
		"SO": Single(SimpleText),
		"TM": Single(LegacyReal),
		"BS": Single(Number),
		"WS": Single(Number),

		// timing
		"BL": Single(LegacyReal),
		"WL": Single(LegacyReal),
	}
}

func ff3Types(g gameCodecs) map[string]Type {
	return merge(ff1Types(g), map[string]Type{
		"KO": Single(None),
		"MN": Single(Number),
		"DO": Single(None),
		"IT": Single(None),
		"DM": Single(Double),
		"UC": Single(Double),
		"HO": Single(Double),

		"MA": g.points,
		"TR": g.points,
		"CR": g.points,
		"LB": Label(g.point),

		"AN": Single(SimpleText),
		"CP": Single(SimpleText),
		"ON": Single(SimpleText),
		"BT": Single(SimpleText),
		"WT": Single(SimpleText),
		"RU": Single(SimpleText),
		"ID": Single(SimpleText),

		"OB": Single(Number),
		"OW": Single(Number),
		"FG": Figure,
	})
}

func ff4Types(g gameCodecs) map[string]Type {
	return map[string]Type{
		// move
		"B":  Single(g.move),
		"W":  Single(g.move),
		"KO": Single(None),
		"MN": Single(Number),

		// setup
		"AB": g.points,
		"AW": g.points,
		"AE": g.points,
		"PL": Single(Color),

		// node annotation
		"C":  Single(Text),
		"N":  Single(SimpleText),
		"DM": Single(Double),
		"GB": Single(Double),
		"GW": Single(Double),
		"HO": Single(Double),
		"UC": Single(Double),
		"V":  Single(Real),

		// move annotation
		"BM": Single(Double),
		"DO": Single(None),
		"IT": Single(None),
		"TE": Single(Double),

		// markup
		"AR": ListOf(Compose(g.point, g.point)),
		"LN": ListOf(Compose(g.point, g.point)),
		"CR": g.points,
		"MA": g.points,
		"SL": g.points,
		"SQ": g.points,
		"TR": g.points,
		"DD": g.empty,
		"LB": Label(g.point),

		// root
		"AP": Single(Compose(SimpleText, SimpleText)),
		"CA": Single(SimpleText),
		"FF": Single(Number),
		"GM": Single(Number),
		"ST": Single(Number),
		"SZ": BoardSize,

		// game info
		"AN": Single(SimpleText),
		"BR": Single(SimpleText),
		"BT": Single(SimpleText),
		"CP": Single(SimpleText),
		"DT": Single(SimpleText),
		"EV": Single(SimpleText),
		"GN": Single(SimpleText),
		"GC": Single(Text),
		"ON": Single(SimpleText),
		"OT": Single(SimpleText),
		"PB": Single(SimpleText),
		"PC": Single(SimpleText),
		"PW": Single(SimpleText),
		"RE": Single(SimpleText),
		"RO": Single(SimpleText),
		"RU": Single(SimpleText),
		"SO": Single(SimpleText),
		"TM": Single(Real),
		"US": Single(SimpleText),
		"WR": Single(SimpleText),
		"WT": Single(SimpleText),

		// timing
		"BL": Single(Real),
		"WL": Single(Real),
		"OB": Single(Number),
		"OW": Single(Number),

		// miscellaneous
		"FG": Figure,
		"PM": Single(Number),
		"VW": g.empty,
		"TB": g.empty,
		"TW": g.empty,
	}
}

// withGo adds the Go only properties to a table.
func withGo(types map[string]Type, g gameCodecs, komi Codec) map[string]Type {
	return merge(types, map[string]Type{
		"HA": Single(Number),
		"KM": Single(komi),
		"TB": g.empty,
		"TW": g.empty,
	})
}

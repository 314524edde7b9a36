package trie

import (
	"unicode"
)

const (
	caseCost     = 1
	sameCatCost  = 5
	crossCatCost = 6
)

// generalCategories lists the two-letter Unicode general categories. They are
// disjoint, so the first table containing a rune is its category.
var generalCategories = []*unicode.RangeTable{
	unicode.Lu, unicode.Ll, unicode.Lt, unicode.Lm, unicode.Lo,
	unicode.Mn, unicode.Mc, unicode.Me,
	unicode.Nd, unicode.Nl, unicode.No,
	unicode.Pc, unicode.Pd, unicode.Ps, unicode.Pe, unicode.Pi, unicode.Pf, unicode.Po,
	unicode.Sm, unicode.Sc, unicode.Sk, unicode.So,
	unicode.Zs, unicode.Zl, unicode.Zp,
	unicode.Cc, unicode.Cf, unicode.Co, unicode.Cs,
}

// category returns an index into generalCategories, or -1 for unassigned runes.
func category(r rune) int {
	switch {
	case 'a' <= r && r <= 'z':
		return 1
	case 'A' <= r && r <= 'Z':
		return 0
	case '0' <= r && r <= '9':
		return 8
	}
	for i, tbl := range generalCategories {
		if unicode.Is(tbl, r) {
			return i
		}
	}
	return -1
}

// similarity is the cost of reading a where the dictionary has b.
// A case-only difference is cheapest, a change of character class the most expensive.
func similarity(a, b rune) int {
	a = unicode.ToLower(a)
	b = unicode.ToLower(b)
	if a == b {
		return caseCost
	}
	if category(a) != category(b) {
		return crossCatCost
	}
	return sameCatCost
}

// Package rarity normalizes raw rarity text into canonical rarity names.
// It is a pure lookup layer: shorthand and variant spellings from user input
// (QCSE, "collectors rare", curly apostrophes) map to the canonical names the
// catalog uses, and anything unknown passes through untouched.
package rarity

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Confidence records where a resolved rarity came from.
type Confidence int

const (
	// ConfidenceExplicit means the user supplied the rarity text verbatim
	// and no alias matched it.
	ConfidenceExplicit Confidence = iota
	// ConfidenceAlias means the alias table mapped the input to a
	// canonical name.
	ConfidenceAlias
	// ConfidenceAPISingle means the catalog returned exactly one rarity
	// for the set code.
	ConfidenceAPISingle
	// ConfidenceAPIAmbiguous means the catalog returned several rarities
	// and a human picked one.
	ConfidenceAPIAmbiguous
)

// String implements fmt.Stringer.
func (c Confidence) String() string {
	switch c {
	case ConfidenceAlias:
		return "alias-normalized"
	case ConfidenceAPISingle:
		return "api-single-match"
	case ConfidenceAPIAmbiguous:
		return "api-ambiguous"
	default:
		return "explicit-input"
	}
}

// aliases maps folded shorthand to canonical rarity names. Keys are stored
// pre-folded; keep them lowercase with straight apostrophes.
var aliases = map[string]string{
	"qcse":                        "Quarter Century Secret Rare",
	"quarter century secret rare": "Quarter Century Secret Rare",
	"platinum secret":             "Platinum Secret Rare",
	"psr":                         "Platinum Secret Rare",
	"collectors rare":             "Collector's Rare",
	"collector's rare":            "Collector's Rare",
	"prismatic secret":            "Prismatic Secret Rare",
}

// missingMarkers are inputs treated the same as a blank rarity.
var missingMarkers = map[string]struct{}{
	"unknown": {},
	"n/a":     {},
	"na":      {},
	"none":    {},
	"null":    {},
}

var fold = cases.Fold()

// foldKey produces the lookup key for raw rarity text: case-folded, curly
// apostrophes straightened, inner whitespace collapsed.
func foldKey(s string) string {
	s = strings.ReplaceAll(s, "’", "'")
	s = strings.Join(strings.Fields(s), " ")
	return fold.String(s)
}

// IsMissing reports whether the input carries no usable rarity at all:
// blank text or one of the conventional placeholder markers.
func IsMissing(raw string) bool {
	key := foldKey(raw)
	if key == "" {
		return true
	}
	_, ok := missingMarkers[key]
	return ok
}

// Lookup resolves raw text via the alias table. ok reports whether the alias
// table matched; callers use it to tell alias-normalized input apart from
// explicit pass-through input.
func Lookup(raw string) (canonical string, ok bool) {
	canonical, ok = aliases[foldKey(raw)]
	return canonical, ok
}

// Normalize maps raw rarity text to its canonical name. Missing input yields
// the empty string; unknown non-empty input passes through trimmed but
// otherwise unchanged. Normalize is idempotent.
func Normalize(raw string) string {
	if IsMissing(raw) {
		return ""
	}
	if canonical, ok := Lookup(raw); ok {
		return canonical
	}
	return strings.TrimSpace(raw)
}

// rank scores rarities from most exotic to most common. Candidate lists
// lead with the rarest printing, the one a collector checks first.
var rank = map[string]int{
	"Ghost Rare":            10,
	"Starlight Rare":        20,
	"Collector's Rare":      30,
	"Prismatic Secret Rare": 40,
	"Secret Rare":           50,
	"Ultimate Rare":         60,
	"Ultra Rare":            70,
	"Super Rare":            80,
	"Rare":                  90,
	"Common":                100,
}

// Rank returns the sort rank for a canonical rarity name. Unknown names
// rank highest so they sort last.
func Rank(name string) int {
	if r, ok := rank[name]; ok {
		return r
	}
	return 999
}

// SortCandidates sorts rarity names from rarest to most common, unknown
// names last, ties broken alphabetically so the result is deterministic.
func SortCandidates(names []string) {
	sort.Slice(names, func(i, j int) bool {
		ri, rj := Rank(names[i]), Rank(names[j])
		if ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})
}

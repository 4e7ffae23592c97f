// Package csvio reads and writes the delimited collection files: flexible
// header matching and delimiter detection on the way in, a fixed column
// layout on the way out.
package csvio

import (
	"strings"

	"github.com/collectorking/collectorking/pkg/errors"
)

// Columns maps the logical import fields to column indexes in the input
// header row. Rarity and Quantity are -1 when no header matches them; Code
// is always present in a valid mapping.
type Columns struct {
	Code     int
	Rarity   int
	Quantity int
}

// Header name synonyms per logical field, compared after folding case and
// stripping spaces, underscores, and hyphens.
var headerSynonyms = map[string][]string{
	"code":     {"setcode", "code", "printcode", "cardsetcode", "cardcode"},
	"rarity":   {"rarity", "setrarity", "printrarity"},
	"quantity": {"quantity", "qty", "count", "amount"},
}

// MapHeaders resolves a raw header row to column indexes. The first header
// matching a logical field wins; a file without any code column is not
// importable at all.
func MapHeaders(headers []string) (Columns, error) {
	cols := Columns{Code: -1, Rarity: -1, Quantity: -1}

	for i, raw := range headers {
		folded := foldHeader(raw)
		for field, names := range headerSynonyms {
			for _, name := range names {
				if folded != name {
					continue
				}
				switch field {
				case "code":
					if cols.Code == -1 {
						cols.Code = i
					}
				case "rarity":
					if cols.Rarity == -1 {
						cols.Rarity = i
					}
				case "quantity":
					if cols.Quantity == -1 {
						cols.Quantity = i
					}
				}
			}
		}
	}

	if cols.Code == -1 {
		return Columns{}, &errors.MissingColumnError{Field: "code", Headers: headers}
	}
	return cols, nil
}

// foldHeader normalizes a header for synonym comparison: lower-cased with
// whitespace, underscores, and hyphens removed.
func foldHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case ' ', '\t', '_', '-':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

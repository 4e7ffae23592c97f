package csvio

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/collectorking/collectorking/pkg/errors"
)

// Row is one parsed input line: the raw set code, the raw rarity text (may
// be empty), and the quantity, defaulted to 1 when the column is absent or
// unusable.
type Row struct {
	Code     string
	Rarity   string
	Quantity int
}

// DefaultQuantity is used when an input row carries no usable quantity.
const DefaultQuantity = 1

var delimiters = []rune{',', ';', '\t', '|'}

// ReadRows parses a delimited input file: strips a UTF-8 BOM, detects the
// delimiter from the header line, maps the headers, and returns one Row per
// data line. Lines with an empty code cell are dropped.
func ReadRows(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", "import file", err)
	}
	text := strings.TrimPrefix(string(data), "\uFEFF")

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = DetectDelimiter(firstLine(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WrapParse("csv", "import file", err)
	}
	if len(records) == 0 {
		return nil, errors.WrapParse("csv", "import file", io.ErrUnexpectedEOF)
	}

	cols, err := MapHeaders(records[0])
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := Row{
			Code:     cell(record, cols.Code),
			Rarity:   cell(record, cols.Rarity),
			Quantity: parseQuantity(cell(record, cols.Quantity)),
		}
		if row.Code == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// DetectDelimiter picks the delimiter that occurs most often in the header
// line, defaulting to comma.
func DetectDelimiter(headerLine string) rune {
	best, bestCount := ',', 0
	for _, d := range delimiters {
		if n := strings.Count(headerLine, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}

func cell(record []string, index int) string {
	if index < 0 || index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}

func parseQuantity(raw string) int {
	if raw == "" {
		return DefaultQuantity
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return DefaultQuantity
	}
	return n
}

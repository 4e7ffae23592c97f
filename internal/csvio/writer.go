package csvio

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/collectorking/collectorking/pkg/collection"
	"github.com/collectorking/collectorking/pkg/errors"
)

// exportHeader is the fixed export column order.
var exportHeader = []string{
	"set_code",
	"name",
	"set_name",
	"rarity",
	"quantity",
	"unit_price",
	"line_total",
	"image_paths",
	"last_updated",
}

// WriteRecords writes the collection in the fixed export layout, one line
// per record in store order.
func WriteRecords(w io.Writer, records []collection.Record) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader); err != nil {
		return errors.WrapIO("write", "export header", err)
	}
	for _, record := range records {
		line := []string{
			record.SetCode,
			record.Name,
			record.SetName,
			record.Rarity,
			strconv.Itoa(record.Quantity),
			formatPrice(record.Price),
			formatPrice(record.LineTotal()),
			record.JoinedImagePaths(),
			record.LastUpdated.Format(time.RFC3339),
		}
		if err := writer.Write(line); err != nil {
			return errors.WrapIO("write", "export row "+record.SetCode, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.WrapIO("flush", "export file", err)
	}
	return nil
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}

package export

import (
	"bytes"
	"encoding/csv"

	"econtab/internal/errors"
	"econtab/pkg/tabular"
)

// renderCSV writes the header record followed by every row, null cells as
// empty fields.
func renderCSV(t *tabular.Table, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	bomPrefix(&buf, opts)

	w := csv.NewWriter(&buf)
	if opts.Delimiter != 0 {
		w.Comma = opts.Delimiter
	}
	if err := w.Write(t.ColumnNames()); err != nil {
		return nil, errors.IO("csv", err, "writing header failed")
	}
	record := make([]string, t.NumCols())
	for i := 0; i < t.NumRows(); i++ {
		for j, v := range t.RowValues(i) {
			record[j] = v.Format()
		}
		if err := w.Write(record); err != nil {
			return nil, errors.IO("csv", err, "writing record %d failed", i)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.IO("csv", err, "flushing output failed")
	}
	return buf.Bytes(), nil
}

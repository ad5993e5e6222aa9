package parse

import (
	"bytes"
	"encoding/csv"
	"io"

	"econtab/internal/errors"
	"econtab/pkg/tabular"
)

// ParseCSV parses delimited text into a table. The first record supplies
// the column names, every cell starts life as a string, and empty cells
// become nulls; run Normalize afterwards for typed columns.
func ParseCSV(data []byte, source string, delimiter rune) (*tabular.Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	if delimiter != 0 {
		r.Comma = delimiter
	}
	r.FieldsPerRecord = 0 // all records must match the header width

	header, err := r.Read()
	if err == io.EOF {
		return nil, errors.MalformedData(source, nil, "no header record")
	}
	if err != nil {
		return nil, errors.MalformedData(source, err, "reading header failed")
	}

	t, err := tabular.New(tabular.UniqueNames(header)...)
	if err != nil {
		return nil, err
	}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.MalformedData(source, err, "reading record failed")
		}
		row := make([]tabular.Value, len(record))
		for i, cell := range record {
			if cell == "" {
				row[i] = tabular.Null()
			} else {
				row[i] = tabular.String(cell)
			}
		}
		if err := t.AppendRow(row...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

package parse

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	"econtab/internal/errors"
	"econtab/pkg/tabular"
)

// ParseXLSX parses one sheet of an Excel workbook into a table. An empty
// sheet name selects the first sheet. The first row supplies the column
// names; every cell starts life as a string, empty cells become nulls.
func ParseXLSX(data []byte, source, sheet string) (*tabular.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.MalformedData(source, err, "opening workbook failed")
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.MalformedData(source, nil, "workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.NotFound("parse", source, "sheet %q not found", sheet)
	}
	if len(rows) == 0 {
		return nil, errors.MalformedData(source, nil, "sheet %q is empty", sheet)
	}

	header := tabular.UniqueNames(rows[0])
	t, err := tabular.New(header...)
	if err != nil {
		return nil, err
	}
	for _, raw := range rows[1:] {
		row := make([]tabular.Value, len(header))
		for i := range header {
			// GetRows trims trailing empty cells, so short rows are normal
			if i >= len(raw) || raw[i] == "" {
				row[i] = tabular.Null()
				continue
			}
			row[i] = tabular.String(raw[i])
		}
		if err := t.AppendRow(row...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// SheetNames lists the sheets in a workbook, in workbook order.
func SheetNames(data []byte, source string) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.MalformedData(source, err, "opening workbook failed")
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

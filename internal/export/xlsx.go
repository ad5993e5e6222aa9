package export

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	"econtab/internal/errors"
	"econtab/pkg/tabular"
)

// renderXLSX builds a single-sheet workbook. Numeric cells keep their
// numeric type so spreadsheet formulas work on the output.
func renderXLSX(t *tabular.Table, opts Options) ([]byte, error) {
	sheet := opts.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}

	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return nil, errors.IO(sheet, err, "naming sheet failed")
		}
	}

	names := t.ColumnNames()
	header := make([]any, len(names))
	for i, name := range names {
		header[i] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, errors.IO(sheet, err, "writing header failed")
	}

	for i := 0; i < t.NumRows(); i++ {
		row := make([]any, len(names))
		for j, v := range t.RowValues(i) {
			row[j] = xlsxCell(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, errors.IO(sheet, err, "computing cell coordinates failed")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, errors.IO(sheet, err, "writing row %d failed", i)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, errors.IO(sheet, err, "serializing workbook failed")
	}
	return buf.Bytes(), nil
}

func xlsxCell(v tabular.Value) any {
	switch v.Kind() {
	case tabular.KindNull:
		return nil
	case tabular.KindInt:
		return v.IntVal()
	case tabular.KindFloat:
		return v.FloatVal()
	case tabular.KindTime:
		return v.TimeVal()
	default:
		return v.Format()
	}
}

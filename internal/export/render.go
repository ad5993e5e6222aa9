package export

import (
	"bytes"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"econtab/pkg/tabular"
)

// renderPretty renders the boxed-text, markdown and HTML formats through
// one go-pretty writer.
func renderPretty(t *tabular.Table, format Format, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	w := table.NewWriter()
	w.SetOutputMirror(&buf)
	w.SetStyle(table.StyleLight)
	if opts.Caption != "" {
		w.SetCaption("%s", opts.Caption)
	}

	names := t.ColumnNames()
	header := make(table.Row, len(names))
	for i, name := range names {
		header[i] = name
	}
	w.AppendHeader(header)

	for i := 0; i < t.NumRows(); i++ {
		row := make(table.Row, len(names))
		for j, v := range t.RowValues(i) {
			row[j] = v.Format()
		}
		w.AppendRow(row)
	}

	switch format {
	case FormatMarkdown:
		w.RenderMarkdown()
	case FormatHTML:
		w.RenderHTML()
	default:
		w.Render()
		fmt.Fprintf(&buf, "(%d rows)\n", t.NumRows())
	}
	return buf.Bytes(), nil
}

package parse

import (
	"strings"

	"golang.org/x/net/html"

	"econtab/internal/errors"
	"econtab/pkg/tabular"
)

// ParseHTMLTables scans a document for <table> elements and converts each
// to a table, in document order. A non-empty contains string restricts
// the result to tables whose rendered text contains that substring; when
// the filter matches nothing the call fails with a not-found error.
func ParseHTMLTables(data []byte, source, contains string) ([]*tabular.Table, error) {
	doc, err := ParseHTML(data, source)
	if err != nil {
		return nil, err
	}

	var out []*tabular.Table
	for node := range doc.FindAll("table", nil) {
		if contains != "" && !strings.Contains(node.Text(), contains) {
			continue
		}
		t, err := tableFromNode(node, source)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		if contains != "" {
			return nil, errors.NotFound("parse", source, "no table contains %q", contains)
		}
		return nil, errors.NotFound("parse", source, "document contains no tables")
	}
	return out, nil
}

// tableFromNode converts one <table> element. The first non-empty row
// supplies the column names; every later row contributes its <th> and
// <td> cells in document order, so row-label cells marked up as <th>
// keep their data cells. Short rows pad with nulls, long rows truncate
// to the header width.
func tableFromNode(node *Node, source string) (*tabular.Table, error) {
	var header []string
	var rows [][]string
	for tr := range node.FindAll("tr", nil) {
		cells := rowCells(tr)
		if len(cells) == 0 {
			continue
		}
		if header == nil {
			header = cells
			continue
		}
		rows = append(rows, cells)
	}
	if header == nil {
		return nil, errors.MalformedData(source, nil, "table element has no rows")
	}

	t, err := tabular.New(tabular.UniqueNames(header)...)
	if err != nil {
		return nil, err
	}
	for _, cells := range rows {
		row := make([]tabular.Value, len(header))
		for i := range header {
			if i >= len(cells) || cells[i] == "" {
				row[i] = tabular.Null()
				continue
			}
			row[i] = tabular.String(cells[i])
		}
		if err := t.AppendRow(row...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// rowCells collects the text of a row's <th> and <td> cells together,
// in document order.
func rowCells(tr *Node) []string {
	var cells []string
	for c := tr.n.FirstChild; c != nil; c = c.NextSibling {
		walkElements(c, func(n *html.Node) bool {
			if n.Data == "th" || n.Data == "td" {
				cells = append(cells, (&Node{n: n}).Text())
			}
			return true
		})
	}
	return cells
}

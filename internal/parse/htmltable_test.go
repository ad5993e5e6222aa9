package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "econtab/internal/errors"
	"econtab/pkg/tabular"
)

const tablesPage = `<html><body>
<table>
  <tr><th>Country</th><th>GDP</th></tr>
  <tr><td>Sweden</td><td>635.7</td></tr>
  <tr><td>Norway</td><td>482.2</td></tr>
</table>
<table>
  <tr><td>Year</td><td>CPI</td></tr>
  <tr><td>2021</td><td>110.5</td></tr>
</table>
</body></html>`

func TestParseHTMLTables(t *testing.T) {
	got, err := ParseHTMLTables([]byte(tablesPage), "page.html", "")
	require.NoError(t, err)
	require.Len(t, got, 2, "one table per <table> element, in document order")

	first := got[0]
	assert.Equal(t, []string{"Country", "GDP"}, first.ColumnNames())
	assert.Equal(t, 2, first.NumRows())
	assert.Equal(t, tabular.String("Sweden"), first.At(0, "Country"))

	second := got[1]
	assert.Equal(t, []string{"Year", "CPI"}, second.ColumnNames(),
		"a headerless table promotes its first row")
	assert.Equal(t, 1, second.NumRows())
}

func TestParseHTMLTablesContainsFilter(t *testing.T) {
	got, err := ParseHTMLTables([]byte(tablesPage), "page.html", "Sweden")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"Country", "GDP"}, got[0].ColumnNames())
}

func TestParseHTMLTablesContainsNoMatch(t *testing.T) {
	_, err := ParseHTMLTables([]byte(tablesPage), "page.html", "Denmark")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestParseHTMLTablesNoTables(t *testing.T) {
	_, err := ParseHTMLTables([]byte("<html><body><p>hi</p></body></html>"), "page.html", "")
	require.Error(t, err, "a table-less document is not silently empty")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestParseHTMLTablesRowLabelHeaders(t *testing.T) {
	page := `<table>
	  <tr><th>Country</th><th>GDP</th></tr>
	  <tr><th>Sweden</th><td>635.7</td></tr>
	  <tr><th>Norway</th><td>482.2</td></tr>
	</table>`
	got, err := ParseHTMLTables([]byte(page), "page.html", "")
	require.NoError(t, err)
	require.Len(t, got, 1)

	tbl := got[0]
	assert.Equal(t, []string{"Country", "GDP"}, tbl.ColumnNames())
	require.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, tabular.String("Sweden"), tbl.At(0, "Country"))
	assert.Equal(t, tabular.String("635.7"), tbl.At(0, "GDP"),
		"a <th> row label must not swallow the row's <td> cells")
	assert.Equal(t, tabular.String("482.2"), tbl.At(1, "GDP"))
}

func TestParseHTMLTablesShortRowsPad(t *testing.T) {
	page := `<table>
	  <tr><th>a</th><th>b</th><th>c</th></tr>
	  <tr><td>1</td></tr>
	  <tr><td>2</td><td>3</td><td>4</td><td>extra</td></tr>
	</table>`
	got, err := ParseHTMLTables([]byte(page), "page.html", "")
	require.NoError(t, err)
	require.Len(t, got, 1)

	tbl := got[0]
	require.Equal(t, 2, tbl.NumRows())
	assert.True(t, tbl.At(0, "b").IsNull(), "short rows pad with nulls")
	assert.Equal(t, tabular.String("4"), tbl.At(1, "c"))
	assert.Equal(t, 3, tbl.NumCols(), "long rows truncate to the header width")
}

func TestUniqueNames(t *testing.T) {
	got := tabular.UniqueNames([]string{"a", "", "a", " b ", "a"})
	assert.Equal(t, []string{"a", "column_2", "a_2", "b", "a_3"}, got)
}

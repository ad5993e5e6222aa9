package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "econtab/internal/errors"
)

func TestFilter(t *testing.T) {
	tbl := gdpTable(t)
	recent := func(r Row) bool { return r.Value("year").IntVal() >= 2021 }

	got := tbl.Filter(recent)
	assert.Equal(t, 2, got.NumRows())
	assert.Equal(t, String("Sweden"), got.At(0, "country"))
	assert.Equal(t, String("Norway"), got.At(1, "country"), "input order is preserved")
	assert.Equal(t, 4, tbl.NumRows(), "input is untouched")
}

func TestFilterIsIdempotent(t *testing.T) {
	tbl := gdpTable(t)
	pred := func(r Row) bool { return !r.Value("gdp").IsNull() }

	once := tbl.Filter(pred)
	twice := once.Filter(pred)
	assert.True(t, once.Equal(twice))
}

func TestFilterNoMatchesKeepsSchema(t *testing.T) {
	tbl := gdpTable(t)
	got := tbl.Filter(func(Row) bool { return false })
	assert.Equal(t, 0, got.NumRows())
	assert.Equal(t, tbl.ColumnNames(), got.ColumnNames())
}

func TestSelect(t *testing.T) {
	tbl := gdpTable(t)

	got, err := tbl.Select("gdp", "country")
	require.NoError(t, err)
	assert.Equal(t, []string{"gdp", "country"}, got.ColumnNames(), "projection order follows the request")
	assert.Equal(t, 4, got.NumRows())
	assert.Equal(t, Float(541.0), got.At(0, "gdp"))

	_, err = tbl.Select("gdp", "population")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnknownColumn))

	_, err = tbl.Select("gdp", "gdp")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidArgument))
}

func TestSort(t *testing.T) {
	tbl := gdpTable(t)

	got, err := tbl.Sort(SortKey{Column: "gdp", Descending: true})
	require.NoError(t, err)
	assert.Equal(t, Float(635.7), got.At(0, "gdp"))
	assert.True(t, got.At(3, "gdp").IsNull(), "descending puts nulls last")

	got, err = tbl.Sort(SortKey{Column: "gdp"})
	require.NoError(t, err)
	assert.True(t, got.At(0, "gdp").IsNull(), "ascending puts nulls first")
}

func TestSortMultiKey(t *testing.T) {
	tbl := gdpTable(t)

	got, err := tbl.Sort(
		SortKey{Column: "country"},
		SortKey{Column: "year", Descending: true},
	)
	require.NoError(t, err)
	assert.Equal(t, String("Norway"), got.At(0, "country"))
	assert.Equal(t, Int(2021), got.At(0, "year"))
	assert.Equal(t, String("Norway"), got.At(1, "country"))
	assert.Equal(t, Int(2020), got.At(1, "year"))
	assert.Equal(t, String("Sweden"), got.At(2, "country"))
}

func TestSortUnknownColumn(t *testing.T) {
	tbl := gdpTable(t)
	_, err := tbl.Sort(SortKey{Column: "population"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnknownColumn))
}

func TestDeriveColumn(t *testing.T) {
	tbl := gdpTable(t)

	got, err := tbl.DeriveColumn("gdp_billions", KindFloat, func(r Row) Value {
		v := r.Value("gdp")
		if v.IsNull() {
			return Null()
		}
		return Float(v.FloatVal() / 1000)
	})
	require.NoError(t, err)
	assert.Equal(t, 4, got.NumCols())
	assert.InDelta(t, 0.541, got.At(0, "gdp_billions").FloatVal(), 1e-9)
	assert.True(t, got.At(3, "gdp_billions").IsNull())
	assert.Equal(t, 3, tbl.NumCols(), "input is untouched")

	_, err = tbl.DeriveColumn("gdp", KindFloat, func(Row) Value { return Null() })
	require.Error(t, err, "existing name must be rejected")
}

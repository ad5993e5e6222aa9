package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "econtab/internal/errors"
)

// charactersTable has a null mass and a null species, the usual shape of
// scraped reference data.
func charactersTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewWithKinds(
		[]string{"name", "species", "mass"},
		[]ValueKind{KindString, KindString, KindFloat},
	)
	require.NoError(t, err)
	rows := [][]Value{
		{String("Luke"), String("Human"), Float(77)},
		{String("C-3PO"), String("Droid"), Float(75)},
		{String("R2-D2"), String("Droid"), Float(32)},
		{String("Leia"), String("Human"), Float(49)},
		{String("Obi-Wan"), String("Human"), Null()},
		{String("Yoda"), Null(), Float(17)},
	}
	for _, r := range rows {
		require.NoError(t, tbl.AppendRow(r...))
	}
	return tbl
}

func TestGroupByMean(t *testing.T) {
	tbl := charactersTable(t)

	got, err := tbl.GroupBy([]string{"species"}, []Aggregation{
		{Column: "mass", Func: AggMean},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"species", "mass_mean"}, got.ColumnNames())
	assert.Equal(t, 3, got.NumRows(), "one row per distinct species, null included")

	// first-appearance order: Human, Droid, then the null species
	assert.Equal(t, String("Human"), got.At(0, "species"))
	assert.InDelta(t, 63.0, got.At(0, "mass_mean").FloatVal(), 1e-9,
		"null mass is skipped, not counted as zero")
	assert.Equal(t, String("Droid"), got.At(1, "species"))
	assert.InDelta(t, 53.5, got.At(1, "mass_mean").FloatVal(), 1e-9)
	assert.True(t, got.At(2, "species").IsNull(), "null keys form their own partition")
	assert.InDelta(t, 17.0, got.At(2, "mass_mean").FloatVal(), 1e-9)
}

func TestGroupByCountAndAlias(t *testing.T) {
	tbl := charactersTable(t)

	got, err := tbl.GroupBy([]string{"species"}, []Aggregation{
		{Column: "mass", Func: AggCount, As: "n"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"species", "n"}, got.ColumnNames())
	assert.Equal(t, Int(2), got.At(0, "n"), "count reports non-null cells only")
	assert.Equal(t, Int(2), got.At(1, "n"))
	assert.Equal(t, Int(1), got.At(2, "n"))
}

func TestGroupByMinMaxSum(t *testing.T) {
	tbl := charactersTable(t)

	got, err := tbl.GroupBy([]string{"species"}, []Aggregation{
		{Column: "mass", Func: AggMin},
		{Column: "mass", Func: AggMax},
		{Column: "mass", Func: AggSum},
	})
	require.NoError(t, err)

	// Droid row
	assert.InDelta(t, 32.0, got.At(1, "mass_min").FloatVal(), 1e-9)
	assert.InDelta(t, 75.0, got.At(1, "mass_max").FloatVal(), 1e-9)
	assert.InDelta(t, 107.0, got.At(1, "mass_sum").FloatVal(), 1e-9)
}

func TestGroupByStdDev(t *testing.T) {
	tbl := charactersTable(t)

	got, err := tbl.GroupBy([]string{"species"}, []Aggregation{
		{Column: "mass", Func: AggStdDev},
	})
	require.NoError(t, err)

	// Droid: sample stddev of {75, 32}
	assert.InDelta(t, 30.405591, got.At(1, "mass_stddev").FloatVal(), 1e-5)
	assert.True(t, got.At(2, "mass_stddev").IsNull(), "one observation has no sample stddev")
}

func TestGroupByAllNullPartition(t *testing.T) {
	tbl, err := NewWithKinds([]string{"g", "x"}, []ValueKind{KindString, KindFloat})
	require.NoError(t, err)
	require.NoError(t, tbl.AppendRow(String("a"), Null()))
	require.NoError(t, tbl.AppendRow(String("a"), Null()))

	got, err := tbl.GroupBy([]string{"g"}, []Aggregation{{Column: "x", Func: AggMean}})
	require.NoError(t, err)
	assert.True(t, got.At(0, "x_mean").IsNull())
}

func TestGroupByErrors(t *testing.T) {
	tbl := charactersTable(t)

	_, err := tbl.GroupBy(nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidArgument))

	_, err = tbl.GroupBy([]string{"homeworld"}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnknownColumn))

	_, err = tbl.GroupBy([]string{"species"}, []Aggregation{{Column: "name", Func: AggMean}})
	require.Error(t, err, "mean over a string column must fail")
}

func TestWithinGroup(t *testing.T) {
	tbl := charactersTable(t)

	got, err := tbl.WithinGroup([]string{"species"}, []Aggregation{
		{Column: "mass", Func: AggMean, As: "species_mass"},
	})
	require.NoError(t, err)

	assert.Equal(t, tbl.NumRows(), got.NumRows(), "row count is preserved")
	assert.Equal(t, []string{"name", "species", "mass", "species_mass"}, got.ColumnNames())

	// every Human row carries the Human mean
	assert.InDelta(t, 63.0, got.At(0, "species_mass").FloatVal(), 1e-9)
	assert.InDelta(t, 63.0, got.At(3, "species_mass").FloatVal(), 1e-9)
	assert.InDelta(t, 63.0, got.At(4, "species_mass").FloatVal(), 1e-9)
	assert.InDelta(t, 53.5, got.At(1, "species_mass").FloatVal(), 1e-9)

	// original rows keep their order and values
	assert.Equal(t, String("Obi-Wan"), got.At(4, "name"))
	assert.True(t, got.At(4, "mass").IsNull())
}

func TestWithinGroupNameCollision(t *testing.T) {
	tbl := charactersTable(t)
	_, err := tbl.WithinGroup([]string{"species"}, []Aggregation{
		{Column: "mass", Func: AggMean, As: "mass"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidArgument))
}

func TestGroupByMultipleKeys(t *testing.T) {
	tbl, err := NewWithKinds(
		[]string{"country", "year", "gdp"},
		[]ValueKind{KindString, KindInt, KindFloat},
	)
	require.NoError(t, err)
	require.NoError(t, tbl.AppendRow(String("Sweden"), Int(2020), Float(1)))
	require.NoError(t, tbl.AppendRow(String("Sweden"), Int(2021), Float(2)))
	require.NoError(t, tbl.AppendRow(String("Sweden"), Int(2020), Float(3)))

	got, err := tbl.GroupBy([]string{"country", "year"}, []Aggregation{
		{Column: "gdp", Func: AggSum},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumRows())
	assert.InDelta(t, 4.0, got.At(0, "gdp_sum").FloatVal(), 1e-9)
	assert.InDelta(t, 2.0, got.At(1, "gdp_sum").FloatVal(), 1e-9)
}

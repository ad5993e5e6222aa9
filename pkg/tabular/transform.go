package tabular

import (
	"sort"

	"econtab/internal/errors"
)

// Predicate decides whether a row is kept by Filter.
type Predicate func(Row) bool

// Filter returns a new table containing the rows for which pred returns
// true. Rows are evaluated in input order and keep that order in the
// output, so filtering twice with the same predicate is a no-op after the
// first pass.
func (t *Table) Filter(pred Predicate) *Table {
	idx := make([]int, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		if pred(Row{t: t, idx: i}) {
			idx = append(idx, i)
		}
	}
	return t.takeRows(idx)
}

// Select projects the table onto the named columns, in the order given.
func (t *Table) Select(names ...string) (*Table, error) {
	out := &Table{byName: make(map[string]int, len(names))}
	for _, name := range names {
		i, ok := t.byName[name]
		if !ok {
			return nil, errors.UnknownColumn("transform", name)
		}
		if _, dup := out.byName[name]; dup {
			return nil, errors.InvalidArgument("transform", "column %q selected twice", name)
		}
		c := t.cols[i]
		vals := make([]Value, len(c.values))
		copy(vals, c.values)
		out.byName[name] = len(out.cols)
		out.cols = append(out.cols, &Column{Name: c.Name, Kind: c.Kind, values: vals})
	}
	return out, nil
}

// SortKey names a sort column and direction.
type SortKey struct {
	Column     string `json:"column" validate:"required"`
	Descending bool   `json:"descending"`
}

// Sort returns a new table ordered by the given keys. The sort is stable,
// so rows that compare equal on every key keep their input order.
func (t *Table) Sort(keys ...SortKey) (*Table, error) {
	for _, k := range keys {
		if !t.HasColumn(k.Column) {
			return nil, errors.UnknownColumn("transform", k.Column)
		}
	}
	idx := make([]int, t.NumRows())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		for _, k := range keys {
			cmp := t.At(idx[a], k.Column).Compare(t.At(idx[b], k.Column))
			if cmp == 0 {
				continue
			}
			if k.Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	return t.takeRows(idx), nil
}

// DeriveColumn returns a new table with an extra column computed from each
// row. The derived column is appended after the existing columns.
func (t *Table) DeriveColumn(name string, kind ValueKind, fn func(Row) Value) (*Table, error) {
	if t.HasColumn(name) {
		return nil, errors.InvalidArgument("transform", "derived column %q already exists", name)
	}
	out := t.Clone()
	vals := make([]Value, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		vals = append(vals, fn(Row{t: t, idx: i}))
	}
	out.byName[name] = len(out.cols)
	out.cols = append(out.cols, &Column{Name: name, Kind: kind, values: vals})
	return out, nil
}

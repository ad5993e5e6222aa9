package tabular

import (
	"fmt"
	"strings"

	"econtab/internal/errors"
)

// Column is a named, homogeneously typed sequence of nullable values owned
// by a Table. Kind is the declared type of non-null cells.
type Column struct {
	Name   string
	Kind   ValueKind
	values []Value
}

// Len returns the number of cells in the column.
func (c *Column) Len() int { return len(c.values) }

// Value returns the cell at row i.
func (c *Column) Value(i int) Value { return c.values[i] }

// Values returns a copy of the column's cells.
func (c *Column) Values() []Value {
	out := make([]Value, len(c.values))
	copy(out, c.values)
	return out
}

// Table is an ordered collection of equal-length named columns. Row order
// is meaningful and preserved by every operation unless the operation
// explicitly sorts or samples. Column names are unique within a Table.
//
// Tables behave as values: transformations return new Tables and never
// mutate their input.
type Table struct {
	cols   []*Column
	byName map[string]int
}

// New creates a Table with the given column names, all declared as string
// columns with no rows.
func New(names ...string) (*Table, error) {
	t := &Table{byName: make(map[string]int, len(names))}
	for _, name := range names {
		if err := t.addColumn(name, KindString); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// UniqueNames makes raw header cells usable as column names: blanks get
// positional names and duplicates get a numeric suffix.
func UniqueNames(raw []string) []string {
	out := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	for i, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		candidate := name
		for n := 2; used[candidate]; n++ {
			candidate = fmt.Sprintf("%s_%d", name, n)
		}
		used[candidate] = true
		out[i] = candidate
	}
	return out
}

// NewWithKinds creates an empty Table with declared column types.
func NewWithKinds(names []string, kinds []ValueKind) (*Table, error) {
	if len(names) != len(kinds) {
		return nil, errors.InvalidArgument("table", "got %d names but %d kinds", len(names), len(kinds))
	}
	t := &Table{byName: make(map[string]int, len(names))}
	for i, name := range names {
		if err := t.addColumn(name, kinds[i]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) addColumn(name string, kind ValueKind) error {
	if _, dup := t.byName[name]; dup {
		return errors.InvalidArgument("table", "duplicate column name %q", name)
	}
	t.byName[name] = len(t.cols)
	t.cols = append(t.cols, &Column{Name: name, Kind: kind})
	return nil
}

// NumRows returns the row count.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0].values)
}

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or false when absent.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// At returns the cell at the given row in the named column. It returns the
// Null value for an unknown column; use HasColumn when absence matters.
func (t *Table) At(row int, name string) Value {
	i, ok := t.byName[name]
	if !ok {
		return Null()
	}
	return t.cols[i].values[row]
}

// RowValues returns a copy of row i in column order.
func (t *Table) RowValues(i int) []Value {
	out := make([]Value, len(t.cols))
	for j, c := range t.cols {
		out[j] = c.values[i]
	}
	return out
}

// AppendRow appends one cell per column, in column order.
func (t *Table) AppendRow(cells ...Value) error {
	if len(cells) != len(t.cols) {
		return errors.InvalidArgument("table", "row has %d cells, table has %d columns", len(cells), len(t.cols))
	}
	for i, c := range t.cols {
		t.cols[i].values = append(c.values, cells[i])
	}
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		cols:   make([]*Column, len(t.cols)),
		byName: make(map[string]int, len(t.byName)),
	}
	for i, c := range t.cols {
		vals := make([]Value, len(c.values))
		copy(vals, c.values)
		out.cols[i] = &Column{Name: c.Name, Kind: c.Kind, values: vals}
		out.byName[c.Name] = i
	}
	return out
}

// Equal reports whether two tables have identical column names, declared
// kinds, and cell values in the same order.
func (t *Table) Equal(other *Table) bool {
	if other == nil || len(t.cols) != len(other.cols) || t.NumRows() != other.NumRows() {
		return false
	}
	for i, c := range t.cols {
		oc := other.cols[i]
		if c.Name != oc.Name || c.Kind != oc.Kind {
			return false
		}
		for j := range c.values {
			if !c.values[j].Equal(oc.values[j]) {
				return false
			}
		}
	}
	return true
}

// emptyLike returns a zero-row table with the same column names and kinds.
func (t *Table) emptyLike() *Table {
	out := &Table{
		cols:   make([]*Column, len(t.cols)),
		byName: make(map[string]int, len(t.byName)),
	}
	for i, c := range t.cols {
		out.cols[i] = &Column{Name: c.Name, Kind: c.Kind}
		out.byName[c.Name] = i
	}
	return out
}

// takeRows builds a new table from the given row indices of t, in order.
func (t *Table) takeRows(idx []int) *Table {
	out := t.emptyLike()
	for i, c := range t.cols {
		vals := make([]Value, 0, len(idx))
		for _, r := range idx {
			vals = append(vals, c.values[r])
		}
		out.cols[i].values = vals
	}
	return out
}

// Row provides named access to one row during predicate evaluation.
type Row struct {
	t   *Table
	idx int
}

// Index returns the row's position in the table.
func (r Row) Index() int { return r.idx }

// Value returns the cell in the named column, Null for unknown columns.
func (r Row) Value(name string) Value { return r.t.At(r.idx, name) }

package tabular

import (
	"math"
	"strings"

	"econtab/internal/errors"
)

// AggFunc names an aggregation applied to one column per partition.
type AggFunc string

const (
	AggMean   AggFunc = "mean"
	AggSum    AggFunc = "sum"
	AggCount  AggFunc = "count"
	AggStdDev AggFunc = "stddev"
	AggMin    AggFunc = "min"
	AggMax    AggFunc = "max"
)

// Aggregation binds an aggregation function to a value column. As names the
// output column; empty As defaults to "<column>_<func>".
type Aggregation struct {
	Column string  `json:"column" validate:"required"`
	Func   AggFunc `json:"func" validate:"required,oneof=mean sum count stddev min max"`
	As     string  `json:"as,omitempty"`
}

func (a Aggregation) outputName() string {
	if a.As != "" {
		return a.As
	}
	return a.Column + "_" + string(a.Func)
}

// partition holds the row indices sharing one group-key tuple, in input
// order.
type partition struct {
	key  []Value
	rows []int
}

// partitions splits the table's rows by unique key-column tuples. The
// returned slice is ordered by first appearance of each key tuple.
func (t *Table) partitions(keys []string) ([]partition, error) {
	for _, k := range keys {
		if !t.HasColumn(k) {
			return nil, errors.UnknownColumn("transform", k)
		}
	}
	byKey := make(map[string]int)
	var parts []partition
	for i := 0; i < t.NumRows(); i++ {
		var sb strings.Builder
		tuple := make([]Value, len(keys))
		for j, k := range keys {
			v := t.At(i, k)
			tuple[j] = v
			sb.WriteString(v.groupKey())
			sb.WriteByte('\x1e')
		}
		gk := sb.String()
		p, seen := byKey[gk]
		if !seen {
			p = len(parts)
			byKey[gk] = p
			parts = append(parts, partition{key: tuple})
		}
		parts[p].rows = append(parts[p].rows, i)
	}
	return parts, nil
}

// aggregate computes one aggregation over the given rows of a column.
// Null cells are skipped; an all-null partition aggregates to Null (count
// still reports the number of non-null cells).
func aggregate(c *Column, rows []int, fn AggFunc) (Value, error) {
	var (
		n     int64
		sum   float64
		sumSq float64
		min   float64
		max   float64
	)
	for _, r := range rows {
		v := c.values[r]
		if v.IsNull() {
			continue
		}
		if fn == AggCount {
			n++
			continue
		}
		f, ok := v.AsFloat()
		if !ok {
			return Null(), errors.InvalidArgument("transform",
				"aggregation %s needs a numeric column, %q is %s", fn, c.Name, c.Kind)
		}
		if n == 0 {
			min, max = f, f
		} else {
			if f < min {
				min = f
			}
			if f > max {
				max = f
			}
		}
		n++
		sum += f
		sumSq += f * f
	}
	if fn == AggCount {
		return Int(n), nil
	}
	if n == 0 {
		return Null(), nil
	}
	switch fn {
	case AggSum:
		return Float(sum), nil
	case AggMean:
		return Float(sum / float64(n)), nil
	case AggMin:
		return Float(min), nil
	case AggMax:
		return Float(max), nil
	case AggStdDev:
		if n < 2 {
			return Null(), nil
		}
		// sample standard deviation, matching the source material's default
		mean := sum / float64(n)
		variance := (sumSq - float64(n)*mean*mean) / float64(n-1)
		if variance < 0 {
			variance = 0
		}
		return Float(math.Sqrt(variance)), nil
	default:
		return Null(), errors.InvalidArgument("transform", "unknown aggregation %q", fn)
	}
}

func aggOutputKind(fn AggFunc) ValueKind {
	if fn == AggCount {
		return KindInt
	}
	return KindFloat
}

// GroupBy partitions rows by the unique combination of values in the key
// columns and applies each aggregation per partition, producing one output
// row per partition: the key columns followed by one column per
// aggregation. Partitions appear in order of first occurrence; sort
// afterwards for a different order.
func (t *Table) GroupBy(keys []string, aggs []Aggregation) (*Table, error) {
	if len(keys) == 0 {
		return nil, errors.InvalidArgument("transform", "group requires at least one key column")
	}
	parts, err := t.partitions(keys)
	if err != nil {
		return nil, err
	}
	aggCols := make([]*Column, len(aggs))
	for i, a := range aggs {
		c, ok := t.Column(a.Column)
		if !ok {
			return nil, errors.UnknownColumn("transform", a.Column)
		}
		aggCols[i] = c
	}

	names := make([]string, 0, len(keys)+len(aggs))
	kinds := make([]ValueKind, 0, len(keys)+len(aggs))
	for _, k := range keys {
		c, _ := t.Column(k)
		names = append(names, k)
		kinds = append(kinds, c.Kind)
	}
	for _, a := range aggs {
		names = append(names, a.outputName())
		kinds = append(kinds, aggOutputKind(a.Func))
	}
	out, err := NewWithKinds(names, kinds)
	if err != nil {
		return nil, err
	}

	for _, p := range parts {
		row := make([]Value, 0, len(names))
		row = append(row, p.key...)
		for i, a := range aggs {
			v, err := aggregate(aggCols[i], p.rows, a.Func)
			if err != nil {
				return nil, err
			}
			row = append(row, v)
		}
		if err := out.AppendRow(row...); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// WithinGroup computes each aggregation per partition and broadcasts the
// result back to every row of that partition. The output has the same row
// count and order as the input, with one extra column per aggregation.
func (t *Table) WithinGroup(keys []string, aggs []Aggregation) (*Table, error) {
	if len(keys) == 0 {
		return nil, errors.InvalidArgument("transform", "group requires at least one key column")
	}
	parts, err := t.partitions(keys)
	if err != nil {
		return nil, err
	}
	out := t.Clone()
	for _, a := range aggs {
		c, ok := t.Column(a.Column)
		if !ok {
			return nil, errors.UnknownColumn("transform", a.Column)
		}
		name := a.outputName()
		if out.HasColumn(name) {
			return nil, errors.InvalidArgument("transform", "output column %q already exists", name)
		}
		vals := make([]Value, t.NumRows())
		for _, p := range parts {
			v, err := aggregate(c, p.rows, a.Func)
			if err != nil {
				return nil, err
			}
			for _, r := range p.rows {
				vals[r] = v
			}
		}
		out.byName[name] = len(out.cols)
		out.cols = append(out.cols, &Column{Name: name, Kind: aggOutputKind(a.Func), values: vals})
	}
	return out, nil
}

package tabular

import (
	"strconv"
	"strings"

	"econtab/internal/errors"
)

// FilterOp is a comparison operator in a declarative filter.
type FilterOp string

const (
	OpEq       FilterOp = "eq"
	OpNe       FilterOp = "ne"
	OpLt       FilterOp = "lt"
	OpLe       FilterOp = "le"
	OpGt       FilterOp = "gt"
	OpGe       FilterOp = "ge"
	OpContains FilterOp = "contains"
	OpNotNull  FilterOp = "notnull"
)

// FilterSpec is one predicate clause. Clauses combine with AND. Value is
// parsed against the column's declared kind before comparison.
type FilterSpec struct {
	Column string   `json:"column" validate:"required"`
	Op     FilterOp `json:"op" validate:"required,oneof=eq ne lt le gt ge contains notnull"`
	Value  string   `json:"value,omitempty"`
}

// Query is an immutable specification of a transformation: filters, column
// selection, sort keys, grouping with aggregations, and sampling. A Query
// is consumed by Apply and not retained. Stages run in the order filter →
// select → group/within-group → sort → sample.
type Query struct {
	Filters      []FilterSpec  `json:"filters,omitempty" validate:"dive"`
	Select       []string      `json:"select,omitempty"`
	Sort         []SortKey     `json:"sort,omitempty" validate:"dive"`
	GroupBy      []string      `json:"group_by,omitempty"`
	Aggregations []Aggregation `json:"aggregations,omitempty" validate:"dive"`
	// WithinGroup broadcasts aggregates back to every row instead of
	// collapsing partitions.
	WithinGroup bool        `json:"within_group,omitempty"`
	Sample      *SampleSpec `json:"sample,omitempty"`
}

// Apply runs the query against a table and returns a new table. The input
// is never modified.
func (q Query) Apply(t *Table) (*Table, error) {
	out := t
	for _, f := range q.Filters {
		pred, err := compileFilter(out, f)
		if err != nil {
			return nil, err
		}
		out = out.Filter(pred)
	}
	if len(q.Select) > 0 {
		selected, err := out.Select(q.Select...)
		if err != nil {
			return nil, err
		}
		out = selected
	}
	if len(q.GroupBy) > 0 {
		var err error
		if q.WithinGroup {
			out, err = out.WithinGroup(q.GroupBy, q.Aggregations)
		} else {
			out, err = out.GroupBy(q.GroupBy, q.Aggregations)
		}
		if err != nil {
			return nil, err
		}
	} else if len(q.Aggregations) > 0 {
		return nil, errors.InvalidArgument("transform", "aggregations require group_by columns")
	}
	if len(q.Sort) > 0 {
		sorted, err := out.Sort(q.Sort...)
		if err != nil {
			return nil, err
		}
		out = sorted
	}
	if q.Sample != nil {
		sampled, err := out.Sample(*q.Sample)
		if err != nil {
			return nil, err
		}
		out = sampled
	}
	if out == t {
		// empty query still returns an independent table
		out = t.Clone()
	}
	return out, nil
}

// compileFilter turns a declarative clause into a predicate, parsing the
// comparison value against the column's declared kind once up front.
func compileFilter(t *Table, f FilterSpec) (Predicate, error) {
	col, ok := t.Column(f.Column)
	if !ok {
		return nil, errors.UnknownColumn("transform", f.Column)
	}
	if f.Op == OpNotNull {
		return func(r Row) bool { return !r.Value(f.Column).IsNull() }, nil
	}
	if f.Op == OpContains {
		if col.Kind != KindString {
			return nil, errors.InvalidArgument("transform",
				"contains needs a string column, %q is %s", f.Column, col.Kind)
		}
		return func(r Row) bool {
			v := r.Value(f.Column)
			return !v.IsNull() && strings.Contains(v.Str(), f.Value)
		}, nil
	}

	target, err := parseLiteral(f.Value, col.Kind)
	if err != nil {
		return nil, errors.InvalidArgument("transform",
			"filter value %q does not parse as %s for column %q", f.Value, col.Kind, f.Column)
	}
	return func(r Row) bool {
		v := r.Value(f.Column)
		if v.IsNull() {
			return false
		}
		cmp := v.Compare(target)
		switch f.Op {
		case OpEq:
			return cmp == 0
		case OpNe:
			return cmp != 0
		case OpLt:
			return cmp < 0
		case OpLe:
			return cmp <= 0
		case OpGt:
			return cmp > 0
		case OpGe:
			return cmp >= 0
		default:
			return false
		}
	}, nil
}

// parseLiteral converts a filter literal to the column's kind.
func parseLiteral(s string, kind ValueKind) (Value, error) {
	switch kind {
	case KindInt:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Null(), err
		}
		return Int(i), nil
	case KindFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Null(), err
		}
		return Float(f), nil
	case KindTime:
		v, err := coerceValue(String(s), KindTime, "")
		if err != nil {
			return Null(), err
		}
		return v, nil
	default:
		return String(s), nil
	}
}

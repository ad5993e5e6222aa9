package tabular

import (
	"strconv"
	"strings"
	"time"

	"econtab/internal/errors"
)

// CoercionPolicy decides what happens when a cell cannot convert to the
// requested type.
type CoercionPolicy string

const (
	// FailFast aborts the whole normalization on the first bad cell. This
	// is the default: malformed data in the sources is exceptional, and a
	// silent null hides it.
	FailFast CoercionPolicy = "fail"
	// NullOnError replaces unconvertible cells with Null and keeps going.
	NullOnError CoercionPolicy = "null"
)

// Coercion converts one column to a target kind. Layout is the reference
// time layout for KindTime targets; empty tries a set of common layouts.
type Coercion struct {
	Column string    `json:"column" validate:"required"`
	To     ValueKind `json:"to"`
	Layout string    `json:"layout,omitempty"`
}

// Normalization bundles the column coercions and renames applied in one
// pass. Renames run after coercions, so Coercion.Column uses the original
// name.
type Normalization struct {
	Coercions []Coercion        `json:"coercions,omitempty" validate:"dive"`
	Renames   map[string]string `json:"renames,omitempty"`
	OnError   CoercionPolicy    `json:"on_error,omitempty"`
}

// dateLayouts are tried in order when a time coercion has no explicit
// layout. Covers the formats seen across the source datasets.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
	"02-01-2006",
	"Jan 2, 2006",
	"2006",
}

// Normalize applies the coercions and renames, returning a new table with
// the same row count. Under FailFast a failed conversion returns a
// TypeCoercion error naming the offending column and row.
func Normalize(t *Table, spec Normalization) (*Table, error) {
	policy := spec.OnError
	if policy == "" {
		policy = FailFast
	}
	out := t.Clone()
	for _, c := range spec.Coercions {
		i, ok := out.byName[c.Column]
		if !ok {
			return nil, errors.UnknownColumn("normalize", c.Column)
		}
		col := out.cols[i]
		for row, v := range col.values {
			converted, err := coerceValue(v, c.To, c.Layout)
			if err != nil {
				if policy == NullOnError {
					col.values[row] = Null()
					continue
				}
				return nil, errors.TypeCoercion(c.Column, row,
					"cannot convert %q to %s", v.Format(), c.To)
			}
			col.values[row] = converted
		}
		col.Kind = c.To
	}
	for from, to := range spec.Renames {
		i, ok := out.byName[from]
		if !ok {
			return nil, errors.UnknownColumn("normalize", from)
		}
		if _, dup := out.byName[to]; dup && to != from {
			return nil, errors.InvalidArgument("normalize", "rename target %q already exists", to)
		}
		delete(out.byName, from)
		out.byName[to] = i
		out.cols[i].Name = to
	}
	return out, nil
}

// coerceValue converts a single cell. Nulls pass through untouched.
func coerceValue(v Value, to ValueKind, layout string) (Value, error) {
	if v.IsNull() || v.Kind() == to {
		return v, nil
	}
	switch to {
	case KindString:
		return String(v.Format()), nil
	case KindInt:
		switch v.Kind() {
		case KindFloat:
			f := v.FloatVal()
			if f == float64(int64(f)) {
				return Int(int64(f)), nil
			}
			return Null(), errors.InvalidArgument("normalize", "float %v is not integral", f)
		case KindString:
			s := cleanNumeric(v.Str())
			i, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return Null(), err
			}
			return Int(i), nil
		}
	case KindFloat:
		switch v.Kind() {
		case KindInt:
			return Float(float64(v.IntVal())), nil
		case KindString:
			s := cleanNumeric(v.Str())
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return Null(), err
			}
			return Float(f), nil
		}
	case KindTime:
		if v.Kind() == KindString {
			s := strings.TrimSpace(v.Str())
			layouts := dateLayouts
			if layout != "" {
				layouts = []string{layout}
			}
			for _, l := range layouts {
				if ts, err := time.Parse(l, s); err == nil {
					return Date(ts), nil
				}
			}
			return Null(), errors.InvalidArgument("normalize", "no date layout matches %q", s)
		}
	}
	return Null(), errors.InvalidArgument("normalize", "cannot convert %s to %s", v.Kind(), to)
}

// cleanNumeric strips thousands separators and surrounding whitespace, the
// way the source spreadsheets format numbers.
func cleanNumeric(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	return s
}

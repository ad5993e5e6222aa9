package tabular

import (
	"fmt"
	"strconv"
	"time"
)

// ValueKind identifies the type of a cell value.
type ValueKind uint8

const (
	// KindNull marks a missing value. Null cells are legal in any column.
	KindNull ValueKind = iota
	// KindString is a UTF-8 text value.
	KindString
	// KindInt is a 64-bit signed integer value.
	KindInt
	// KindFloat is a 64-bit floating point value.
	KindFloat
	// KindTime is a calendar date or timestamp value.
	KindTime
)

// String returns the kind name used in error messages and schemas.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// MarshalText renders the kind name, so JSON payloads carry "float"
// rather than an opaque number.
func (k ValueKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name. "date" is accepted as an alias for
// time, matching the CLI flags.
func (k *ValueKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "null", "":
		*k = KindNull
	case "string":
		*k = KindString
	case "int":
		*k = KindInt
	case "float":
		*k = KindFloat
	case "time", "date":
		*k = KindTime
	default:
		return fmt.Errorf("unknown value kind %q", text)
	}
	return nil
}

// Value is a tagged cell value. The zero Value is Null. Values are
// immutable; transformations build new ones.
type Value struct {
	kind ValueKind
	s    string
	i    int64
	f    float64
	t    time.Time
}

// Null returns the missing-value marker.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Date returns a time value.
func Date(t time.Time) Value { return Value{kind: KindTime, t: t} }

// Kind returns the value's type tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is the missing-value marker.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload. It is only meaningful for KindString.
func (v Value) Str() string { return v.s }

// IntVal returns the integer payload. It is only meaningful for KindInt.
func (v Value) IntVal() int64 { return v.i }

// FloatVal returns the float payload. It is only meaningful for KindFloat.
func (v Value) FloatVal() float64 { return v.f }

// TimeVal returns the time payload. It is only meaningful for KindTime.
func (v Value) TimeVal() time.Time { return v.t }

// AsFloat returns the value as a float64 for numeric computation.
// Int and Float values convert; everything else reports ok=false.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// Format renders the value for display and delimited export. Null renders
// as the empty string, dates use ISO 8601.
func (v Value) Format() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindTime:
		if v.t.Hour() == 0 && v.t.Minute() == 0 && v.t.Second() == 0 {
			return v.t.Format("2006-01-02")
		}
		return v.t.Format(time.RFC3339)
	default:
		return ""
	}
}

// Equal reports whether two values have the same kind and payload.
// Time values compare as instants.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.s == other.s
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindTime:
		return v.t.Equal(other.t)
	default:
		return false
	}
}

// Compare orders two values. Nulls sort first, then by payload within the
// same kind. Mixed numeric kinds compare as floats; any other kind
// mismatch falls back to kind order so sorting stays total.
func (v Value) Compare(other Value) int {
	if v.kind == KindNull || other.kind == KindNull {
		switch {
		case v.kind == other.kind:
			return 0
		case v.kind == KindNull:
			return -1
		default:
			return 1
		}
	}
	if vf, ok := v.AsFloat(); ok {
		if of, ok2 := other.AsFloat(); ok2 {
			switch {
			case vf < of:
				return -1
			case vf > of:
				return 1
			default:
				return 0
			}
		}
	}
	if v.kind != other.kind {
		return int(v.kind) - int(other.kind)
	}
	switch v.kind {
	case KindString:
		switch {
		case v.s < other.s:
			return -1
		case v.s > other.s:
			return 1
		default:
			return 0
		}
	case KindTime:
		switch {
		case v.t.Before(other.t):
			return -1
		case v.t.After(other.t):
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}

// groupKey encodes the value for use in a map key during grouping.
// The kind prefix keeps Int(1) and String("1") distinct.
func (v Value) groupKey() string {
	return string(rune('0'+v.kind)) + "\x1f" + v.Format()
}

package tabular

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueZeroIsNull(t *testing.T) {
	var v Value
	assert.True(t, v.IsNull())
	assert.Equal(t, KindNull, v.Kind())
	assert.Equal(t, "", v.Format())
}

func TestValueFormat(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{name: "null", v: Null(), want: ""},
		{name: "string", v: String("Sweden"), want: "Sweden"},
		{name: "int", v: Int(1946), want: "1946"},
		{name: "float", v: Float(3.14), want: "3.14"},
		{name: "float integral", v: Float(12), want: "12"},
		{
			name: "midnight date collapses to day",
			v:    Date(time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)),
			want: "2021-06-01",
		},
		{
			name: "timestamp keeps time of day",
			v:    Date(time.Date(2021, 6, 1, 9, 30, 0, 0, time.UTC)),
			want: "2021-06-01T09:30:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Format())
		})
	}
}

func TestValueAsFloat(t *testing.T) {
	f, ok := Int(3).AsFloat()
	require.True(t, ok)
	assert.Equal(t, 3.0, f)

	f, ok = Float(2.5).AsFloat()
	require.True(t, ok)
	assert.Equal(t, 2.5, f)

	_, ok = String("2.5").AsFloat()
	assert.False(t, ok)

	_, ok = Null().AsFloat()
	assert.False(t, ok)
}

func TestValueCompare(t *testing.T) {
	day := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{name: "nulls equal", a: Null(), b: Null(), want: 0},
		{name: "null sorts before value", a: Null(), b: Int(0), want: -1},
		{name: "value after null", a: String(""), b: Null(), want: 1},
		{name: "ints", a: Int(1), b: Int(2), want: -1},
		{name: "int vs float cross kind", a: Int(2), b: Float(1.5), want: 1},
		{name: "float equal int", a: Float(3), b: Int(3), want: 0},
		{name: "strings lexicographic", a: String("a"), b: String("b"), want: -1},
		{name: "dates", a: Date(day), b: Date(day.AddDate(0, 0, 1)), want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Compare(tt.b))
		})
	}
}

func TestValueKindText(t *testing.T) {
	out, err := KindFloat.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "float", string(out))

	var k ValueKind
	require.NoError(t, k.UnmarshalText([]byte("date")))
	assert.Equal(t, KindTime, k)

	assert.Error(t, k.UnmarshalText([]byte("decimal")))
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Int(5).Equal(Int(5)))
	assert.True(t, Null().Equal(Null()))
	assert.False(t, Int(5).Equal(Float(5))) // same magnitude, different kind
	assert.False(t, String("5").Equal(Int(5)))
}

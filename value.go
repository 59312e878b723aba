package spellout

import (
	"fmt"
	"math"
	"strconv"

	"github.com/govalues/decimal"
)

// Value represents a numeric result produced by parsing.
// It is either integral, in which case it carries an exact int64,
// or fractional, in which case it carries a float64.
// The zero value is the integer 0, which is also what [RuleSet.Parse]
// returns when nothing matched.
type Value struct {
	f   float64
	i   int64
	fra bool // true if the value is fractional
}

// IntValue returns a Value holding the integer i.
func IntValue(i int64) Value {
	return Value{i: i}
}

// FloatValue returns a Value holding the floating-point number f.
// If f has no fractional part and fits in an int64, the result is
// integral instead.
func FloatValue(f float64) Value {
	if f == math.Trunc(f) && f >= math.MinInt64 && f <= math.MaxInt64 {
		return IntValue(int64(f))
	}
	return Value{f: f, fra: true}
}

// IsInt64 reports whether the value is integral.
func (v Value) IsInt64() bool {
	return !v.fra
}

// Int64 returns the value as an int64, truncating any fractional part.
// See also method [Value.Float64].
func (v Value) Int64() int64 {
	if v.fra {
		return int64(v.f)
	}
	return v.i
}

// Float64 returns the value as a float64.
// This conversion may lose precision for very large integral values.
// See also method [Value.Int64].
func (v Value) Float64() float64 {
	if v.fra {
		return v.f
	}
	return float64(v.i)
}

// Decimal returns the decimal representation of the value.
// See also constructors [decimal.New] and [decimal.NewFromFloat64].
//
// Decimal returns an error if the value cannot be represented as a decimal,
// for example when it is infinite.
func (v Value) Decimal() (decimal.Decimal, error) {
	if !v.fra {
		d, err := decimal.New(v.i, 0)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("converting value: %w", err)
		}
		return d, nil
	}
	d, err := decimal.NewFromFloat64(v.f)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("converting value: %w", err)
	}
	return d, nil
}

// String implements the [fmt.Stringer] interface and returns a string
// representation of the value.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (v Value) String() string {
	if v.fra {
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	}
	return strconv.FormatInt(v.i, 10)
}

package spellout

import (
	"math"
	"testing"

	"github.com/govalues/decimal"
)

func TestValue_Conversions(t *testing.T) {
	tests := []struct {
		name      string
		value     Value
		wantInt64 bool
		wantInt   int64
		wantFloat float64
	}{
		{"zero value", Value{}, true, 0, 0},
		{"int", IntValue(25), true, 25, 25},
		{"negative int", IntValue(-7), true, -7, -7},
		{"integral float", FloatValue(42), true, 42, 42},
		{"negative integral float", FloatValue(-3), true, -3, -3},
		{"fraction", FloatValue(2.5), false, 2, 2.5},
		{"proper fraction", FloatValue(0.25), false, 0, 0.25},
		{"max int", IntValue(math.MaxInt64), true, math.MaxInt64, float64(math.MaxInt64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.IsInt64(); got != tt.wantInt64 {
				t.Errorf("IsInt64() = %v, want %v", got, tt.wantInt64)
			}
			if got := tt.value.Int64(); got != tt.wantInt {
				t.Errorf("Int64() = %v, want %v", got, tt.wantInt)
			}
			if got := tt.value.Float64(); got != tt.wantFloat {
				t.Errorf("Float64() = %v, want %v", got, tt.wantFloat)
			}
		})
	}
}

func TestValue_Decimal(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			value Value
			want  string
		}{
			{IntValue(0), "0"},
			{IntValue(206), "206"},
			{IntValue(-25), "-25"},
			{FloatValue(2.5), "2.5"},
			{FloatValue(0.25), "0.25"},
		}
		for _, tt := range tests {
			d, err := tt.value.Decimal()
			if err != nil {
				t.Errorf("%v.Decimal() failed: %v", tt.value, err)
				continue
			}
			want := decimal.MustParse(tt.want)
			if d.Cmp(want) != 0 {
				t.Errorf("%v.Decimal() = %v, want %v", tt.value, d, tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]Value{
			"positive infinity": FloatValue(math.Inf(1)),
			"negative infinity": FloatValue(math.Inf(-1)),
			"not a number":      FloatValue(math.NaN()),
		}
		for name, v := range tests {
			t.Run(name, func(t *testing.T) {
				if _, err := v.Decimal(); err == nil {
					t.Errorf("%v.Decimal() did not fail", v)
				}
			})
		}
	})
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{IntValue(0), "0"},
		{IntValue(-12), "-12"},
		{IntValue(1234567), "1234567"},
		{FloatValue(2.5), "2.5"},
		{FloatValue(0.25), "0.25"},
		{FloatValue(-0.5), "-0.5"},
	}
	for _, tt := range tests {
		if got := tt.value.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

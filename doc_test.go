package spellout_test

import (
	"fmt"

	"github.com/govalues/spellout"
)

const english = `
%cardinal:
    -x: minus >>;
    x.x: << point >>;
    0.x: point >>;
    zero; one; two; three; four; five; six; seven; eight; nine;
    ten; eleven; twelve; thirteen; fourteen; fifteen; sixteen;
    seventeen; eighteen; nineteen;
    20: twenty[->>];
    30: thirty[->>];
    40: forty[->>];
    50: fifty[->>];
    60: sixty[->>];
    70: seventy[->>];
    80: eighty[->>];
    90: ninety[->>];
    100: << hundred[ >>];
    1000: << thousand[ >>];
`

// In this example, integers are spelled out as English cardinal numbers.
func ExampleSystem_FormatInt64() {
	sys := spellout.MustNew(english)

	for _, n := range []int64{7, 42, 300, 321, -15} {
		text, err := sys.FormatInt64(n)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%5d = %s\n", n, text)
	}

	// Output:
	//     7 = seven
	//    42 = forty-two
	//   300 = three hundred
	//   321 = three hundred twenty-one
	//   -15 = minus fifteen
}

// In this example, spelled-out text is parsed back into numbers.
func ExampleSystem_Parse() {
	sys := spellout.MustNew(english)

	for _, text := range []string{
		"four thousand two hundred",
		"minus twelve",
		"two point five",
	} {
		v, consumed := sys.Parse(text)
		fmt.Printf("%q = %v (%d bytes)\n", text, v, consumed)
	}

	// Output:
	// "four thousand two hundred" = 4200 (25 bytes)
	// "minus twelve" = -12 (12 bytes)
	// "two point five" = 2.5 (14 bytes)
}

// In this example, a value recovered by parsing is converted to a decimal
// for exact downstream arithmetic.
func ExampleValue_Decimal() {
	sys := spellout.MustNew(english)

	v, _ := sys.Parse("twelve point five")
	d, err := v.Decimal()
	if err != nil {
		panic(err)
	}
	fmt.Println(d)

	// Output:
	// 12.5
}

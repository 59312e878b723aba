package spellout

import (
	"fmt"
	"testing"
)

// testResolver maps rule set names for substitution tokens in tests.
type testResolver map[string]*RuleSet

func (m testResolver) FindRuleSet(name string) (*RuleSet, error) {
	rs, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("no rule set named %s", name)
	}
	return rs, nil
}

func makeOne(t *testing.T, description string, owner *RuleSet, resolver RuleSetResolver) *BasicRule {
	t.Helper()
	if owner == nil {
		owner = &RuleSet{name: "%test", parseable: true}
	}
	if resolver == nil {
		resolver = testResolver{}
	}
	rules, err := MakeBasicRules(description, owner, nil, resolver, nil)
	if err != nil {
		t.Fatalf("MakeBasicRules(%q) failed: %v", description, err)
	}
	if len(rules) != 1 {
		t.Fatalf("MakeBasicRules(%q) made %v rules, want 1", description, len(rules))
	}
	return rules[0].(*BasicRule)
}

func TestBasicRule_Descriptor(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			description string
			wantKind    RuleKind
			wantBase    int64
			wantRadix   int64
			wantDivisor int64
		}{
			{"0: zero", KindNormal, 0, 10, 1},
			{"20: twenty", KindNormal, 20, 10, 10},
			{"100: hundred", KindNormal, 100, 10, 100},
			{"1,000: thousand", KindNormal, 1000, 10, 1000},
			{"1 000 000: million", KindNormal, 1000000, 10, 1000000},
			{"100/20: score", KindNormal, 100, 20, 20},
			{"1000>: x", KindNormal, 1000, 10, 100},
			{"1000>>: x", KindNormal, 1000, 10, 10},
			{"-x: minus", KindNegativeNumber, 0, 10, 1},
			{"x.x: and", KindImproperFraction, 0, 10, 1},
			{"0.x: point", KindProperFraction, 0, 10, 1},
			{"x.0: whole", KindMaster, 0, 10, 1},
		}
		for _, tt := range tests {
			r := makeOne(t, tt.description, nil, nil)
			if r.Kind() != tt.wantKind {
				t.Errorf("MakeBasicRules(%q).Kind() = %v, want %v", tt.description, r.Kind(), tt.wantKind)
			}
			if r.BaseValue() != tt.wantBase {
				t.Errorf("MakeBasicRules(%q).BaseValue() = %v, want %v", tt.description, r.BaseValue(), tt.wantBase)
			}
			if r.radix != tt.wantRadix {
				t.Errorf("MakeBasicRules(%q) radix = %v, want %v", tt.description, r.radix, tt.wantRadix)
			}
			if r.divisor() != tt.wantDivisor {
				t.Errorf("MakeBasicRules(%q) divisor = %v, want %v", tt.description, r.divisor(), tt.wantDivisor)
			}
		}
	})

	t.Run("no descriptor", func(t *testing.T) {
		r := makeOne(t, "eleven", nil, nil)
		if r.BaseValue() != 0 || r.prefix != "eleven" {
			t.Errorf("rule without descriptor = base %v prefix %q, want base 0 prefix %q", r.BaseValue(), r.prefix, "eleven")
		}

		// A colon after non-numeric text belongs to the rule text.
		r = makeOne(t, "note: colon", nil, nil)
		if r.prefix != "note: colon" {
			t.Errorf("prefix = %q, want %q", r.prefix, "note: colon")
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]string{
			"letter in base value": "12a: x",
			"radix of one":         "100/1: x",
			"radix of zero":        "100/0: x",
			"junk after arrows":    "5>x: y",
		}
		for name, description := range tests {
			t.Run(name, func(t *testing.T) {
				owner := &RuleSet{name: "%test", parseable: true}
				if _, err := MakeBasicRules(description, owner, nil, testResolver{}, nil); err == nil {
					t.Errorf("MakeBasicRules(%q) did not fail", description)
				}
			})
		}
	})
}

func TestMakeBasicRules_Brackets(t *testing.T) {
	t.Run("rollback pair", func(t *testing.T) {
		owner := &RuleSet{name: "%test", parseable: true}
		rules, err := MakeBasicRules("100: << hundred[ >>]", owner, nil, testResolver{}, nil)
		if err != nil {
			t.Fatalf("MakeBasicRules failed: %v", err)
		}
		if len(rules) != 2 {
			t.Fatalf("made %v rules, want 2", len(rules))
		}
		without, with := rules[0].(*BasicRule), rules[1].(*BasicRule)
		if without.BaseValue() != 100 || with.BaseValue() != 101 {
			t.Errorf("pair base values = %v, %v, want 100, 101", without.BaseValue(), with.BaseValue())
		}
		if without.hasRemainderSub() {
			t.Errorf("rule without optional text has a remainder substitution")
		}
		if !with.hasRemainderSub() {
			t.Errorf("rule with optional text has no remainder substitution")
		}
		if !with.ShouldRollBack(200) {
			t.Errorf("ShouldRollBack(200) = false, want true")
		}
		if with.ShouldRollBack(250) {
			t.Errorf("ShouldRollBack(250) = true, want false")
		}
	})

	t.Run("pair divisor", func(t *testing.T) {
		owner := &RuleSet{name: "%test", parseable: true}
		rules, err := MakeBasicRules("20: twenty[->>]", owner, nil, testResolver{}, nil)
		if err != nil {
			t.Fatalf("MakeBasicRules failed: %v", err)
		}
		with := rules[1].(*BasicRule)
		if with.BaseValue() != 21 {
			t.Errorf("base value = %v, want 21", with.BaseValue())
		}
		// The divisor stays that of the written base value, 10, even though
		// the base value was bumped to 21.
		if with.divisor() != 10 {
			t.Errorf("divisor = %v, want 10", with.divisor())
		}
		if !with.ShouldRollBack(30) {
			t.Errorf("ShouldRollBack(30) = false, want true")
		}
	})

	t.Run("no pair outside even multiples", func(t *testing.T) {
		// 25 is not a multiple of its divisor 10, so the optional text is
		// kept and no second rule appears.
		owner := &RuleSet{name: "%test", parseable: true}
		rules, err := MakeBasicRules("25: quarter[ to >>]", owner, nil, testResolver{}, nil)
		if err != nil {
			t.Fatalf("MakeBasicRules failed: %v", err)
		}
		if len(rules) != 1 {
			t.Fatalf("made %v rules, want 1", len(rules))
		}
	})

	t.Run("no pair in special rules", func(t *testing.T) {
		owner := &RuleSet{name: "%test", parseable: true}
		rules, err := MakeBasicRules("x.x: <<[ and] >>", owner, nil, testResolver{}, nil)
		if err != nil {
			t.Fatalf("MakeBasicRules failed: %v", err)
		}
		if len(rules) != 1 {
			t.Fatalf("made %v rules, want 1", len(rules))
		}
		r := rules[0].(*BasicRule)
		if r.interstitial != " and " {
			t.Errorf("interstitial = %q, want %q", r.interstitial, " and ")
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]string{
			"closing first": "100: a]b[",
			"unclosed":      "100: a[b",
			"unopened":      "100: a]b",
			"two pairs":     "100: a[b]c[d]",
		}
		for name, description := range tests {
			t.Run(name, func(t *testing.T) {
				owner := &RuleSet{name: "%test", parseable: true}
				if _, err := MakeBasicRules(description, owner, nil, testResolver{}, nil); err == nil {
					t.Errorf("MakeBasicRules(%q) did not fail", description)
				}
			})
		}
	})
}

func TestMakeBasicRules_Substitutions(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		target := &RuleSet{name: "%cardinal", parseable: true}
		resolver := testResolver{"%cardinal": target}

		tests := []struct {
			description string
			wantSub1    substKind
			wantSub2    substKind
			wantTwo     bool
		}{
			{"100: << hundred >>", subQuotient, subRemainder, true},
			{"100: <%cardinal< hundred", subQuotient, 0, false},
			{"x.0: =%cardinal=", subSameValue, 0, false},
			{"-x: minus >>", subAbsoluteValue, 0, false},
			{"x.x: << point >>", subIntegralPart, subFractionalPart, true},
			{"0.x: point >>", subFractionalPart, 0, false},
		}
		for _, tt := range tests {
			r := makeOne(t, tt.description, nil, resolver)
			if r.sub1 == nil || r.sub1.kind != tt.wantSub1 {
				t.Errorf("MakeBasicRules(%q) sub1 = %+v, want kind %v", tt.description, r.sub1, tt.wantSub1)
			}
			if tt.wantTwo && (r.sub2 == nil || r.sub2.kind != tt.wantSub2) {
				t.Errorf("MakeBasicRules(%q) sub2 = %+v, want kind %v", tt.description, r.sub2, tt.wantSub2)
			}
			if !tt.wantTwo && r.sub2 != nil {
				t.Errorf("MakeBasicRules(%q) sub2 = %+v, want none", tt.description, r.sub2)
			}
		}
	})

	t.Run("numerator in fraction rule set", func(t *testing.T) {
		target := &RuleSet{name: "%cardinal", parseable: true}
		owner := &RuleSet{name: "%%frac", parseable: true, fractionSet: true}
		r := makeOne(t, "3: <%cardinal< thirds", owner, testResolver{"%cardinal": target})
		if r.sub1 == nil || r.sub1.kind != subNumerator {
			t.Errorf("sub1 = %+v, want a numerator substitution", r.sub1)
		}
	})

	t.Run("by digits", func(t *testing.T) {
		r := makeOne(t, "0.x: point >>", nil, nil)
		if r.sub1 == nil || !r.sub1.byDigits {
			t.Errorf("bare >> in a proper fraction rule is not by-digits")
		}
	})

	t.Run("marks fraction rule set", func(t *testing.T) {
		target := &RuleSet{name: "%%frac", parseable: true}
		makeOne(t, "x.x: << and >%%frac>", nil, testResolver{"%%frac": target})
		if !target.IsFractionSet() {
			t.Errorf("fractional part target was not marked as a fraction rule set")
		}
	})

	t.Run("remainder by preceding rule", func(t *testing.T) {
		owner := &RuleSet{name: "%test", parseable: true}
		pred := makeOne(t, "10: ten", owner, nil)
		rules, err := MakeBasicRules("13: >>>teen", owner, pred, testResolver{}, nil)
		if err != nil {
			t.Fatalf("MakeBasicRules failed: %v", err)
		}
		r := rules[0].(*BasicRule)
		if r.sub1 == nil || r.sub1.rule != Rule(pred) {
			t.Errorf("sub1 does not target the preceding rule")
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]string{
			"unterminated token":        "100: << hundred <",
			"quotient in negative rule": "-x: << minus",
			"bare same value":           "10: ==",
			"unknown rule set":          "10: =%nonesuch=",
			"name without percent":      "10: <cardinal<",
			"three substitutions":       "100: << x >> y <<",
			"predecessor required":      "13: >>>teen",
		}
		for name, description := range tests {
			t.Run(name, func(t *testing.T) {
				owner := &RuleSet{name: "%test", parseable: true}
				if _, err := MakeBasicRules(description, owner, nil, testResolver{}, nil); err == nil {
					t.Errorf("MakeBasicRules(%q) did not fail", description)
				}
			})
		}
	})

	t.Run("remainder in fraction rule set", func(t *testing.T) {
		owner := &RuleSet{name: "%%frac", parseable: true, fractionSet: true}
		if _, err := MakeBasicRules("3: >> thirds", owner, nil, testResolver{}, nil); err == nil {
			t.Errorf("MakeBasicRules did not fail")
		}
	})
}

func TestBasicRule_SetBaseValue(t *testing.T) {
	owner := &RuleSet{name: "%test", parseable: true}
	pred := makeOne(t, "20: twenty", owner, nil)
	rules, err := MakeBasicRules("twenty->>", owner, pred, testResolver{}, nil)
	if err != nil {
		t.Fatalf("MakeBasicRules failed: %v", err)
	}
	r := rules[0].(*BasicRule)
	if r.sub1.divisor != 1 {
		t.Fatalf("divisor before SetBaseValue = %v, want 1", r.sub1.divisor)
	}

	r.SetBaseValue(21)
	if r.BaseValue() != 21 {
		t.Errorf("BaseValue() = %v, want 21", r.BaseValue())
	}
	if r.divisor() != 10 {
		t.Errorf("divisor() = %v, want 10", r.divisor())
	}
	if r.sub1.divisor != 10 {
		t.Errorf("substitution divisor = %v, want 10", r.sub1.divisor)
	}
}

func TestBasicRule_String(t *testing.T) {
	target := &RuleSet{name: "%cardinal", parseable: true}
	resolver := testResolver{"%cardinal": target}

	tests := []struct {
		description string
		want        string
	}{
		{"0: zero", "0: zero;"},
		{"20: twenty", "20: twenty;"},
		{"100: << hundred >>", "100: << hundred >>;"},
		{"100/20: score", "100/20: score;"},
		{"1000>>: x", "1000>>: x;"},
		{"-x: minus >>", "-x: minus >>;"},
		{"x.x: << point >>", "x.x: << point >>;"},
		{"0.x: point >>", "0.x: point >>;"},
		{"x.0: =%cardinal=", "x.0: =%cardinal=;"},
		{"100: <%cardinal< hundred", "100: <%cardinal< hundred;"},
	}
	for _, tt := range tests {
		r := makeOne(t, tt.description, nil, resolver)
		if got := r.String(); got != tt.want {
			t.Errorf("MakeBasicRules(%q).String() = %q, want %q", tt.description, got, tt.want)
		}
	}
}

func TestBasicRule_Equal(t *testing.T) {
	a := makeOne(t, "100: << hundred >>", nil, nil)
	b := makeOne(t, "100: << hundred >>", nil, nil)
	if !a.Equal(b) {
		t.Errorf("Equal = false, want true")
	}
	if !a.Equal(a) {
		t.Errorf("Equal to itself = false, want true")
	}

	tests := []string{
		"101: << hundred >>",
		"100: << hundred",
		"100: << thousand >>",
		"100/20: << hundred >>",
	}
	for _, description := range tests {
		c := makeOne(t, description, nil, nil)
		if a.Equal(c) {
			t.Errorf("Equal(%q, %q) = true, want false", a, c)
		}
	}

	if a.Equal(&testRule{base: 100}) {
		t.Errorf("Equal across rule implementations = true, want false")
	}
}

func TestBasicRule_ParseLiteralFraction(t *testing.T) {
	owner := &RuleSet{name: "%%frac", parseable: true, fractionSet: true}
	r := makeOne(t, "2: one half", owner, nil)

	var pp ParsePosition
	v := r.Parse("one half", &pp, true, 0)
	if v.IsInt64() || v.Float64() != 0.5 {
		t.Errorf("Parse = %v, want 0.5", v)
	}
	if pp.Index != len("one half") {
		t.Errorf("consumed %v bytes, want %v", pp.Index, len("one half"))
	}

	pp = ParsePosition{}
	v = r.Parse("one half", &pp, false, 0)
	if !v.IsInt64() || v.Int64() != 2 {
		t.Errorf("Parse outside a fraction rule set = %v, want 2", v)
	}
}

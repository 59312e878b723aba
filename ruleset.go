package spellout

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strings"
	"unicode"
)

// recursionLimit bounds nested rule set format calls, guarding against
// cyclic or runaway mutual rule set references.
const recursionLimit = 50

var (
	errEmptyDescription = errors.New("empty rule set description")
	errMissingColon     = errors.New("rule set name doesn't end in colon")
	errRulesOutOfOrder  = errors.New("rules are not in order")
	errDuplicateSpecial = errors.New("duplicate special rule")
)

// RuleSet is a named, ordered collection of rules used to format and parse
// numbers. It selects an appropriate rule for a particular number and
// dispatches control to it, and arbitrates between rules when parsing.
//
// A RuleSet is constructed in two phases: [NewRuleSet] extracts the name
// from its description, and [RuleSet.ParseRules] builds the rule table.
// The split exists because any rule may reference any rule set by name,
// so all names must be known before any rule body is parsed.
// After construction a RuleSet is immutable and safe for concurrent use
// by multiple goroutines.
type RuleSet struct {
	name          string
	rules         []Rule  // regular rules, non-decreasing by base value
	negativeRule  Rule    // rule for negative numbers, optional
	fractionRules [3]Rule // 0: improper fraction (x.x), 1: proper fraction (0.x), 2: master (x.0)
	fractionSet   bool
	parseable     bool
}

// NewRuleSet allocates a rule set from descriptions[index], extracting its
// name. On return, the rule set's entry in descriptions has been stripped
// of the name and any following whitespace; the remaining body is consumed
// later by [RuleSet.ParseRules], once all names are known.
//
// A description optionally starts with "%name:". Without one, the name is
// "%default". A name ending in "@noparse" has the suffix stripped and marks
// the set non-parseable. A name starting with "%%" marks the set non-public.
//
// NewRuleSet returns an error if the description is empty or a "%"-prefixed
// description has no ":" terminator.
func NewRuleSet(descriptions []string, index int) (*RuleSet, error) {
	description := descriptions[index]
	if description == "" {
		return nil, errEmptyDescription
	}

	rs := &RuleSet{name: "%default", parseable: true}

	// The rule set name can be omitted in descriptions that consist of
	// only one rule set.
	if description[0] == '%' {
		pos := strings.IndexByte(description, ':')
		if pos == -1 {
			return nil, errMissingColon
		}
		rs.name = description[:pos]
		description = strings.TrimLeftFunc(description[pos+1:], unicode.IsSpace)
		descriptions[index] = description
	}

	if description == "" {
		return nil, errEmptyDescription
	}

	if strings.HasSuffix(rs.name, "@noparse") {
		rs.name = strings.TrimSuffix(rs.name, "@noparse")
		rs.parseable = false
	}

	// The rule table is built by ParseRules.
	return rs, nil
}

// ParseRules builds the rule table from the body text left in the
// description by [NewRuleSet]. Rules are separated by semicolons; there is
// no escape facility, so every semicolon is a delimiter. Each segment is
// handed to maker together with the previously created rule, supporting
// chained substitution syntax.
//
// After all segments are consumed, rules that did not specify a base value
// receive a default one (the preceding rule's base value plus one, or the
// preceding base value unchanged in a fraction rule set), and special rules
// are moved out of the table into their own slots.
//
// ParseRules returns an error if a rule's explicit base value is lower than
// the running default, or if a special rule kind occurs more than once.
func (rs *RuleSet) ParseRules(description string, maker RuleMaker) error {
	// A single description segment may expand into two rules, so the
	// working list can grow beyond the number of segments.
	var work []Rule
	var predecessor Rule

	for old := 0; old < len(description); {
		var segment string
		if p := strings.IndexByte(description[old:], ';'); p < 0 {
			segment, old = description[old:], len(description)
		} else {
			segment, old = description[old:old+p], old+p+1
		}
		var err error
		work, err = maker.MakeRules(segment, rs, predecessor, work)
		if err != nil {
			return fmt.Errorf("parsing rule set %s: %w", rs.name, err)
		}
		if len(work) > 0 {
			predecessor = work[len(work)-1]
		}
	}

	// Classify the working list in one forward pass: assign default base
	// values to rules that did not state one, move special rules into
	// their slots, and check that regular rules are in order.
	regular := make([]Rule, 0, len(work))
	defaultBase := int64(0)
	for _, r := range work {
		switch r.Kind() {
		case KindNegativeNumber:
			if rs.negativeRule != nil {
				return fmt.Errorf("parsing rule set %s: %w: negative number rule", rs.name, errDuplicateSpecial)
			}
			rs.negativeRule = r
		case KindImproperFraction:
			if rs.fractionRules[0] != nil {
				return fmt.Errorf("parsing rule set %s: %w: improper fraction rule", rs.name, errDuplicateSpecial)
			}
			rs.fractionRules[0] = r
		case KindProperFraction:
			if rs.fractionRules[1] != nil {
				return fmt.Errorf("parsing rule set %s: %w: proper fraction rule", rs.name, errDuplicateSpecial)
			}
			rs.fractionRules[1] = r
		case KindMaster:
			if rs.fractionRules[2] != nil {
				return fmt.Errorf("parsing rule set %s: %w: master rule", rs.name, errDuplicateSpecial)
			}
			rs.fractionRules[2] = r
		default:
			if r.BaseValue() == 0 {
				// The default is one plus the preceding rule's base
				// value, except in fraction rule sets, where base
				// values are denominators, not a dense sequence.
				r.SetBaseValue(defaultBase)
			} else if r.BaseValue() < defaultBase {
				return fmt.Errorf("parsing rule set %s: %w: base %v < %v",
					rs.name, errRulesOutOfOrder, r.BaseValue(), defaultBase)
			} else {
				defaultBase = r.BaseValue()
			}
			if !rs.fractionSet {
				defaultBase++
			}
			regular = append(regular, r)
		}
	}
	rs.rules = regular
	return nil
}

// MakeIntoFractionRuleSet flags the rule set as a fraction rule set:
// one invoked only to format values between 0 and 1 through a substitution
// in another rule's body, whose regular rules are matched by denominator
// rather than by base-value lookup. A rule set is not known to be a
// fraction rule set until it is seen used as one, so the transition happens
// after allocation; it must not happen once formatting has begun.
func (rs *RuleSet) MakeIntoFractionRuleSet() {
	rs.fractionSet = true
}

// IsFractionSet reports whether this is a fraction rule set.
func (rs *RuleSet) IsFractionSet() bool {
	return rs.fractionSet
}

// Name returns the rule set's name, including the "%" or "%%" prefix.
func (rs *RuleSet) Name() string {
	return rs.name
}

// IsPublic reports whether the rule set is visible outside its owner.
// Rule sets whose names start with "%%" are internal.
func (rs *RuleSet) IsPublic() bool {
	return !strings.HasPrefix(rs.name, "%%")
}

// IsParseable reports whether the rule set can be used for parsing.
func (rs *RuleSet) IsParseable() bool {
	return rs.parseable
}

// Equal reports whether two rule sets are functionally equivalent.
func (rs *RuleSet) Equal(other *RuleSet) bool {
	if other == nil {
		return false
	}
	if rs.name != other.name ||
		rs.fractionSet != other.fractionSet ||
		len(rs.rules) != len(other.rules) ||
		!ruleEqual(rs.negativeRule, other.negativeRule) {
		return false
	}
	for i := range rs.fractionRules {
		if !ruleEqual(rs.fractionRules[i], other.fractionRules[i]) {
			return false
		}
	}
	for i := range rs.rules {
		if !rs.rules[i].Equal(other.rules[i]) {
			return false
		}
	}
	return true
}

func ruleEqual(a, b Rule) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// String implements the [fmt.Stringer] interface and returns a textual
// representation of the rule set: the name, then each regular rule, then
// any special rules. The result is not necessarily the description the
// rule set was built from, but it produces the same behavior.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (rs *RuleSet) String() string {
	var sb strings.Builder
	sb.WriteString(rs.name)
	sb.WriteString(":\n")
	for _, r := range rs.rules {
		sb.WriteString("    ")
		sb.WriteString(r.String())
		sb.WriteString("\n")
	}
	if rs.negativeRule != nil {
		sb.WriteString("    ")
		sb.WriteString(rs.negativeRule.String())
		sb.WriteString("\n")
	}
	for _, fr := range rs.fractionRules {
		if fr != nil {
			sb.WriteString("    ")
			sb.WriteString(fr.String())
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// FormatInt64 renders an integer into buf at position pos, selecting one
// rule and delegating to it. Rendering may recursively reenter this or
// another rule set.
//
// FormatInt64 returns an error if:
//   - the rule set has no rule applicable to the number;
//   - the selected rule requires a rollback but no preceding rule exists;
//   - nested rule set references exceed the recursion limit.
func (rs *RuleSet) FormatInt64(number int64, buf *Buffer, pos int) error {
	return rs.formatInt64(number, buf, pos, 0)
}

// FormatFloat64 is like [RuleSet.FormatInt64] for non-integral or signed
// real input.
func (rs *RuleSet) FormatFloat64(number float64, buf *Buffer, pos int) error {
	return rs.formatFloat64(number, buf, pos, 0)
}

func (rs *RuleSet) formatInt64(number int64, buf *Buffer, pos, depth int) error {
	r, err := rs.findNormalRule(number)
	if err != nil {
		return err
	}
	if depth+1 >= recursionLimit {
		return fmt.Errorf("recursion limit exceeded when applying rule set %s", rs.name)
	}
	return r.FormatInt64(number, buf, pos, depth+1)
}

func (rs *RuleSet) formatFloat64(number float64, buf *Buffer, pos, depth int) error {
	r, err := rs.findRule(number)
	if err != nil {
		return err
	}
	if depth+1 >= recursionLimit {
		return fmt.Errorf("recursion limit exceeded when applying rule set %s", rs.name)
	}
	return r.FormatFloat64(number, buf, pos, depth+1)
}

// findRule selects the rule for formatting a real number.
func (rs *RuleSet) findRule(number float64) (Rule, error) {
	if rs.fractionSet {
		return rs.findFractionRuleSetRule(number)
	}

	// Without a negative number rule, a negative value is formatted as
	// if it were positive.
	if number < 0 {
		if rs.negativeRule != nil {
			return rs.negativeRule, nil
		}
		number = -number
	}

	if number != math.Floor(number) {
		if number < 1 && rs.fractionRules[1] != nil {
			return rs.fractionRules[1], nil
		}
		if rs.fractionRules[0] != nil {
			return rs.fractionRules[0], nil
		}
	}

	if rs.fractionRules[2] != nil {
		return rs.fractionRules[2], nil
	}
	return rs.findNormalRule(int64(math.Round(number)))
}

// findNormalRule selects the rule for formatting an integer: generally the
// rule with the greatest base value less than or equal to the number.
//
// There is one exception. A rule with optional text is represented as two
// adjacent rules, and when the located rule reports that the number is an
// even multiple of its divisor while its own base value is not, the
// preceding rule is the one that applies (this avoids output like
// "two hundred zero"). That correction is the rollback rule.
func (rs *RuleSet) findNormalRule(number int64) (Rule, error) {
	// A fraction rule set reaches this point only for the value 0.
	if rs.fractionSet {
		return rs.findFractionRuleSetRule(float64(number))
	}

	if number < 0 {
		if rs.negativeRule != nil {
			return rs.negativeRule, nil
		}
		number = -number
	}

	// A rule covers all values from its base value up to the next
	// rule's base value.
	lo, hi := 0, len(rs.rules)
	if hi == 0 {
		if rs.fractionRules[2] != nil {
			return rs.fractionRules[2], nil
		}
		return nil, fmt.Errorf("rule set %s cannot format the value %v", rs.name, number)
	}
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		bv := rs.rules[mid].BaseValue()
		switch {
		case bv == number:
			return rs.rules[mid], nil
		case bv > number:
			hi = mid
		default:
			lo = mid + 1
		}
	}
	if hi == 0 {
		return nil, fmt.Errorf("rule set %s cannot format the value %v", rs.name, number)
	}
	result := rs.rules[hi-1]
	if result.ShouldRollBack(number) {
		if hi == 1 {
			return nil, fmt.Errorf("rule set %s cannot roll back from the rule %q", rs.name, result)
		}
		result = rs.rules[hi-2]
	}
	return result, nil
}

// findFractionRuleSetRule selects the rule for formatting a value between
// 0 and 1 in a fraction rule set. Each rule's base value is treated as a
// candidate denominator; the denominator producing the fraction closest to
// the number wins, earliest rule on a tie.
//
// The obvious approach, multiplying the value by each base value until the
// result is integral, falls to rounding error. Instead the value is scaled
// once by the least common multiple of all base values, after which the
// search runs entirely in integer arithmetic.
func (rs *RuleSet) findFractionRuleSetRule(number float64) (Rule, error) {
	if len(rs.rules) == 0 {
		return nil, fmt.Errorf("rule set %s cannot format the value %v", rs.name, number)
	}

	leastCommonMultiple := rs.rules[0].BaseValue()
	for _, r := range rs.rules[1:] {
		leastCommonMultiple = lcm(leastCommonMultiple, r.BaseValue())
	}
	numerator := int64(math.Round(number * float64(leastCommonMultiple)))

	difference := int64(math.MaxInt64)
	winner := 0
	for i, r := range rs.rules {
		// The numerator over this rule's denominator is
		// numerator * base / lcm; the remainder measures how far that
		// is from an integer. Normalize to the distance from the
		// closest multiple of the lcm.
		d := mulMod(numerator, r.BaseValue(), leastCommonMultiple)
		if leastCommonMultiple-d < d {
			d = leastCommonMultiple - d
		}
		if d < difference {
			difference = d
			winner = i
			if difference == 0 {
				break
			}
		}
	}

	// Two successive rules with the winning base value encode a
	// singular/plural distinction ("one third" / "two thirds"): the first
	// applies only when the numerator is exactly 1.
	if winner+1 < len(rs.rules) &&
		rs.rules[winner+1].BaseValue() == rs.rules[winner].BaseValue() {
		n := math.Round(number * float64(rs.rules[winner].BaseValue()))
		if n < 1 || n >= 2 {
			winner++
		}
	}

	return rs.rules[winner], nil
}

// lcm returns the least common multiple of x and y, using the binary gcd
// algorithm from Knuth, "The Art of Computer Programming", vol. 2.
func lcm(x, y int64) int64 {
	x1, y1 := x, y

	p2 := 0
	for x1&1 == 0 && y1&1 == 0 {
		p2++
		x1 >>= 1
		y1 >>= 1
	}

	var t int64
	if x1&1 == 1 {
		t = -y1
	} else {
		t = x1
	}

	for t != 0 {
		for t&1 == 0 {
			t >>= 1
		}
		if t > 0 {
			x1 = t
		} else {
			y1 = -t
		}
		t = x1 - y1
	}
	gcd := x1 << p2

	// x * y == gcd(x, y) * lcm(x, y)
	return x / gcd * y
}

// mulMod returns a * b mod m without overflow, widening the product to
// 128 bits. a and b must be non-negative and m positive.
func mulMod(a, b, m int64) int64 {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi == 0 {
		return int64(lo % uint64(m))
	}
	_, rem := bits.Div64(hi%uint64(m), lo, uint64(m))
	return int64(rem)
}

// Parse matches text against each of the rule set's rules and returns the
// value produced by the rule that consumed the most characters, advancing
// pp past the consumed text. Only rules with base values strictly below
// upperBound are tried, except in a fraction rule set, which ignores the
// bound.
//
// Parse never fails: if nothing matched, it returns the integer 0 and
// leaves pp unmoved, which callers must read as "this rule set found
// nothing", not as a successful parse of zero.
func (rs *RuleSet) Parse(text string, pp *ParsePosition, upperBound float64) Value {
	highWaterMark := 0
	result := IntValue(0)

	if text == "" {
		return result
	}

	if rs.negativeRule != nil {
		tempResult := rs.negativeRule.Parse(text, pp, false, upperBound)
		if pp.Index > highWaterMark {
			result = tempResult
			highWaterMark = pp.Index
		}
		pp.Index = 0
	}

	for _, fr := range rs.fractionRules {
		if fr == nil {
			continue
		}
		tempResult := fr.Parse(text, pp, false, upperBound)
		if pp.Index > highWaterMark {
			result = tempResult
			highWaterMark = pp.Index
		}
		pp.Index = 0
	}

	// Try the most significant rules first, so that
	// "five thousand three hundred six" parses as
	// "(five thousand) (three hundred) (six)" rather than
	// "((five thousand three) hundred) (six)".
	for i := len(rs.rules) - 1; i >= 0 && highWaterMark < len(text); i-- {
		if !rs.fractionSet && float64(rs.rules[i].BaseValue()) >= upperBound {
			continue
		}
		tempResult := rs.rules[i].Parse(text, pp, rs.fractionSet, upperBound)
		if pp.Index > highWaterMark {
			result = tempResult
			highWaterMark = pp.Index
		}
		pp.Index = 0
	}

	pp.Index = highWaterMark
	return result
}

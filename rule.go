package spellout

import "fmt"

// RuleKind identifies the role a rule plays within its rule set.
// The zero value is [KindNormal], a regular rule keyed on a base value.
type RuleKind uint8

const (
	// KindNormal is a regular rule selected by base value.
	KindNormal RuleKind = iota
	// KindNegativeNumber is the rule applied to negative values.
	KindNegativeNumber
	// KindImproperFraction is the rule applied to non-integral values
	// greater than or equal to 1 (the "x.x" rule).
	KindImproperFraction
	// KindProperFraction is the rule applied to values strictly between
	// 0 and 1 (the "0.x" rule).
	KindProperFraction
	// KindMaster is the rule applied to a value's whole part when no
	// fraction rule matched (the "x.0" rule).
	KindMaster
)

// String implements the [fmt.Stringer] interface and returns
// a string representation of the RuleKind value.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (k RuleKind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindNegativeNumber:
		return "negative"
	case KindImproperFraction:
		return "improper fraction"
	case KindProperFraction:
		return "proper fraction"
	case KindMaster:
		return "master"
	default:
		return fmt.Sprintf("RuleKind(%d)", uint8(k))
	}
}

// Rule is a single formatting/parsing rule owned by a [RuleSet].
// The rule set selects rules and dispatches control to them; everything
// about a rule's body (literal text, substitutions, nested rule set
// invocations) is the rule's own business.
//
// [BasicRule] is the implementation provided by this package.
type Rule interface {
	fmt.Stringer

	// Kind reports the role of the rule within its rule set.
	Kind() RuleKind

	// BaseValue returns the rule's numeric selector.
	// For rules in a fraction rule set, the base value is reinterpreted
	// as a candidate denominator.
	BaseValue() int64

	// SetBaseValue assigns the selector of a rule whose description
	// left it unset. It is called once, during rule set construction.
	SetBaseValue(v int64)

	// ShouldRollBack reports whether the base-value search that located
	// this rule must back up to the preceding rule for the given number.
	ShouldRollBack(number int64) bool

	// FormatInt64 renders an integer into buf at position pos.
	// depth is the number of rule set format calls already on the stack;
	// implementations pass it through to any nested rule set invocation.
	FormatInt64(number int64, buf *Buffer, pos, depth int) error

	// FormatFloat64 renders a non-integral or signed value into buf at
	// position pos, threading depth as in FormatInt64.
	FormatFloat64(number float64, buf *Buffer, pos, depth int) error

	// Parse attempts to match a prefix of text against this rule.
	// On a match it advances pp past the consumed text and returns the
	// recognized value; otherwise it leaves pp at zero and returns
	// [IntValue](0). fractionSet reports whether the enclosing rule set
	// is a fraction rule set; upperBound limits the values nested
	// substitutions may recognize.
	Parse(text string, pp *ParsePosition, fractionSet bool, upperBound float64) Value

	// Equal reports whether two rules are functionally equivalent.
	Equal(other Rule) bool
}

// RuleMaker turns one semicolon-delimited rule description into one or more
// rules, appending them to rules and returning the extended slice.
// A single description may expand into two rules (optional bracketed text).
// predecessor is the rule created immediately before this description,
// or nil for the first one; it supports chained substitution syntax.
type RuleMaker interface {
	MakeRules(description string, owner *RuleSet, predecessor Rule, rules []Rule) ([]Rule, error)
}

// RuleSetResolver resolves a rule set name to the rule set it denotes.
// It is implemented by [System]; rule factories use it to resolve the
// cross-rule-set references in substitution tokens.
type RuleSetResolver interface {
	FindRuleSet(name string) (*RuleSet, error)
}

// ParsePosition is a caller-owned cursor into the text being parsed.
// Index is the number of bytes consumed so far.
type ParsePosition struct {
	Index int
}

// Buffer is an insertable byte buffer that formatting renders into.
// Rule bodies insert their text at arbitrary positions, since a rule's
// literal text is emitted around text produced by nested rules.
// The zero value is an empty buffer ready for use.
type Buffer struct {
	b []byte
}

// Insert inserts s into the buffer at byte position pos.
// It panics if pos is out of range.
func (b *Buffer) Insert(pos int, s string) {
	if pos < 0 || pos > len(b.b) {
		panic(fmt.Sprintf("Buffer.Insert(%v, %q): position out of range [0, %v]", pos, s, len(b.b)))
	}
	b.b = append(b.b, s...)
	copy(b.b[pos+len(s):], b.b[pos:])
	copy(b.b[pos:], s)
}

// WriteString appends s to the end of the buffer.
func (b *Buffer) WriteString(s string) {
	b.b = append(b.b, s...)
}

// Len returns the number of bytes in the buffer.
func (b *Buffer) Len() int {
	return len(b.b)
}

// String implements the [fmt.Stringer] interface and returns the
// accumulated text.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (b *Buffer) String() string {
	return string(b.b)
}

package spellout

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"
)

var (
	errNoSuchRuleSet   = errors.New("no such rule set")
	errDuplicateName   = errors.New("duplicate rule set name")
	errSetNotParseable = errors.New("rule set is not parseable")
)

// System is a group of cooperating rule sets built from one description.
// Rule sets within a description are separated at each ";" followed by a
// "%"-prefixed name.
//
// Construction is two-phase: every rule set is allocated first, so that all
// names exist, and only then does each rule set parse its own body. This is
// what lets any rule reference any rule set, including ones defined later
// in the description.
//
// A System is immutable after construction and safe for concurrent use by
// multiple goroutines.
type System struct {
	ruleSets []*RuleSet
	byName   map[string]*RuleSet
	def      *RuleSet
}

// New builds a system from a description.
//
// New returns an error if the description is empty, a rule set name is
// duplicated, or any rule set fails to construct.
func New(description string) (*System, error) {
	descriptions := splitDescription(description)
	if len(descriptions) == 0 {
		return nil, errEmptyDescription
	}

	sys := &System{byName: make(map[string]*RuleSet, len(descriptions))}
	for i := range descriptions {
		rs, err := NewRuleSet(descriptions, i)
		if err != nil {
			return nil, fmt.Errorf("parsing rule descriptions: %w", err)
		}
		if _, ok := sys.byName[rs.Name()]; ok {
			return nil, fmt.Errorf("parsing rule descriptions: %w: %s", errDuplicateName, rs.Name())
		}
		sys.ruleSets = append(sys.ruleSets, rs)
		sys.byName[rs.Name()] = rs
	}
	for i, rs := range sys.ruleSets {
		if err := rs.ParseRules(descriptions[i], sys); err != nil {
			return nil, err
		}
	}

	// The last public rule set is the default; a description consisting
	// only of internal rule sets falls back to its last one.
	for i := len(sys.ruleSets) - 1; i >= 0; i-- {
		if sys.ruleSets[i].IsPublic() {
			sys.def = sys.ruleSets[i]
			break
		}
	}
	if sys.def == nil {
		sys.def = sys.ruleSets[len(sys.ruleSets)-1]
	}
	return sys, nil
}

// MustNew is like [New] but panics if the description cannot be parsed.
// It simplifies safe initialization of global variables holding systems.
func MustNew(description string) *System {
	sys, err := New(description)
	if err != nil {
		panic(fmt.Sprintf("New(%q) failed: %v", description, err))
	}
	return sys
}

// splitDescription splits a description into one entry per rule set, at
// each semicolon followed (ignoring whitespace) by a "%".
func splitDescription(description string) []string {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(description); i++ {
		if description[i] != ';' {
			continue
		}
		j := i + 1
		for j < len(description) && unicode.IsSpace(rune(description[j])) {
			j++
		}
		if j < len(description) && description[j] == '%' {
			out = append(out, strings.TrimSpace(description[start:i+1]))
			start = j
			i = j - 1
		}
	}
	return append(out, strings.TrimSpace(description[start:]))
}

// MakeRules implements the [RuleMaker] interface using [MakeBasicRules],
// with the system itself resolving rule set references.
func (s *System) MakeRules(description string, owner *RuleSet, predecessor Rule, rules []Rule) ([]Rule, error) {
	return MakeBasicRules(description, owner, predecessor, s, rules)
}

// FindRuleSet returns the rule set with the given name, including its
// "%" or "%%" prefix.
//
// FindRuleSet returns an error if no rule set has that name.
func (s *System) FindRuleSet(name string) (*RuleSet, error) {
	rs, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errNoSuchRuleSet, name)
	}
	return rs, nil
}

// DefaultRuleSet returns the rule set used when none is named: the last
// public one in the description.
func (s *System) DefaultRuleSet() *RuleSet {
	return s.def
}

// RuleSetNames returns the names of the public rule sets, in description
// order.
func (s *System) RuleSetNames() []string {
	names := make([]string, 0, len(s.ruleSets))
	for _, rs := range s.ruleSets {
		if rs.IsPublic() {
			names = append(names, rs.Name())
		}
	}
	return names
}

// FormatInt64 renders an integer using the default rule set.
func (s *System) FormatInt64(number int64) (string, error) {
	var buf Buffer
	if err := s.def.FormatInt64(number, &buf, 0); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatFloat64 renders a real number using the default rule set.
func (s *System) FormatFloat64(number float64) (string, error) {
	var buf Buffer
	if err := s.def.FormatFloat64(number, &buf, 0); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatWith renders an integer using the named rule set.
func (s *System) FormatWith(name string, number int64) (string, error) {
	rs, err := s.FindRuleSet(name)
	if err != nil {
		return "", err
	}
	var buf Buffer
	if err := rs.FormatInt64(number, &buf, 0); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Parse matches text against every public, parseable rule set and returns
// the value from the one that consumed the most characters, together with
// the number of bytes consumed. A consumed count of zero means no rule set
// recognized any of the text.
func (s *System) Parse(text string) (Value, int) {
	result := IntValue(0)
	best := 0
	for i := len(s.ruleSets) - 1; i >= 0; i-- {
		rs := s.ruleSets[i]
		if !rs.IsPublic() || !rs.IsParseable() {
			continue
		}
		var pp ParsePosition
		v := rs.Parse(text, &pp, float64(math.MaxInt64))
		if pp.Index > best {
			result = v
			best = pp.Index
		}
	}
	return result, best
}

// ParseWith matches text against the named rule set only.
//
// ParseWith returns an error if the rule set does not exist or is marked
// non-parseable; an unrecognized text is not an error and yields zero
// consumed bytes.
func (s *System) ParseWith(name, text string) (Value, int, error) {
	rs, err := s.FindRuleSet(name)
	if err != nil {
		return IntValue(0), 0, err
	}
	if !rs.IsParseable() {
		return IntValue(0), 0, fmt.Errorf("%w: %s", errSetNotParseable, name)
	}
	var pp ParsePosition
	v := rs.Parse(text, &pp, float64(math.MaxInt64))
	return v, pp.Index, nil
}

// String implements the [fmt.Stringer] interface and returns a textual
// dump of every rule set in the system.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (s *System) String() string {
	var sb strings.Builder
	for _, rs := range s.ruleSets {
		sb.WriteString(rs.String())
	}
	return sb.String()
}

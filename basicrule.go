package spellout

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	errBadDescriptor   = errors.New("illegal character in rule descriptor")
	errBadBrackets     = errors.New("mismatched brackets in rule text")
	errBadSubstitution = errors.New("malformed substitution token")
)

// BasicRule is the rule implementation provided by this package.
// It covers the common rule grammar: an optional descriptor selecting the
// base value and kind, followed by rule text consisting of literal text and
// up to two substitutions.
//
// Supported descriptors:
//
//	bv:       a regular rule with base value bv
//	bv/rad:   a regular rule with base value bv and radix rad
//	-x:       the negative number rule
//	x.x:      the improper fraction rule
//	0.x:      the proper fraction rule
//	x.0:      the master rule
//
// Trailing ">" characters in a descriptor lower the rule's divisor by one
// power of the radix each. A rule with no descriptor takes its base value
// from the preceding rule during rule set construction.
//
// Supported substitution tokens: "<<", "<%name<", ">>", ">%name>", ">>>"
// (remainder by the preceding rule), and "=%name=". Text enclosed in
// brackets is optional and expands the description into an adjacent rule
// pair; the rollback correction selects between the two at format time.
type BasicRule struct {
	kind      RuleKind
	baseValue int64
	radix     int64
	exponent  int

	// Rule text split around the substitutions. sub1 renders between
	// prefix and interstitial, sub2 between interstitial and suffix.
	// A rule with one substitution keeps the trailing text in suffix;
	// a rule with none keeps everything in prefix.
	prefix       string
	interstitial string
	suffix       string
	sub1         *substitution
	sub2         *substitution
}

// MakeBasicRules parses one semicolon-delimited rule description into one
// or two [BasicRule] values and appends them to rules. It implements the
// factory side of [RuleMaker]; resolver supplies the rule sets that
// substitution tokens may reference by name.
//
// A description containing bracketed optional text expands into two rules:
// one without the optional text, selected for even multiples of the rule's
// divisor via rollback, and one with it, for everything else.
func MakeBasicRules(description string, owner *RuleSet, predecessor Rule, resolver RuleSetResolver, rules []Rule) ([]Rule, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return rules, nil
	}

	r := &BasicRule{radix: 10}
	body, err := r.parseDescriptor(description)
	if err != nil {
		return nil, err
	}

	open := strings.IndexByte(body, '[')
	closing := strings.IndexByte(body, ']')
	if open == -1 && closing == -1 {
		if err := r.parseRuleText(body, owner, predecessor, resolver); err != nil {
			return nil, err
		}
		return append(rules, r), nil
	}
	if open == -1 || closing < open || strings.ContainsAny(body[closing+1:], "[]") {
		return nil, fmt.Errorf("%w: %q", errBadBrackets, body)
	}

	without := body[:open] + body[closing+1:]
	with := body[:open] + body[open+1:closing] + body[closing+1:]

	// Only a regular rule whose base value is an even multiple of its
	// divisor expands into the rollback pair. Anywhere else the optional
	// text is simply kept.
	if r.kind != KindNormal || r.baseValue <= 0 || r.baseValue%r.divisor() != 0 {
		if err := r.parseRuleText(with, owner, predecessor, resolver); err != nil {
			return nil, err
		}
		return append(rules, r), nil
	}

	r2 := &BasicRule{kind: r.kind, baseValue: r.baseValue, radix: r.radix, exponent: r.exponent}
	if err := r2.parseRuleText(without, owner, predecessor, resolver); err != nil {
		return nil, err
	}
	if !owner.IsFractionSet() {
		r.baseValue++
	}
	if err := r.parseRuleText(with, owner, predecessor, resolver); err != nil {
		return nil, err
	}
	return append(rules, r2, r), nil
}

// parseDescriptor consumes the descriptor from description, if one is
// present, and returns the remaining rule text.
func (r *BasicRule) parseDescriptor(description string) (string, error) {
	p := strings.IndexByte(description, ':')
	if p == -1 {
		return description, nil
	}
	descriptor := strings.TrimSpace(description[:p])
	body := strings.TrimLeft(description[p+1:], " ")

	switch descriptor {
	case "":
		return description, nil
	case "-x":
		r.kind = KindNegativeNumber
		return body, nil
	case "x.x":
		r.kind = KindImproperFraction
		return body, nil
	case "0.x":
		r.kind = KindProperFraction
		return body, nil
	case "x.0":
		r.kind = KindMaster
		return body, nil
	}

	if descriptor[0] < '0' || descriptor[0] > '9' {
		// Not a descriptor at all; the colon belongs to the rule text.
		return description, nil
	}

	i := 0
	for ; i < len(descriptor); i++ {
		c := descriptor[i]
		switch {
		case c >= '0' && c <= '9':
			r.baseValue = r.baseValue*10 + int64(c-'0')
		case c == ',' || c == ' ':
			// separators in the base value are ignored
		default:
			goto radix
		}
	}
radix:
	if i < len(descriptor) && descriptor[i] == '/' {
		i++
		r.radix = 0
		for ; i < len(descriptor); i++ {
			c := descriptor[i]
			if c < '0' || c > '9' {
				break
			}
			r.radix = r.radix*10 + int64(c-'0')
		}
		if r.radix < 2 {
			return "", fmt.Errorf("%w: radix in %q", errBadDescriptor, descriptor)
		}
	}
	r.exponent = expectedExponent(r.baseValue, r.radix)
	for ; i < len(descriptor); i++ {
		if descriptor[i] != '>' {
			return "", fmt.Errorf("%w: %q", errBadDescriptor, descriptor)
		}
		if r.exponent > 0 {
			r.exponent--
		}
	}
	return body, nil
}

// expectedExponent returns the highest exponent e with radix**e <= baseValue.
func expectedExponent(baseValue, radix int64) int {
	if radix == 0 || baseValue < 1 {
		return 0
	}
	e := 0
	for v := baseValue; v >= radix; v /= radix {
		e++
	}
	return e
}

// divisor returns radix raised to the rule's exponent.
func (r *BasicRule) divisor() int64 {
	d := int64(1)
	for i := 0; i < r.exponent; i++ {
		d *= r.radix
	}
	return d
}

// parseRuleText splits the rule text into literal pieces and substitutions.
func (r *BasicRule) parseRuleText(body string, owner *RuleSet, predecessor Rule, resolver RuleSetResolver) error {
	lit, sub, rest, err := extractSubstitution(body, r, owner, predecessor, resolver)
	if err != nil {
		return err
	}
	r.prefix = lit
	if sub == nil {
		return nil
	}
	r.sub1 = sub

	lit, sub, rest, err = extractSubstitution(rest, r, owner, predecessor, resolver)
	if err != nil {
		return err
	}
	if sub == nil {
		r.suffix = lit
		return nil
	}
	r.interstitial = lit
	r.sub2 = sub
	if strings.ContainsAny(rest, "<>=") {
		return fmt.Errorf("%w: more than two substitutions in %q", errBadSubstitution, body)
	}
	r.suffix = rest
	return nil
}

// extractSubstitution scans text for the first substitution token and
// returns the literal text before it, the substitution (nil if none), and
// the text after it.
func extractSubstitution(text string, r *BasicRule, owner *RuleSet, predecessor Rule, resolver RuleSetResolver) (string, *substitution, string, error) {
	i := strings.IndexAny(text, "<>=")
	if i == -1 {
		return text, nil, "", nil
	}
	lit := text[:i]
	tok := text[i]

	if tok == '>' && strings.HasPrefix(text[i:], ">>>") {
		if predecessor == nil {
			return "", nil, "", fmt.Errorf("%w: >>> requires a preceding rule", errBadSubstitution)
		}
		sub, err := makeSubstitution('>', "", r, owner, predecessor, resolver)
		if err != nil {
			return "", nil, "", err
		}
		sub.rule = predecessor
		return lit, sub, text[i+3:], nil
	}

	j := strings.IndexByte(text[i+1:], tok)
	if j == -1 {
		return "", nil, "", fmt.Errorf("%w: unterminated %q in %q", errBadSubstitution, string(tok), text)
	}
	inner := text[i+1 : i+1+j]
	sub, err := makeSubstitution(tok, inner, r, owner, predecessor, resolver)
	if err != nil {
		return "", nil, "", err
	}
	return lit, sub, text[i+2+j:], nil
}

type substKind uint8

const (
	subQuotient substKind = iota
	subRemainder
	subIntegralPart
	subFractionalPart
	subAbsoluteValue
	subNumerator
	subSameValue
)

// substitution is one "<<", ">>" or "==" token inside a rule's text:
// a transformation of the number being formatted or parsed, rendered
// through another rule set (or, for ">>>", through the preceding rule).
type substitution struct {
	kind        substKind
	ruleSet     *RuleSet // target; the rule's own set for bare tokens
	ruleSetName string   // "" for bare tokens
	rule        Rule     // target rule for ">>>", instead of a rule set
	byDigits    bool     // fractional part spelled digit by digit
	divisor     int64    // for quotient and remainder
	denominator int64    // for numerator: the rule's base value
}

// makeSubstitution builds the substitution for one token, choosing its
// behavior from the token character and the kind of rule it appears in.
func makeSubstitution(tok byte, inner string, r *BasicRule, owner *RuleSet, predecessor Rule, resolver RuleSetResolver) (*substitution, error) {
	s := &substitution{ruleSet: owner, divisor: r.divisor(), denominator: r.baseValue}
	if inner != "" {
		if !strings.HasPrefix(inner, "%") {
			return nil, fmt.Errorf("%w: %q", errBadSubstitution, inner)
		}
		target, err := resolver.FindRuleSet(inner)
		if err != nil {
			return nil, err
		}
		s.ruleSet = target
		s.ruleSetName = inner
	}

	switch tok {
	case '<':
		switch {
		case r.kind == KindNegativeNumber:
			return nil, fmt.Errorf("%w: << not allowed in negative number rule", errBadSubstitution)
		case r.kind == KindImproperFraction || r.kind == KindProperFraction || r.kind == KindMaster:
			s.kind = subIntegralPart
		case owner.IsFractionSet():
			s.kind = subNumerator
		default:
			s.kind = subQuotient
		}
	case '>':
		switch {
		case r.kind == KindNegativeNumber:
			s.kind = subAbsoluteValue
		case r.kind == KindImproperFraction || r.kind == KindProperFraction || r.kind == KindMaster:
			s.kind = subFractionalPart
			if inner == "" {
				s.byDigits = true
			} else {
				// A fractional part delegated to another rule set makes
				// that set a fraction rule set. This is the only place
				// a set is discovered to be one.
				s.ruleSet.MakeIntoFractionRuleSet()
			}
		case owner.IsFractionSet():
			return nil, fmt.Errorf("%w: >> not allowed in fraction rule set", errBadSubstitution)
		default:
			s.kind = subRemainder
		}
	case '=':
		if inner == "" {
			return nil, fmt.Errorf("%w: == requires a rule set name", errBadSubstitution)
		}
		s.kind = subSameValue
	}
	return s, nil
}

// token returns the textual form of the substitution.
func (s *substitution) token() string {
	var open, close byte
	switch s.kind {
	case subQuotient, subIntegralPart, subNumerator:
		open, close = '<', '<'
	case subSameValue:
		open, close = '=', '='
	default:
		open, close = '>', '>'
	}
	if s.rule != nil {
		return ">>>"
	}
	return string(open) + s.ruleSetName + string(close)
}

func (s *substitution) equal(other *substitution) bool {
	if s == nil || other == nil {
		return s == nil && other == nil
	}
	return s.kind == other.kind &&
		s.ruleSetName == other.ruleSetName &&
		s.byDigits == other.byDigits &&
		s.divisor == other.divisor &&
		s.denominator == other.denominator
}

// Kind reports the role of the rule within its rule set.
func (r *BasicRule) Kind() RuleKind {
	return r.kind
}

// BaseValue returns the rule's numeric selector.
func (r *BasicRule) BaseValue() int64 {
	return r.baseValue
}

// SetBaseValue assigns the selector of a rule whose descriptor left it
// unset, recomputing the divisor-dependent state.
func (r *BasicRule) SetBaseValue(v int64) {
	r.baseValue = v
	r.exponent = expectedExponent(v, r.radix)
	d := r.divisor()
	for _, s := range []*substitution{r.sub1, r.sub2} {
		if s != nil {
			s.divisor = d
			s.denominator = v
		}
	}
}

// ShouldRollBack reports whether the base-value search must back up to the
// preceding rule: true when this rule has a remainder substitution, the
// number is an even multiple of the rule's divisor, and the rule's own base
// value is not.
func (r *BasicRule) ShouldRollBack(number int64) bool {
	if !r.hasRemainderSub() {
		return false
	}
	d := r.divisor()
	return number%d == 0 && r.baseValue%d != 0
}

func (r *BasicRule) hasRemainderSub() bool {
	for _, s := range []*substitution{r.sub1, r.sub2} {
		if s != nil && s.kind == subRemainder {
			return true
		}
	}
	return false
}

// Equal reports whether two rules are functionally equivalent.
func (r *BasicRule) Equal(other Rule) bool {
	o, ok := other.(*BasicRule)
	if !ok {
		return false
	}
	return r.kind == o.kind &&
		r.baseValue == o.baseValue &&
		r.radix == o.radix &&
		r.exponent == o.exponent &&
		r.prefix == o.prefix &&
		r.interstitial == o.interstitial &&
		r.suffix == o.suffix &&
		r.sub1.equal(o.sub1) &&
		r.sub2.equal(o.sub2)
}

// String implements the [fmt.Stringer] interface and returns a description
// of the rule. The result reproduces the rule's behavior, not necessarily
// the exact text it was built from.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (r *BasicRule) String() string {
	var sb strings.Builder
	switch r.kind {
	case KindNegativeNumber:
		sb.WriteString("-x: ")
	case KindImproperFraction:
		sb.WriteString("x.x: ")
	case KindProperFraction:
		sb.WriteString("0.x: ")
	case KindMaster:
		sb.WriteString("x.0: ")
	default:
		sb.WriteString(strconv.FormatInt(r.baseValue, 10))
		if r.radix != 10 {
			sb.WriteString("/")
			sb.WriteString(strconv.FormatInt(r.radix, 10))
		}
		for i := expectedExponent(r.baseValue, r.radix); i > r.exponent; i-- {
			sb.WriteString(">")
		}
		sb.WriteString(": ")
	}
	sb.WriteString(r.prefix)
	if r.sub1 != nil {
		sb.WriteString(r.sub1.token())
	}
	sb.WriteString(r.interstitial)
	if r.sub2 != nil {
		sb.WriteString(r.sub2.token())
	}
	sb.WriteString(r.suffix)
	sb.WriteString(";")
	return sb.String()
}

//-----------------------------------------------------------------------
// formatting
//-----------------------------------------------------------------------

// FormatInt64 renders an integer by inserting the rule's literal text into
// buf at pos and then performing the substitutions, back to front so that
// earlier insertions do not shift later offsets.
func (r *BasicRule) FormatInt64(number int64, buf *Buffer, pos, depth int) error {
	buf.Insert(pos, r.prefix+r.interstitial+r.suffix)
	if r.sub2 != nil {
		if err := r.sub2.substituteInt(number, buf, pos+len(r.prefix)+len(r.interstitial), depth); err != nil {
			return err
		}
	}
	if r.sub1 != nil {
		return r.sub1.substituteInt(number, buf, pos+len(r.prefix), depth)
	}
	return nil
}

// FormatFloat64 is like [BasicRule.FormatInt64] for real input.
func (r *BasicRule) FormatFloat64(number float64, buf *Buffer, pos, depth int) error {
	buf.Insert(pos, r.prefix+r.interstitial+r.suffix)
	if r.sub2 != nil {
		if err := r.sub2.substituteFloat(number, buf, pos+len(r.prefix)+len(r.interstitial), depth); err != nil {
			return err
		}
	}
	if r.sub1 != nil {
		return r.sub1.substituteFloat(number, buf, pos+len(r.prefix), depth)
	}
	return nil
}

func (s *substitution) substituteInt(number int64, buf *Buffer, pos, depth int) error {
	switch s.kind {
	case subQuotient:
		return s.ruleSet.formatInt64(number/s.divisor, buf, pos, depth)
	case subRemainder:
		if s.rule != nil {
			return s.rule.FormatInt64(number%s.divisor, buf, pos, depth)
		}
		return s.ruleSet.formatInt64(number%s.divisor, buf, pos, depth)
	case subIntegralPart, subSameValue:
		return s.ruleSet.formatInt64(number, buf, pos, depth)
	case subAbsoluteValue:
		return s.ruleSet.formatInt64(-number, buf, pos, depth)
	case subNumerator:
		return s.ruleSet.formatInt64(number*s.denominator, buf, pos, depth)
	case subFractionalPart:
		// an integer has no fractional part to render
		return nil
	default:
		return fmt.Errorf("unknown substitution kind %v", s.kind)
	}
}

func (s *substitution) substituteFloat(number float64, buf *Buffer, pos, depth int) error {
	switch s.kind {
	case subQuotient:
		return s.ruleSet.formatInt64(int64(math.Floor(number/float64(s.divisor))), buf, pos, depth)
	case subRemainder:
		n := int64(math.Floor(number)) % s.divisor
		if s.rule != nil {
			return s.rule.FormatInt64(n, buf, pos, depth)
		}
		return s.ruleSet.formatInt64(n, buf, pos, depth)
	case subIntegralPart:
		return s.ruleSet.formatInt64(int64(math.Floor(number)), buf, pos, depth)
	case subAbsoluteValue:
		number = -number
		if number == math.Floor(number) {
			return s.ruleSet.formatInt64(int64(number), buf, pos, depth)
		}
		return s.ruleSet.formatFloat64(number, buf, pos, depth)
	case subSameValue:
		if number == math.Floor(number) {
			return s.ruleSet.formatInt64(int64(number), buf, pos, depth)
		}
		return s.ruleSet.formatFloat64(number, buf, pos, depth)
	case subNumerator:
		return s.ruleSet.formatInt64(int64(math.Round(number*float64(s.denominator))), buf, pos, depth)
	case subFractionalPart:
		frac := number - math.Floor(number)
		if s.byDigits {
			return s.formatByDigits(frac, buf, pos, depth)
		}
		return s.ruleSet.formatFloat64(frac, buf, pos, depth)
	default:
		return fmt.Errorf("unknown substitution kind %v", s.kind)
	}
}

// formatByDigits spells a fractional part one digit at a time,
// space separated: 0.25 becomes "two five".
func (s *substitution) formatByDigits(frac float64, buf *Buffer, pos, depth int) error {
	text := strconv.FormatFloat(frac, 'f', -1, 64)
	if i := strings.IndexByte(text, '.'); i == -1 {
		text = ""
	} else {
		text = text[i+1:]
	}
	var tmp Buffer
	for i := 0; i < len(text); i++ {
		if i > 0 {
			tmp.WriteString(" ")
		}
		if err := s.ruleSet.formatInt64(int64(text[i]-'0'), &tmp, tmp.Len(), depth); err != nil {
			return err
		}
	}
	buf.Insert(pos, tmp.String())
	return nil
}

//-----------------------------------------------------------------------
// parsing
//-----------------------------------------------------------------------

// Parse attempts to match a prefix of text against this rule: the literal
// pieces must match exactly, and each substitution delegates to its target
// rule set for the span between them. The first substitution must consume
// text; the second may match nothing, which is how the rule pair produced
// by optional bracketed text parses both long and short forms.
func (r *BasicRule) Parse(text string, pp *ParsePosition, fractionSet bool, upperBound float64) Value {
	if !strings.HasPrefix(text, r.prefix) {
		return IntValue(0)
	}
	pos := len(r.prefix)
	val := IntValue(r.baseValue)

	if r.sub1 == nil {
		if fractionSet && r.baseValue != 0 {
			// in a fraction rule set a literal rule stands for 1/base
			pp.Index = pos
			return FloatValue(1 / float64(r.baseValue))
		}
		pp.Index = pos
		return val
	}

	delim := r.suffix
	if r.sub2 != nil {
		delim = r.interstitial
	}
	sub1Val, n, ok := r.sub1.parseDelimited(text[pos:], delim, upperBound, false)
	if !ok {
		return IntValue(0)
	}
	val = r.sub1.compose(val, sub1Val)
	pos += n

	if r.sub2 != nil {
		sub2Val, n, ok := r.sub2.parseDelimited(text[pos:], r.suffix, upperBound, true)
		if !ok {
			return IntValue(0)
		}
		val = r.sub2.compose(val, sub2Val)
		pos += n
	}

	pp.Index = pos
	return val
}

// parseDelimited parses one substitution followed by its delimiting literal
// text. With a delimiter, the substitution must consume exactly the span up
// to some occurrence of the delimiter; without one, it consumes as much as
// it can. allowEmpty permits a zero-length match.
func (s *substitution) parseDelimited(text, delim string, upperBound float64, allowEmpty bool) (Value, int, bool) {
	bound := s.parseUpperBound(upperBound)
	if delim == "" {
		v, n := s.parseValue(text, bound)
		if n == 0 && !allowEmpty {
			return IntValue(0), 0, false
		}
		return v, n, true
	}
	for start := 0; ; {
		i := strings.Index(text[start:], delim)
		if i == -1 {
			return IntValue(0), 0, false
		}
		span := text[:start+i]
		if span == "" {
			if allowEmpty {
				return IntValue(0), len(delim), true
			}
		} else if v, n := s.parseValue(span, bound); n == len(span) {
			return v, len(span) + len(delim), true
		}
		start += i + 1
		if start > len(text) {
			return IntValue(0), 0, false
		}
	}
}

// parseValue parses the substitution's value from the beginning of text,
// returning the value and the number of bytes consumed.
func (s *substitution) parseValue(text string, upperBound float64) (Value, int) {
	if s.byDigits {
		return s.parseByDigits(text)
	}
	var pp ParsePosition
	if s.rule != nil {
		v := s.rule.Parse(text, &pp, false, upperBound)
		return v, pp.Index
	}
	v := s.ruleSet.Parse(text, &pp, upperBound)
	return v, pp.Index
}

// parseByDigits parses space-separated spelled-out digits back into a
// fractional value: "two five" becomes 0.25.
func (s *substitution) parseByDigits(text string) (Value, int) {
	frac := 0.0
	scale := 0.1
	consumed := 0
	for pos := 0; pos < len(text); {
		rest := text[pos:]
		if pos > 0 {
			if rest[0] != ' ' {
				break
			}
			rest = rest[1:]
		}
		var pp ParsePosition
		v := s.ruleSet.Parse(rest, &pp, 10)
		if pp.Index == 0 || !v.IsInt64() || v.Int64() < 0 || v.Int64() > 9 {
			break
		}
		frac += float64(v.Int64()) * scale
		scale /= 10
		if pos > 0 {
			pos++
		}
		pos += pp.Index
		consumed = pos
	}
	if consumed == 0 {
		return IntValue(0), 0
	}
	return FloatValue(frac), consumed
}

// parseUpperBound returns the bound passed to the substitution's nested
// parse, limiting which rules it may match.
func (s *substitution) parseUpperBound(upperBound float64) float64 {
	switch s.kind {
	case subQuotient, subRemainder:
		return float64(s.divisor)
	case subNumerator:
		return float64(s.denominator)
	case subSameValue:
		return upperBound
	case subFractionalPart:
		return 0
	default:
		return float64(math.MaxInt64)
	}
}

// compose folds the value recognized by the substitution into the value
// accumulated for the rule so far.
func (s *substitution) compose(old, new Value) Value {
	switch s.kind {
	case subQuotient:
		if new.IsInt64() {
			return IntValue(new.Int64() * s.divisor)
		}
		return FloatValue(new.Float64() * float64(s.divisor))
	case subRemainder:
		if old.IsInt64() && new.IsInt64() {
			o := old.Int64()
			return IntValue(o - o%s.divisor + new.Int64())
		}
		o := old.Float64()
		return FloatValue(o - math.Mod(o, float64(s.divisor)) + new.Float64())
	case subIntegralPart, subFractionalPart:
		if old.IsInt64() && new.IsInt64() {
			return IntValue(old.Int64() + new.Int64())
		}
		return FloatValue(old.Float64() + new.Float64())
	case subAbsoluteValue:
		if new.IsInt64() {
			return IntValue(-new.Int64())
		}
		return FloatValue(-new.Float64())
	case subNumerator:
		return FloatValue(new.Float64() / float64(s.denominator))
	default: // subSameValue
		return new
	}
}

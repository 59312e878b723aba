/*
Package spellout implements rule-based formatting of numbers into spelled-out
text and parsing of such text back into numeric values.

# Representation

The package consists of three main types: System, RuleSet, and Rule.
A System is a group of cooperating rule sets built from one textual
description; a RuleSet is a named, ordered collection of rules sharing one
purpose (cardinals, ordinals, fractions); a Rule renders or recognizes the
numbers it is keyed on, possibly by invoking another rule set. BasicRule is
the rule implementation provided by the package, covering literal text,
quotient and remainder substitutions, optional bracketed text, and fraction
handling.

# Descriptions

A description lists rule sets, each optionally introduced by "%name:" and
holding semicolon-separated rules:

	%cardinal:
	    zero; one; two; three; four; five; six; seven; eight; nine;
	    ten; eleven; twelve; thirteen; fourteen; fifteen; sixteen;
	    seventeen; eighteen; nineteen;
	    20: twenty[->>];
	    100: << hundred[ >>];

A rule's descriptor states the base value it is keyed on; rules without one
continue the preceding rule's sequence. Special descriptors select the
negative number rule (-x:), the fraction rules (x.x:, 0.x:), and the master
rule (x.0:). Rule set names beginning with "%%" are internal; a name ending
in "@noparse" excludes the set from parsing.

# Formatting

A rule set selects exactly one rule per number: by binary search over base
values for integers, by special rules for signed and fractional input, and
by a closest-denominator search for fraction rule sets. Rendering may
recursively reenter other rule sets; a recursion limit guards against
cyclic descriptions.

# Parsing

Parsing tries every candidate rule and keeps the interpretation consuming
the longest prefix of the input. It never fails: unrecognized text yields a
zero value and zero consumed bytes.

# Errors

Errors occur while building a system from a malformed description and when
formatting a value no rule covers. All operations return errors explicitly;
[MustNew] panics instead, which simplifies initialization of package-level
variables holding systems.
*/
package spellout

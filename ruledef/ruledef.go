// Package ruledef loads rule definition documents: YAML files naming a set
// of spellout rule sets and the rules in each. It is the file format the
// spellout command reads; the engine itself only consumes assembled
// description text.
package ruledef

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/govalues/spellout"
)

var (
	errNoRuleSets = errors.New("definition contains no rule sets")
	errBadName    = errors.New("rule set name must start with %")
)

// Definition is one rule definition document.
type Definition struct {
	// Name identifies the definition, e.g. "en" or "en-ordinals".
	Name string `yaml:"name"`
	// Description is free-form documentation, not consumed by the engine.
	Description string `yaml:"description"`
	// RuleSets lists the rule sets in order. Order matters: a rule set
	// must be defined after any rule set that references it as a
	// fraction rule set, and the last public one becomes the default.
	RuleSets []RuleSet `yaml:"rule_sets"`
}

// RuleSet is one named rule set within a definition.
type RuleSet struct {
	// Name is the rule set name including its "%" or "%%" prefix.
	Name string `yaml:"name"`
	// Rules holds one rule description per entry, without the
	// terminating semicolon.
	Rules []string `yaml:"rules"`
}

// Load reads and parses a rule definition file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule definition: %w", err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing rule definition %s: %w", path, err)
	}
	return def, nil
}

// Parse parses a rule definition document from YAML bytes.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, err
	}
	if len(def.RuleSets) == 0 {
		return nil, errNoRuleSets
	}
	for _, rs := range def.RuleSets {
		if !strings.HasPrefix(rs.Name, "%") {
			return nil, fmt.Errorf("%w: %q", errBadName, rs.Name)
		}
	}
	return &def, nil
}

// DescriptionText assembles the definition into the single description
// string the engine consumes.
func (d *Definition) DescriptionText() string {
	parts := make([]string, 0, len(d.RuleSets))
	for _, rs := range d.RuleSets {
		var sb strings.Builder
		sb.WriteString(rs.Name)
		sb.WriteString(":\n")
		for _, rule := range rs.Rules {
			sb.WriteString("    ")
			sb.WriteString(rule)
			sb.WriteString(";\n")
		}
		parts = append(parts, strings.TrimSuffix(sb.String(), "\n"))
	}
	return strings.Join(parts, "\n")
}

// Build constructs the spellout system the definition describes.
func (d *Definition) Build() (*spellout.System, error) {
	sys, err := spellout.New(d.DescriptionText())
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", d.Name, err)
	}
	return sys, nil
}

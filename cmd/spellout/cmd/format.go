package cmd

import (
	"fmt"

	"github.com/govalues/decimal"
	"github.com/spf13/cobra"

	"github.com/govalues/spellout"
)

var formatCmd = &cobra.Command{
	Use:   "format <number>",
	Short: "Spell out a number",
	Args:  cobra.ExactArgs(1),
	RunE:  runFormat,
}

func runFormat(cmd *cobra.Command, args []string) error {
	sys, err := buildSystem()
	if err != nil {
		return err
	}
	rs, err := pickRuleSet(sys)
	if err != nil {
		return err
	}

	d, err := decimal.Parse(args[0])
	if err != nil {
		return fmt.Errorf("parsing number %q: %w", args[0], err)
	}

	var buf spellout.Buffer
	if d.IsInt() {
		whole, _, ok := d.Int64(0)
		if !ok {
			return fmt.Errorf("number %v does not fit in an int64", d)
		}
		err = rs.FormatInt64(whole, &buf, 0)
	} else {
		f, ok := d.Float64()
		if !ok {
			return fmt.Errorf("number %v cannot be represented as a float64", d)
		}
		err = rs.FormatFloat64(f, &buf, 0)
	}
	if err != nil {
		log.Errorw("formatting failed", "number", args[0], "ruleset", rs.Name(), "error", err)
		return err
	}

	fmt.Println(buf.String())
	return nil
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/govalues/spellout"
)

var parseCmd = &cobra.Command{
	Use:   "parse <text>...",
	Short: "Parse spelled-out text back into a number",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	sys, err := buildSystem()
	if err != nil {
		return err
	}
	text := strings.Join(args, " ")

	var v spellout.Value
	var consumed int
	if ruleSetName == "" {
		v, consumed = sys.Parse(text)
	} else {
		v, consumed, err = sys.ParseWith(ruleSetName, text)
		if err != nil {
			return err
		}
	}
	if consumed == 0 {
		return fmt.Errorf("no rules matched %q", text)
	}
	if consumed < len(text) {
		log.Warnw("trailing text not matched", "text", text[consumed:])
	}

	fmt.Println(v)
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "List the public rule sets",
	Args:  cobra.NoArgs,
	RunE:  runSets,
}

func runSets(cmd *cobra.Command, args []string) error {
	sys, err := buildSystem()
	if err != nil {
		return err
	}
	def := sys.DefaultRuleSet().Name()
	for _, name := range sys.RuleSetNames() {
		if name == def {
			fmt.Printf("%s (default)\n", name)
		} else {
			fmt.Println(name)
		}
	}
	return nil
}

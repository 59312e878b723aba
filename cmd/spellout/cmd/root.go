package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/govalues/spellout"
	"github.com/govalues/spellout/ruledef"
)

var (
	zapLogger, _ = zap.NewProduction()
	log          = zapLogger.Sugar()

	rulesPath   string
	ruleSetName string
)

var rootCmd = &cobra.Command{
	Use:   "spellout",
	Short: "spellout — rule-based number spelling",
	Long:  "Format numbers as spelled-out text and parse spelled-out text back into numbers.",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "",
		"path to a YAML rule definition file (default: built-in English rules)")
	rootCmd.PersistentFlags().StringVar(&ruleSetName, "ruleset", "",
		"rule set to use, e.g. %ordinal (default: the definition's default rule set)")
	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(setsCmd)
	rootCmd.AddCommand(dumpCmd)
}

// buildSystem builds the rule system selected by --rules.
func buildSystem() (*spellout.System, error) {
	if rulesPath == "" {
		return spellout.New(englishRules)
	}
	def, err := ruledef.Load(rulesPath)
	if err != nil {
		log.Errorw("loading rule definition", "path", rulesPath, "error", err)
		return nil, err
	}
	return def.Build()
}

// pickRuleSet resolves the --ruleset flag against sys.
func pickRuleSet(sys *spellout.System) (*spellout.RuleSet, error) {
	if ruleSetName == "" {
		return sys.DefaultRuleSet(), nil
	}
	return sys.FindRuleSet(ruleSetName)
}

// spellout formats numbers as spelled-out text and parses spelled-out
// text back into numbers, driven by rule definition files.
package main

import (
	"os"

	"github.com/govalues/spellout/cmd/spellout/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Command calc is the persistent command-line calculator.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/cloudycalc/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, "calc:", msg)
		}
		os.Exit(cli.GetExitCode(err))
	}
}

// Command broytari interprets diachronic sound-change scripts.
package main

import (
	"fmt"
	"os"

	"github.com/LFalch/broytari/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}

// Command uppmon builds UPPAAL monitor documents from CUE and HCL
// definitions.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/uppmon/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}

// Command cyphergen builds Cypher queries from YAML and CUE recipes.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/cyphergen/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}
	// ExitErrors have already been reported by the command.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}

// prox finds pairs of terms that occur within a bounded distance of each other.
// Single binary: search files or stdin, watch files, print the effective config.
package main

import (
	"fmt"
	"os"

	"github.com/corey/prox/cmd/prox/cmd"
)

func main() {
	err := cmd.Execute()
	code := cmd.ExitCode(err)
	if code == cmd.ExitError {
		fmt.Fprintf(os.Stderr, "prox: %v\n", err)
	}
	os.Exit(code)
}

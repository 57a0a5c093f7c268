// Command funlit runs, tests and scaffolds funlit components.
package main

import (
	"os"

	"github.com/go-drift/funlit/cmd/funlit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

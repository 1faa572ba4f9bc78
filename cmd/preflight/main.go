// main is the entry point for the preflight CLI.
package main

import (
	"fmt"
	"os"

	"github.com/preflighthq/preflight/cmd"
	"github.com/preflighthq/preflight/internal/iostore"
)

func main() {
	err := cmd.Execute()
	iostore.CloseStores()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

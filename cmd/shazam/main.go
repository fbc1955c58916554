// Shazam - natural language to shell commands
package main

import (
	"fmt"
	"os"

	"github.com/soroush/shazam/internal/ui"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.Error("✗"), err)
		os.Exit(1)
	}
}

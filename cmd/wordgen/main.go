// Command wordgen generates invented words from pattern grammars.
package main

import (
	"os"

	"github.com/leapstack-labs/wordgen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

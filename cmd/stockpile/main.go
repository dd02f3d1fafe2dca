package main

import (
	"os"

	"github.com/stockpile-labs/stockpile-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

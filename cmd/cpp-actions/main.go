package main

import (
	"os"

	"github.com/alandefreitas/cpp-actions-tools/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}

package main

import (
	"os"

	"github.com/chatops-cli/chatops/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

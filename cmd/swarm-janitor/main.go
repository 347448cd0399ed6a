package main

import (
	"os"

	"github.com/LvcidPsyche/swarm-janitor/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

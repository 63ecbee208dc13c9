package main

import (
	"os"

	"tmapmcp/cmd/tmapctl/cmd"
)

func main() {
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

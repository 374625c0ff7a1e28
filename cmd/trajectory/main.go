package main

import (
	"os"

	"github.com/trajectory-dev/trajectory/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

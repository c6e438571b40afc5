package main

import (
	"os"

	"github.com/lachiem1/tallyUp/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

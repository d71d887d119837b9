package main

import (
	"os"

	"seedbreed/cmd/seedctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

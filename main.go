package main

import (
	"os"

	"github.com/KirkDiggler/aura/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

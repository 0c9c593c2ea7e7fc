package main

import (
	"os"

	"github.com/okian/pactum/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

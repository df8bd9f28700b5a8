package main

import (
	"os"

	"github.com/futureCreator/stackup/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

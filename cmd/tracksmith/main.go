package main

import (
	"os"

	"github.com/tracksmith-io/tracksmith/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/pdrpinto/metro/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

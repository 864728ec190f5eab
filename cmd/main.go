package main

import (
	"os"

	"wizkid-challenge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/cglprep/blitz/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

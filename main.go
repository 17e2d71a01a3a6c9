package main

import (
	"os"

	"github.com/minho/lingua/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

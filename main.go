package main

import (
	"os"

	"github.com/anilanar/Nancy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

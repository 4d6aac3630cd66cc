package main

import (
	"os"

	"fxbt/cmd/fxbt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/zoomrx/agastya/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/penwyp/qbreakdown-plot/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

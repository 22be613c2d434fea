// Command slopecalc runs a slope stability analysis from the command line.
package main

import (
	"errors"
	"fmt"
	"os"

	"Slope/internal/calc/slope"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, slope.ErrNoSurface) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// Command mapgen writes a generated arena in the map file format.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/amalg/bomb-arena/internal/level"
)

func main() {
	def := level.DefaultOptions()
	width := flag.Int("width", def.Width, "Board width (odd number)")
	height := flag.Int("height", def.Height, "Board height (odd number)")
	density := flag.Float64("density", def.BarrelDensity, "Barrel density, 0.0 to 1.0")
	seed := flag.Int64("seed", 0, "Random seed (0: time based)")
	out := flag.String("out", "", "Output file (default: stdout)")
	flag.Parse()

	// Ensure odd dimensions for proper wall grid
	if *width%2 == 0 {
		*width++
	}
	if *height%2 == 0 {
		*height++
	}
	if *density < 0 || *density > 1 {
		fmt.Fprintf(os.Stderr, "density must be between 0 and 1, got %v\n", *density)
		os.Exit(2)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	rows, err := level.Generate(level.Options{
		Width:         *width,
		Height:        *height,
		BarrelDensity: *density,
	}, rand.New(rand.NewSource(*seed)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *out == "" {
		err = level.Write(os.Stdout, rows)
	} else {
		err = level.WriteFile(*out, rows)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

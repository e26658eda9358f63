// Package level reads, writes and generates flat tile-grid map files.
//
// A map file holds one row per line, each row a whitespace-separated list
// of integer tile codes. Blank lines are ignored.
package level

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/amalg/bomb-arena/internal/game"
)

// Read parses a map and validates it as a board. Errors about the content
// are *game.MalformedMapError.
func Read(r io.Reader) ([][]int, error) {
	var rows [][]int
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		row := make([]int, len(fields))
		for col, f := range fields {
			code, err := strconv.Atoi(f)
			if err != nil {
				return nil, &game.MalformedMapError{
					Row:    len(rows),
					Col:    col,
					Reason: fmt.Sprintf("invalid tile code %q", f),
				}
			}
			row[col] = code
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read map: %w", err)
	}
	if _, err := game.LoadBoard(rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadFile reads a map from path.
func ReadFile(path string) ([][]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map: %w", err)
	}
	defer f.Close()

	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Write serializes rows in map file format.
func Write(w io.Writer, rows [][]int) error {
	bw := bufio.NewWriter(w)
	for _, row := range rows {
		for i, code := range row {
			if i > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.Itoa(code))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteFile writes rows to path, replacing any existing file.
func WriteFile(path string, rows [][]int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create map: %w", err)
	}
	if err := Write(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("write map: %w", err)
	}
	return f.Close()
}

// Options control map generation.
type Options struct {
	Width         int
	Height        int
	BarrelDensity float64 // 0.0 to 1.0
}

// DefaultOptions returns a classic 15x13 layout.
func DefaultOptions() Options {
	return Options{Width: 15, Height: 13, BarrelDensity: 0.4}
}

// Generate builds a classic arena.
//
// Layout rules:
//   - Border is all Wall
//   - Wall at every position where both X and Y are even
//   - Random Barrel fill at the given density
//   - A Spawnpoint in each corner; the spawn and its neighbours stay clear
func Generate(opts Options, rng *rand.Rand) ([][]int, error) {
	if opts.Width < 5 || opts.Height < 5 {
		return nil, fmt.Errorf("generate map: %dx%d is smaller than 5x5", opts.Width, opts.Height)
	}
	rows := make([][]int, opts.Height)
	for y := range rows {
		rows[y] = make([]int, opts.Width)
		for x := range rows[y] {
			switch {
			case x == 0 || y == 0 || x == opts.Width-1 || y == opts.Height-1:
				// Border walls
				rows[y][x] = int(game.Wall)
			case x%2 == 0 && y%2 == 0:
				// Interior pillar pattern
				rows[y][x] = int(game.Wall)
			default:
				rows[y][x] = int(game.Air)
			}
		}
	}

	spawns := cornerSpawns(opts.Width, opts.Height)
	safe := makeSafeSet(spawns)

	for y := 1; y < opts.Height-1; y++ {
		for x := 1; x < opts.Width-1; x++ {
			if rows[y][x] != int(game.Air) || safe[game.Position{X: x, Y: y}] {
				continue
			}
			if rng.Float64() < opts.BarrelDensity {
				rows[y][x] = int(game.Barrel)
			}
		}
	}
	for _, sp := range spawns {
		rows[sp.Y][sp.X] = int(game.Spawnpoint)
	}
	return rows, nil
}

// cornerSpawns returns the four inner corners.
func cornerSpawns(width, height int) []game.Position {
	return []game.Position{
		{X: 1, Y: 1},                  // Top-left
		{X: width - 2, Y: 1},          // Top-right
		{X: 1, Y: height - 2},         // Bottom-left
		{X: width - 2, Y: height - 2}, // Bottom-right
	}
}

// makeSafeSet returns the spawns and their orthogonal neighbours.
func makeSafeSet(spawns []game.Position) map[game.Position]bool {
	safe := make(map[game.Position]bool)
	for _, sp := range spawns {
		safe[sp] = true
		for _, d := range game.Directions {
			safe[sp.Add(d.Delta(), 1)] = true
		}
	}
	return safe
}

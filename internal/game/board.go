package game

import "fmt"

// Board owns the tile grid of a match. It is indexed [y][x].
type Board struct {
	tiles  [][]Tile
	width  int
	height int
}

// LoadBoard builds a board from a rectangular matrix of tile codes.
// It returns a *MalformedMapError for an empty matrix, ragged rows or
// unknown tile codes. The input is copied.
func LoadBoard(rows [][]int) (*Board, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, &MalformedMapError{Row: -1, Col: -1, Reason: "empty grid"}
	}
	width := len(rows[0])
	tiles := make([][]Tile, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, &MalformedMapError{
				Row:    y,
				Col:    -1,
				Reason: fmt.Sprintf("expected %d columns, got %d", width, len(row)),
			}
		}
		tiles[y] = make([]Tile, width)
		for x, code := range row {
			t := Tile(code)
			if !t.Valid() {
				return nil, &MalformedMapError{
					Row:    y,
					Col:    x,
					Reason: fmt.Sprintf("unknown tile code %d", code),
				}
			}
			tiles[y][x] = t
		}
	}
	return &Board{tiles: tiles, width: width, height: len(rows)}, nil
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Height returns the number of rows.
func (b *Board) Height() int { return b.height }

// InBounds reports whether (x, y) lies on the grid.
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

// TileAt returns the tile at (x, y). It panics with *OutOfBoundsError
// when the coordinate is off the grid.
func (b *Board) TileAt(x, y int) Tile {
	b.mustContain(x, y)
	return b.tiles[y][x]
}

// SetTile replaces the tile at (x, y). It panics with *OutOfBoundsError
// when the coordinate is off the grid.
func (b *Board) SetTile(x, y int, t Tile) {
	b.mustContain(x, y)
	b.tiles[y][x] = t
}

func (b *Board) mustContain(x, y int) {
	if !b.InBounds(x, y) {
		panic(&OutOfBoundsError{X: x, Y: y, Width: b.width, Height: b.height})
	}
}

// ExtractSpawnpoints turns every Spawnpoint tile into Air and returns their
// positions in row-major order.
func (b *Board) ExtractSpawnpoints() []Position {
	var spawns []Position
	for y := range b.tiles {
		for x, t := range b.tiles[y] {
			if t == Spawnpoint {
				b.tiles[y][x] = Air
				spawns = append(spawns, Position{X: x, Y: y})
			}
		}
	}
	return spawns
}

// Count returns how many cells hold t.
func (b *Board) Count(t Tile) int {
	n := 0
	for _, row := range b.tiles {
		for _, c := range row {
			if c == t {
				n++
			}
		}
	}
	return n
}

// Rows returns a deep copy of the grid.
func (b *Board) Rows() [][]Tile {
	out := make([][]Tile, b.height)
	for y := range out {
		out[y] = make([]Tile, b.width)
		copy(out[y], b.tiles[y])
	}
	return out
}

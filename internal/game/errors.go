package game

import (
	"errors"
	"fmt"
)

var (
	// ErrNotEnoughSpawnpoints is returned when a map cannot seat the roster.
	ErrNotEnoughSpawnpoints = errors.New("not enough spawnpoints")
	// ErrInvalidRoster is returned for fewer than two players or negative counts.
	ErrInvalidRoster = errors.New("invalid roster")
	// ErrUnknownPlayer is returned for input addressed to a player not in the match.
	ErrUnknownPlayer = errors.New("unknown player")
)

// MalformedMapError reports a tile grid that cannot be loaded.
// Row and Col are zero-based; Col is -1 when the whole row is at fault.
type MalformedMapError struct {
	Row    int
	Col    int
	Reason string
}

func (e *MalformedMapError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("malformed map: %s", e.Reason)
	}
	if e.Col < 0 {
		return fmt.Sprintf("malformed map: row %d: %s", e.Row+1, e.Reason)
	}
	return fmt.Sprintf("malformed map: row %d, col %d: %s", e.Row+1, e.Col+1, e.Reason)
}

// OutOfBoundsError is the panic value raised by Board accessors when a
// coordinate lies outside the grid. Callers are expected to check InBounds.
type OutOfBoundsError struct {
	X, Y          int
	Width, Height int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("tile (%d,%d) out of bounds %dx%d", e.X, e.Y, e.Width, e.Height)
}

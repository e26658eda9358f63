package game

import (
	"math/rand"
	"testing"
)

// openArena is a 7x7 walled room with spawnpoints in opposite corners.
func openArena() [][]int {
	return [][]int{
		{1, 1, 1, 1, 1, 1, 1},
		{1, 3, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 3, 1},
		{1, 1, 1, 1, 1, 1, 1},
	}
}

func newTestMatch(t *testing.T, rows [][]int, humans, bots int) *Match {
	t.Helper()
	m := NewMatch(DefaultConfig(), WithRand(rand.New(rand.NewSource(1))))
	if err := m.Initialize(humans, bots, rows); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	m.drainEvents()
	return m
}

// place moves a player to the center of a cell.
func place(m *Match, id PlayerID, x, y int) *Player {
	p := m.players[id]
	p.X, p.Y = m.centerOf(Position{X: x, Y: y})
	return p
}

// ticks advances the match n times and returns all emitted events.
func ticks(m *Match, n int) []Event {
	var out []Event
	for i := 0; i < n; i++ {
		out = append(out, m.Tick()...)
	}
	return out
}

func countKind(events []Event, kind EventKind) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// fuseTicks is the number of ticks after which a default bomb has exploded.
func fuseTicks(cfg GameConfig) int {
	n := int(cfg.Defaults.Fuse / cfg.TickStep)
	if cfg.Defaults.Fuse%cfg.TickStep != 0 {
		n++
	}
	return n
}

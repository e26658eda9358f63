package game

import (
	"math"
	"testing"
)

func TestMoveStraight(t *testing.T) {
	m := newTestMatch(t, openArena(), 2, 0)
	p := place(m, 0, 1, 1)
	place(m, 1, 5, 5)

	m.SetPlayerMoving(0, DirRight, true)
	events := m.Tick()

	if p.X != 50 || p.Y != 48 {
		t.Fatalf("after one tick right: expected (50,48), got (%.2f,%.2f)", p.X, p.Y)
	}
	if countKind(events, EventPlayerMoved) != 1 {
		t.Errorf("expected one player-moved event, got %d", countKind(events, EventPlayerMoved))
	}
	if p.Anim != AnimWalking || p.Facing != DirRight {
		t.Errorf("expected walking right, got %s %s", p.Anim, p.Facing)
	}
}

func TestMoveBlockedByWall(t *testing.T) {
	m := newTestMatch(t, openArena(), 2, 0)
	p := place(m, 0, 1, 1)
	place(m, 1, 5, 5)

	m.SetPlayerMoving(0, DirLeft, true)
	ticks(m, 30)

	// The center may reach the edge of the wall tile but never enter it.
	if p.X != 32 {
		t.Errorf("expected to stop at x=32, got %.2f", p.X)
	}
	if got := m.tileOf(p); got != (Position{X: 1, Y: 1}) {
		t.Errorf("player should stay on (1,1), got %v", got)
	}
}

func TestMoveBlockedByBarrel(t *testing.T) {
	rows := openArena()
	rows[1][2] = int(Barrel)
	m := newTestMatch(t, rows, 2, 0)
	p := place(m, 0, 1, 1)
	place(m, 1, 5, 5)

	m.SetPlayerMoving(0, DirRight, true)
	ticks(m, 30)

	if got := m.tileOf(p); got.X != 1 {
		t.Errorf("barrel should block movement, player on %v", got)
	}
}

func TestDiagonalSlidesAlongWall(t *testing.T) {
	m := newTestMatch(t, openArena(), 2, 0)
	p := place(m, 0, 1, 1)
	place(m, 1, 5, 5)

	// Up is the border wall, right is open: the player keeps sliding right.
	m.SetPlayerMoving(0, DirUp, true)
	m.SetPlayerMoving(0, DirRight, true)
	ticks(m, 20)

	if p.X < 48+20 {
		t.Errorf("expected to slide right along the wall, x=%.2f", p.X)
	}
	if p.Y < 32 || p.Y >= 48 {
		t.Errorf("expected y between 32 and 48, got %.2f", p.Y)
	}
	if m.tileOf(p).Y != 1 {
		t.Errorf("player should stay on row 1, got %v", m.tileOf(p))
	}
}

func TestDiagonalSpeedIsNormalized(t *testing.T) {
	m := newTestMatch(t, openArena(), 2, 0)
	p := place(m, 0, 3, 3)
	place(m, 1, 5, 5)

	m.SetPlayerMoving(0, DirDown, true)
	m.SetPlayerMoving(0, DirRight, true)
	m.Tick()

	dist := math.Hypot(p.X-112, p.Y-112)
	if math.Abs(dist-2) > 1e-9 {
		t.Errorf("diagonal step should have length 2, got %.4f", dist)
	}
}

func TestDiagonalDoesNotCrossWallCorner(t *testing.T) {
	rows := openArena()
	rows[2][2] = int(Wall)
	m := newTestMatch(t, rows, 2, 0)
	p := m.players[0]
	p.X, p.Y = 63, 63
	place(m, 1, 5, 5)

	m.SetPlayerMoving(0, DirDown, true)
	m.SetPlayerMoving(0, DirRight, true)
	m.Tick()

	pos := m.tileOf(p)
	if m.board.TileAt(pos.X, pos.Y).Blocking() {
		t.Fatalf("player entered solid tile %v", pos)
	}
	if p.X <= 63 {
		t.Errorf("expected the X slide to apply, x=%.2f", p.X)
	}
}

func TestOppositeDirectionsCancel(t *testing.T) {
	m := newTestMatch(t, openArena(), 2, 0)
	p := place(m, 0, 3, 3)
	place(m, 1, 5, 5)

	m.SetPlayerMoving(0, DirLeft, true)
	m.SetPlayerMoving(0, DirRight, true)
	events := m.Tick()

	if p.X != 112 || p.Y != 112 {
		t.Errorf("opposite directions should cancel, got (%.2f,%.2f)", p.X, p.Y)
	}
	if countKind(events, EventPlayerMoved) != 0 {
		t.Error("no player-moved event expected")
	}
	if p.Anim != AnimIdle {
		t.Errorf("expected idle, got %s", p.Anim)
	}
}

func TestSetPlayerMovingClearsBit(t *testing.T) {
	m := newTestMatch(t, openArena(), 2, 0)
	m.SetPlayerMoving(0, DirUp, true)
	m.SetPlayerMoving(0, DirLeft, true)
	m.SetPlayerMoving(0, DirUp, false)

	if got := m.players[0].Moving; got != DirLeft.Bit() {
		t.Errorf("expected only left set, got %08b", got)
	}
	if err := m.SetPlayerMoving(7, DirUp, true); err == nil {
		t.Error("unknown player should be rejected")
	}
}

func TestSpeedStatScalesStep(t *testing.T) {
	m := newTestMatch(t, openArena(), 2, 0)
	p := place(m, 0, 3, 3)
	place(m, 1, 5, 5)
	p.Stats.Speed = 1.5

	m.SetPlayerMoving(0, DirUp, true)
	m.Tick()

	if p.Y != 109 {
		t.Errorf("expected y=109 at speed 1.5, got %.2f", p.Y)
	}
}

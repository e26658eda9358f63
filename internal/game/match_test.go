package game

import (
	"errors"
	"testing"
)

func fourCornerMap() [][]int {
	return [][]int{
		{1, 1, 1, 1, 1, 1, 1},
		{1, 3, 0, 2, 0, 3, 1},
		{1, 0, 1, 0, 1, 0, 1},
		{1, 2, 0, 0, 0, 2, 1},
		{1, 0, 1, 0, 1, 0, 1},
		{1, 3, 0, 2, 0, 3, 1},
		{1, 1, 1, 1, 1, 1, 1},
	}
}

func TestInitializeConvertsSpawnpoints(t *testing.T) {
	m := newTestMatch(t, fourCornerMap(), 1, 2)

	if n := m.board.Count(Spawnpoint); n != 0 {
		t.Errorf("expected no spawnpoints on the board, got %d", n)
	}
	if n := len(m.Spawnpoints()); n != 4 {
		t.Errorf("expected 4 spawn candidates, got %d", n)
	}
	if len(m.players) != 3 {
		t.Fatalf("expected 3 players, got %d", len(m.players))
	}

	seen := make(map[Position]bool)
	for i, p := range m.players {
		pos := m.tileOf(p)
		if seen[pos] {
			t.Errorf("two players spawned on %v", pos)
		}
		seen[pos] = true
		if m.board.TileAt(pos.X, pos.Y) != Air {
			t.Errorf("player %d spawned on %v", i, m.board.TileAt(pos.X, pos.Y))
		}
		if wantBot := i >= 1; p.IsBot != wantBot {
			t.Errorf("player %d: IsBot=%v, want %v", i, p.IsBot, wantBot)
		}
		if p.Color != Color(i) {
			t.Errorf("player %d: color %s", i, p.Color)
		}
		if !p.Alive || p.Shielded || p.Stats != m.cfg.Defaults {
			t.Errorf("player %d: unexpected initial state %+v", i, p)
		}
	}
	if m.status != StatusRunning || m.ID == "" {
		t.Errorf("expected a running match with an id, got %s %q", m.status, m.ID)
	}
}

func TestInitializeErrors(t *testing.T) {
	m := NewMatch(DefaultConfig())

	if err := m.Initialize(1, 0, openArena()); !errors.Is(err, ErrInvalidRoster) {
		t.Errorf("single player: expected ErrInvalidRoster, got %v", err)
	}
	if err := m.Initialize(2, 1, openArena()); !errors.Is(err, ErrNotEnoughSpawnpoints) {
		t.Errorf("three players on two spawns: expected ErrNotEnoughSpawnpoints, got %v", err)
	}
	var mme *MalformedMapError
	if err := m.Initialize(1, 1, [][]int{{3, 3}, {0}}); !errors.As(err, &mme) {
		t.Errorf("ragged map: expected MalformedMapError, got %v", err)
	}
}

func TestFailedInitializeKeepsMatch(t *testing.T) {
	m := newTestMatch(t, openArena(), 2, 0)
	place(m, 0, 3, 3)
	m.DropBomb(0)
	id := m.ID

	if err := m.Initialize(2, 0, [][]int{{3, 99}, {3, 0}}); err == nil {
		t.Fatal("expected an error for an unknown tile code")
	}
	if m.ID != id || m.status != StatusRunning {
		t.Errorf("previous match should be untouched, got id %q status %s", m.ID, m.status)
	}
	if len(m.Bombs()) != 1 || len(m.players) != 2 {
		t.Errorf("previous bombs and players should be kept")
	}
}

func TestRoundEndsInTie(t *testing.T) {
	m := newTestMatch(t, openArena(), 2, 0)
	place(m, 0, 3, 3)
	place(m, 1, 3, 4)
	m.DropBomb(0)

	events := ticks(m, fuseTicks(m.cfg))
	if m.status != StatusOver {
		t.Fatalf("round should be over, got %s", m.status)
	}
	res := m.Result()
	if !res.Tie || res.Winner != NoPlayer {
		t.Errorf("expected a tie, got %+v", res)
	}
	if countKind(events, EventRoundEnded) != 1 {
		t.Errorf("expected one round-ended event, got %d", countKind(events, EventRoundEnded))
	}
}

func TestRoundEndsWithWinner(t *testing.T) {
	m := newTestMatch(t, openArena(), 2, 0)
	place(m, 0, 3, 3)
	place(m, 1, 5, 5)
	m.DropBomb(0)

	events := ticks(m, fuseTicks(m.cfg))
	res := m.Result()
	if m.status != StatusOver || res.Tie || res.Winner != 1 {
		t.Fatalf("expected player 1 to win, got status %s result %+v", m.status, res)
	}
	for _, ev := range events {
		if ev.Kind == EventRoundEnded && (ev.Result == nil || ev.Result.Winner != 1) {
			t.Errorf("round-ended event should carry the winner, got %+v", ev)
		}
	}

	if m.Pause() || m.Resume() {
		t.Error("a finished round cannot be paused or resumed")
	}
	if m.status != StatusOver {
		t.Errorf("status changed to %s", m.status)
	}

	// A finished round no longer advances.
	now := m.now
	if evs := m.Tick(); len(evs) != 0 || m.now != now {
		t.Errorf("finished round should be frozen")
	}
}

func TestPauseFreezesRound(t *testing.T) {
	m := newTestMatch(t, openArena(), 2, 0)
	p := place(m, 0, 3, 3)
	place(m, 1, 5, 5)
	m.DropBomb(0)
	m.SetPlayerMoving(0, DirUp, true)

	if !m.Pause() || m.Pause() {
		t.Fatal("only the first pause should change the status")
	}
	ticks(m, 3*fuseTicks(m.cfg))
	if m.now != 0 || len(m.Bombs()) != 1 || p.Y != 112 {
		t.Fatalf("paused round should not advance: now=%v bombs=%d y=%.1f", m.now, len(m.Bombs()), p.Y)
	}

	if !m.Resume() {
		t.Fatal("resume should continue a paused round")
	}
	m.SetPlayerMoving(0, DirUp, false)
	place(m, 0, 1, 5)
	ticks(m, fuseTicks(m.cfg))
	if len(m.Bombs()) != 0 {
		t.Error("bomb should explode after resuming")
	}
}

func TestTeardownDiscardsPendingBombs(t *testing.T) {
	m := newTestMatch(t, openArena(), 2, 0)
	place(m, 0, 3, 3)
	place(m, 1, 3, 4)
	m.DropBomb(0)

	m.Teardown()
	events := ticks(m, 2*fuseTicks(m.cfg))
	if len(events) != 0 {
		t.Errorf("torn down match should emit nothing, got %d events", len(events))
	}
	if m.schedule.Len() != 0 || len(m.Bombs()) != 0 || len(m.Players()) != 0 {
		t.Error("teardown should clear schedule, bombs and players")
	}
	if m.Status() != StatusIdle {
		t.Errorf("expected idle, got %s", m.Status())
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	m := newTestMatch(t, openArena(), 2, 0)
	s := m.Snapshot()
	s.Board[1][1] = Wall
	s.Players[0].Alive = false

	if m.board.TileAt(1, 1) == Wall || !m.players[0].Alive {
		t.Error("snapshot should not alias live state")
	}
	if s.Width != 7 || s.Height != 7 || s.MatchID != m.ID {
		t.Errorf("unexpected snapshot header %d x %d %q", s.Width, s.Height, s.MatchID)
	}
}

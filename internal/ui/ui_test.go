package ui

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amalg/bomb-arena/internal/game"
)

func arena() [][]int {
	return [][]int{
		{1, 1, 1, 1, 1},
		{1, 3, 0, 2, 1},
		{1, 0, 1, 0, 1},
		{1, 2, 0, 3, 1},
		{1, 1, 1, 1, 1},
	}
}

func newTestModel(t *testing.T, humans, bots int) (Model, *game.Engine) {
	t.Helper()
	cfg := game.DefaultConfig()
	m := game.NewMatch(cfg, game.WithRand(rand.New(rand.NewSource(1))))
	engine := game.NewEngine(m, nil)
	round := Round{Humans: humans, Bots: bots, Rows: arena()}
	if err := engine.Start(round.Humans, round.Bots, round.Rows); err != nil {
		t.Fatalf("start: %v", err)
	}
	model := NewModel(engine, make(chan game.Frame), round, cfg.TileSize)
	model.applyFrame(game.Frame{State: engine.Snapshot()})
	return model, engine
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestKeyPressQueuesMove(t *testing.T) {
	model, engine := newTestModel(t, 1, 1)
	now := time.Now()

	model.handleKey(runeKey('d'), now)
	model.handleKey(runeKey('d'), now.Add(30*time.Millisecond))
	if got := engine.Metrics().ActionsAccepted; got != 1 {
		t.Fatalf("a repeated key should queue one move, got %d actions", got)
	}

	model.handleKey(runeKey('s'), now.Add(60*time.Millisecond))
	// Release of right, then press of down.
	if got := engine.Metrics().ActionsAccepted; got != 3 {
		t.Fatalf("expected 3 actions after changing direction, got %d", got)
	}
	if len(model.held) != 1 {
		t.Errorf("expected one held direction, got %d", len(model.held))
	}
}

func TestHeldDirectionReleases(t *testing.T) {
	model, engine := newTestModel(t, 1, 1)
	now := time.Now()
	model.handleKey(runeKey('w'), now)

	model.releaseStale(now.Add(holdWindow / 2))
	if len(model.held) != 1 {
		t.Fatal("direction released too early")
	}
	model.releaseStale(now.Add(holdWindow))
	if len(model.held) != 0 {
		t.Fatal("direction should be released after the hold window")
	}
	if got := engine.Metrics().ActionsAccepted; got != 2 {
		t.Errorf("expected press and release actions, got %d", got)
	}
}

func TestKeysForAbsentHumanIgnored(t *testing.T) {
	model, engine := newTestModel(t, 1, 1)
	model.handleKey(tea.KeyMsg{Type: tea.KeyUp}, time.Now())
	model.handleKey(tea.KeyMsg{Type: tea.KeyEnter}, time.Now())
	if got := engine.Metrics().ActionsAccepted; got != 0 {
		t.Errorf("second player keys should be ignored with one human, got %d actions", got)
	}
}

func TestQuitKey(t *testing.T) {
	model, _ := newTestModel(t, 1, 1)
	next, cmd := model.Update(runeKey('q'))
	if !next.(Model).quitting || cmd == nil {
		t.Fatal("q should quit")
	}
}

func TestExplosionFlash(t *testing.T) {
	model, _ := newTestModel(t, 0, 2)
	pos := game.Position{X: 2, Y: 1}
	state := model.engine.Snapshot()

	model.applyFrame(game.Frame{
		Events: []game.Event{{Kind: game.EventExplosion, At: state.Now, Pos: pos}},
		State:  state,
	})
	if !model.activeFlashes()[pos] {
		t.Fatal("explosion should be visible")
	}

	state.Now += flashFor
	model.applyFrame(game.Frame{State: state})
	if model.activeFlashes()[pos] {
		t.Fatal("explosion should fade")
	}
}

func TestRenderBoard(t *testing.T) {
	model, _ := newTestModel(t, 1, 1)
	out := RenderBoard(model.state, model.tileSize, nil)
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(lines))
	}
	if !strings.Contains(out, "P1") || !strings.Contains(out, "B2") {
		t.Errorf("expected both players on the board:\n%s", out)
	}
	if !strings.Contains(out, "▒▒") {
		t.Errorf("expected barrels on the board:\n%s", out)
	}
}

func TestRenderHUDResult(t *testing.T) {
	state := &game.Snapshot{
		Status:  game.StatusOver,
		Result:  game.Result{Winner: 1},
		Players: []game.Player{{ID: 0, Color: game.Red}, {ID: 1, Color: game.Green, Alive: true, IsBot: true}},
	}
	if out := RenderHUD(state, 1); !strings.Contains(out, "Bot 2 (green) WINS!") {
		t.Errorf("expected winner line, got:\n%s", out)
	}

	state.Result = game.Result{Winner: game.NoPlayer, Tie: true}
	if out := RenderHUD(state, 1); !strings.Contains(out, "DRAW") {
		t.Errorf("expected draw line, got:\n%s", out)
	}
}

package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amalg/bomb-arena/internal/game"
)

const (
	// Terminals report key presses but never releases. A direction stays
	// held until no repeat has arrived for holdWindow.
	holdWindow   = 180 * time.Millisecond
	releaseEvery = 40 * time.Millisecond

	// flashFor is how long, in match time, an explosion stays on screen.
	flashFor = 250 * time.Millisecond
)

// binding maps a key to one human player's input.
type binding struct {
	player game.PlayerID
	dir    game.Direction
	drop   bool
}

var bindings = map[string]binding{
	"w":     {player: 0, dir: game.DirUp},
	"s":     {player: 0, dir: game.DirDown},
	"a":     {player: 0, dir: game.DirLeft},
	"d":     {player: 0, dir: game.DirRight},
	" ":     {player: 0, drop: true},
	"up":    {player: 1, dir: game.DirUp},
	"down":  {player: 1, dir: game.DirDown},
	"left":  {player: 1, dir: game.DirLeft},
	"right": {player: 1, dir: game.DirRight},
	"enter": {player: 1, drop: true},
}

type heldKey struct {
	player game.PlayerID
	dir    game.Direction
}

// frameMsg carries one engine frame.
type frameMsg game.Frame

// releaseMsg fires periodically to release stale held directions.
type releaseMsg time.Time

// Round describes how to (re)start a round from the UI.
type Round struct {
	Humans int
	Bots   int
	Rows   [][]int
}

// Model is the Bubbletea model of a local match.
type Model struct {
	engine   *game.Engine
	frames   <-chan game.Frame
	round    Round
	tileSize float64
	state    *game.Snapshot
	held     map[heldKey]time.Time
	flashes  map[game.Position]time.Duration
	err      error
	quitting bool
}

// NewModel creates a TUI model that renders frames and drives engine with
// keyboard input. tileSize is the pixel size used by the match config.
func NewModel(engine *game.Engine, frames <-chan game.Frame, round Round, tileSize float64) Model {
	return Model{
		engine:   engine,
		frames:   frames,
		round:    round,
		tileSize: tileSize,
		held:     make(map[heldKey]time.Time),
		flashes:  make(map[game.Position]time.Duration),
	}
}

// Init starts listening for frames and the release timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForFrame(m.frames), releaseTick())
}

// Update handles key presses, frames and release ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg, time.Now())

	case frameMsg:
		m.applyFrame(game.Frame(msg))
		return m, waitForFrame(m.frames)

	case releaseMsg:
		m.releaseStale(time.Time(msg))
		return m, releaseTick()
	}
	return m, nil
}

// View renders the board next to the HUD.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	var errLine string
	if m.err != nil {
		errLine = "\n" + errorStyle.Render("Error: "+m.err.Error())
	}
	board := RenderBoard(m.state, m.tileSize, m.activeFlashes())
	hud := RenderHUD(m.state, m.round.Humans)
	return lipgloss.JoinHorizontal(lipgloss.Top, board, "  ", hud) + errLine + "\n"
}

func (m Model) handleKey(msg tea.KeyMsg, now time.Time) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "p":
		m.togglePause()
		return m, nil
	case "r":
		if m.state != nil && m.state.Status == game.StatusOver {
			m.held = make(map[heldKey]time.Time)
			m.flashes = make(map[game.Position]time.Duration)
			m.err = m.engine.Start(m.round.Humans, m.round.Bots, m.round.Rows)
		}
		return m, nil
	}

	b, ok := bindings[key]
	if !ok || int(b.player) >= m.round.Humans {
		return m, nil
	}
	if b.drop {
		m.engine.EnqueueAction(game.Action{Player: b.player, Type: game.ActionDropBomb})
		return m, nil
	}

	// One direction per player at a time: a new direction replaces the old.
	for k := range m.held {
		if k.player == b.player && k.dir != b.dir {
			m.release(k)
		}
	}
	k := heldKey{player: b.player, dir: b.dir}
	if _, already := m.held[k]; !already {
		m.engine.EnqueueAction(game.Action{Player: b.player, Type: game.ActionMove, Dir: b.dir, Active: true})
	}
	m.held[k] = now
	return m, nil
}

func (m Model) togglePause() {
	if m.state == nil {
		return
	}
	switch m.state.Status {
	case game.StatusRunning:
		m.engine.EnqueueAction(game.Action{Type: game.ActionPause})
	case game.StatusPaused:
		m.engine.EnqueueAction(game.Action{Type: game.ActionResume})
	}
}

func (m Model) release(k heldKey) {
	delete(m.held, k)
	m.engine.EnqueueAction(game.Action{Player: k.player, Type: game.ActionMove, Dir: k.dir, Active: false})
}

func (m Model) releaseStale(now time.Time) {
	for k, last := range m.held {
		if now.Sub(last) >= holdWindow {
			m.release(k)
		}
	}
}

func (m *Model) applyFrame(f game.Frame) {
	state := f.State
	m.state = &state
	for _, ev := range f.Events {
		if ev.Kind == game.EventExplosion {
			m.flashes[ev.Pos] = ev.At + flashFor
		}
	}
	for pos, until := range m.flashes {
		if state.Now >= until || state.Status == game.StatusIdle {
			delete(m.flashes, pos)
		}
	}
}

func (m Model) activeFlashes() map[game.Position]bool {
	out := make(map[game.Position]bool, len(m.flashes))
	for pos := range m.flashes {
		out[pos] = true
	}
	return out
}

func waitForFrame(frames <-chan game.Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-frames
		if !ok {
			return tea.Quit()
		}
		return frameMsg(f)
	}
}

func releaseTick() tea.Cmd {
	return tea.Tick(releaseEvery, func(t time.Time) tea.Msg {
		return releaseMsg(t)
	})
}

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/amalg/bomb-arena/internal/game"
)

const floorBg = lipgloss.Color("#1a1a2e")

// Color palette
var (
	// Tile styles
	wallStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#3a3a3a")).
			Foreground(lipgloss.Color("#555555"))

	barrelStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B6914")).
			Foreground(lipgloss.Color("#A0772B"))

	emptyStyle = lipgloss.NewStyle().
			Background(floorBg).
			Foreground(floorBg)

	buffStyle = lipgloss.NewStyle().
			Background(floorBg).
			Foreground(lipgloss.Color("#44ff88"))

	debuffStyle = lipgloss.NewStyle().
			Background(floorBg).
			Foreground(lipgloss.Color("#ff6688"))

	shieldStyle = lipgloss.NewStyle().
			Background(floorBg).
			Foreground(lipgloss.Color("#44ddff")).
			Bold(true)

	bombStyle = lipgloss.NewStyle().
			Background(floorBg).
			Foreground(lipgloss.Color("#ff4444")).
			Bold(true)

	fireStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#ff6600")).
			Foreground(lipgloss.Color("#ffcc00")).
			Bold(true)

	// One per game.Color
	playerColors = []lipgloss.Color{
		lipgloss.Color("#ff4444"), // Red
		lipgloss.Color("#00ff88"), // Green
		lipgloss.Color("#4488ff"), // Blue
		lipgloss.Color("#ffff44"), // Yellow
	}

	deadPlayerStyle = lipgloss.NewStyle().
			Background(floorBg).
			Foreground(lipgloss.Color("#666666")).
			Strikethrough(true)

	// HUD styles
	hudBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff8844")).
			Bold(true)

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#44aaff")).
			Bold(true)

	winnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ff88")).
			Bold(true).
			Blink(true)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

var pickupGlyphs = map[game.Tile]string{
	game.SpeedBuff:      ">>",
	game.SpeedDebuff:    "<<",
	game.RadiusBuff:     "R+",
	game.RadiusDebuff:   "R-",
	game.FuseBuff:       "F+",
	game.FuseDebuff:     "F-",
	game.CooldownBuff:   "C+",
	game.CooldownDebuff: "C-",
	game.Shield:         "[]",
}

func playerColor(c game.Color) lipgloss.Color {
	return playerColors[int(c)%len(playerColors)]
}

// tileOf returns the cell under a player's center.
func tileOf(p game.Player, tileSize float64) game.Position {
	return game.Position{X: int(p.X / tileSize), Y: int(p.Y / tileSize)}
}

// RenderBoard converts a snapshot into a styled terminal string. fire marks
// cells with a visible explosion.
func RenderBoard(state *game.Snapshot, tileSize float64, fire map[game.Position]bool) string {
	if state == nil || len(state.Board) == 0 {
		return "Waiting for game state..."
	}

	bombSet := make(map[game.Position]bool, len(state.Bombs))
	for _, b := range state.Bombs {
		bombSet[b.Pos] = true
	}

	// Live players win the cell over dead ones.
	alive := make(map[game.Position]game.Player)
	dead := make(map[game.Position]game.Player)
	for _, p := range state.Players {
		pos := tileOf(p, tileSize)
		if p.Alive {
			alive[pos] = p
		} else {
			dead[pos] = p
		}
	}

	rows := make([]string, 0, state.Height)
	for y := 0; y < state.Height; y++ {
		var sb strings.Builder
		for x := 0; x < state.Width; x++ {
			pos := game.Position{X: x, Y: y}
			sb.WriteString(renderCell(state.Board[y][x], pos, fire, bombSet, alive, dead))
		}
		rows = append(rows, sb.String())
	}
	return strings.Join(rows, "\n")
}

// renderCell renders a single board cell. Each cell is 2 characters wide
// for a square-ish appearance.
func renderCell(
	tile game.Tile,
	pos game.Position,
	fire map[game.Position]bool,
	bombs map[game.Position]bool,
	alive map[game.Position]game.Player,
	dead map[game.Position]game.Player,
) string {
	// Priority: Player > Fire > Bomb > Tile > Corpse
	if p, ok := alive[pos]; ok {
		style := lipgloss.NewStyle().
			Background(floorBg).
			Foreground(playerColor(p.Color)).
			Bold(true)
		label := fmt.Sprintf("P%d", p.ID+1)
		if p.IsBot {
			label = fmt.Sprintf("B%d", p.ID+1)
		}
		if p.Shielded {
			style = style.Underline(true)
		}
		return style.Render(label)
	}

	if fire[pos] {
		return fireStyle.Render("░░")
	}

	if bombs[pos] {
		return bombStyle.Render("()")
	}

	switch {
	case tile == game.Wall:
		return wallStyle.Render("██")
	case tile == game.Barrel:
		return barrelStyle.Render("▒▒")
	case tile == game.Shield:
		return shieldStyle.Render(pickupGlyphs[tile])
	case tile.IsPickup():
		if isBuff(tile) {
			return buffStyle.Render(pickupGlyphs[tile])
		}
		return debuffStyle.Render(pickupGlyphs[tile])
	}

	if _, ok := dead[pos]; ok {
		return deadPlayerStyle.Render("xx")
	}
	return emptyStyle.Render("  ")
}

func isBuff(t game.Tile) bool {
	switch t {
	case game.SpeedBuff, game.RadiusBuff, game.FuseBuff, game.CooldownBuff:
		return true
	}
	return false
}

// RenderHUD renders the round status and per-player stats.
func RenderHUD(state *game.Snapshot, humans int) string {
	if state == nil {
		return ""
	}

	var parts []string
	parts = append(parts, titleStyle.Render("BOMBERMAN"), "")

	switch state.Status {
	case game.StatusIdle:
		parts = append(parts, mutedStyle.Render("No round in progress"))
	case game.StatusRunning:
		parts = append(parts, errorStyle.Render(fmt.Sprintf("ROUND %s", formatClock(state.Now))))
	case game.StatusPaused:
		parts = append(parts, pausedStyle.Render("PAUSED"), "   Press [P] to resume")
	case game.StatusOver:
		if state.Result.Tie {
			parts = append(parts, mutedStyle.Render("DRAW: everyone died!"))
		} else {
			parts = append(parts, winnerStyle.Render(fmt.Sprintf("%s WINS!", playerName(state.Players, state.Result.Winner))))
		}
		parts = append(parts, "   Press [R] for a new round")
	}
	parts = append(parts, "")

	parts = append(parts, mutedStyle.Render("Players:"))
	for _, p := range state.Players {
		nameStyle := lipgloss.NewStyle().Foreground(playerColor(p.Color))
		status := "+"
		if !p.Alive {
			status = "x"
			nameStyle = deadPlayerStyle
		}
		shield := ""
		if p.Shielded {
			shield = " [shield]"
		}
		line := fmt.Sprintf("%s %s spd %.2f  rad %d  fuse %s  cd %s%s",
			status,
			nameStyle.Render(playerName(state.Players, p.ID)),
			p.Stats.Speed,
			p.Stats.Radius,
			formatSeconds(p.Stats.Fuse.Seconds()),
			formatSeconds(p.Stats.Cooldown.Seconds()),
			shield,
		)
		parts = append(parts, line)
	}

	parts = append(parts, "")
	s := state.Stats
	parts = append(parts, mutedStyle.Render(fmt.Sprintf("bombs %d  blasts %d  barrels %d  pickups %d",
		s.BombsDropped, s.Detonations, s.BarrelsDestroyed, s.PickupsCollected)))

	parts = append(parts, "")
	if humans > 0 {
		parts = append(parts, hintStyle.Render("P1: WASD move, Space bomb"))
	}
	if humans > 1 {
		parts = append(parts, hintStyle.Render("P2: Arrows move, Enter bomb"))
	}
	parts = append(parts, hintStyle.Render("P: Pause | Q: Quit"))

	return hudBorderStyle.Render(strings.Join(parts, "\n"))
}

func playerName(players []game.Player, id game.PlayerID) string {
	for _, p := range players {
		if p.ID != id {
			continue
		}
		kind := "Player"
		if p.IsBot {
			kind = "Bot"
		}
		return fmt.Sprintf("%s %d (%s)", kind, p.ID+1, p.Color)
	}
	return "Nobody"
}

func formatSeconds(s float64) string {
	return fmt.Sprintf("%.2fs", s)
}

func formatClock(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

package game

import (
	"math"
	"time"
)

// Decision is what a Controller wants for its player this tick.
type Decision struct {
	Keep bool     // Leave the current movement intent untouched
	Move MoveMask // New movement intent when Keep is false
	Drop bool     // Attempt a bomb drop
}

// Controller decides a player's intent once per tick, before movement.
// Implementations hold no per-player state; everything they need is read
// from the match and the player record.
type Controller interface {
	Decide(m *Match, self *Player) Decision
}

// Human leaves the intent set by external input events untouched.
type Human struct{}

func (Human) Decide(*Match, *Player) Decision {
	return Decision{Keep: true}
}

// Bot avoids blast zones and drops a bomb when an enemy is in line and it
// can still get away in time.
type Bot struct{}

func (Bot) Decide(m *Match, self *Player) Decision {
	here := m.tileOf(self)
	forbidden := DangerZone(m.board, m.Bombs())

	if forbidden[here] {
		path := EscapePath(m.board, here, forbidden)
		if len(path) < 2 {
			return Decision{}
		}
		return Decision{Move: m.steerTowards(self, path[1])}
	}

	if self.CanDrop(m.now) && m.enemyInLine(self, here) && m.safeToDrop(self, here, forbidden) {
		return Decision{Drop: true}
	}
	return Decision{}
}

// DangerZone marks every tile a live bomb could reach. Walls are ignored on
// purpose: the zone is a straight cross of Radius-1 tiles clipped only by
// the grid edge, which is more cautious than real propagation.
func DangerZone(b *Board, bombs []Bomb) map[Position]bool {
	zone := make(map[Position]bool)
	for _, bomb := range bombs {
		markCross(b, zone, bomb.Pos, bomb.Radius)
	}
	return zone
}

func markCross(b *Board, zone map[Position]bool, center Position, radius int) {
	zone[center] = true
	for _, dir := range Directions {
		d := dir.Delta()
		for step := 1; step < radius; step++ {
			pos := center.Add(d, step)
			if !b.InBounds(pos.X, pos.Y) {
				break
			}
			zone[pos] = true
		}
	}
}

// EscapePath runs a breadth-first search from start over orthogonal moves,
// never entering Wall or Barrel tiles, to the nearest tile outside
// forbidden. The returned path begins with start and ends on the safe tile.
// It is nil when no safe tile is reachable.
func EscapePath(b *Board, start Position, forbidden map[Position]bool) []Position {
	if !forbidden[start] {
		return []Position{start}
	}
	prev := map[Position]Position{start: start}
	queue := []Position{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dir := range Directions {
			next := cur.Add(dir.Delta(), 1)
			if !b.InBounds(next.X, next.Y) || b.TileAt(next.X, next.Y).Blocking() {
				continue
			}
			if _, seen := prev[next]; seen {
				continue
			}
			prev[next] = cur
			if !forbidden[next] {
				return buildPath(prev, start, next)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

func buildPath(prev map[Position]Position, start, goal Position) []Position {
	var rev []Position
	for p := goal; p != start; p = prev[p] {
		rev = append(rev, p)
	}
	rev = append(rev, start)
	path := make([]Position, len(rev))
	for i, p := range rev {
		path[len(rev)-1-i] = p
	}
	return path
}

// steerTowards returns the intent that moves self towards the center of
// the given cell.
func (m *Match) steerTowards(self *Player, target Position) MoveMask {
	tx, ty := m.centerOf(target)
	var mask MoveMask
	const eps = 0.5
	switch dx := tx - self.X; {
	case dx > eps:
		mask = mask.With(DirRight, true)
	case dx < -eps:
		mask = mask.With(DirLeft, true)
	}
	switch dy := ty - self.Y; {
	case dy > eps:
		mask = mask.With(DirDown, true)
	case dy < -eps:
		mask = mask.With(DirUp, true)
	}
	return mask
}

// enemyInLine reports whether another live player shares a row or column
// with here within reach of self's blast.
func (m *Match) enemyInLine(self *Player, here Position) bool {
	reach := self.Stats.Radius - 1
	for _, p := range m.players {
		if p.ID == self.ID || !p.Alive {
			continue
		}
		pos := m.tileOf(p)
		switch {
		case pos.Y == here.Y && abs(pos.X-here.X) <= reach:
			return true
		case pos.X == here.X && abs(pos.Y-here.Y) <= reach:
			return true
		}
	}
	return false
}

// safeToDrop simulates a bomb of self at here and reports whether self can
// walk out of every danger zone strictly before that bomb's fuse runs out.
func (m *Match) safeToDrop(self *Player, here Position, forbidden map[Position]bool) bool {
	zone := make(map[Position]bool, len(forbidden))
	for pos := range forbidden {
		zone[pos] = true
	}
	markCross(m.board, zone, here, self.Stats.Radius)

	path := EscapePath(m.board, here, zone)
	if path == nil {
		return false
	}
	return m.travelTime(self, len(path)-1) < self.Stats.Fuse
}

// travelTime is how long self needs to cover the given number of tiles at
// its current speed.
func (m *Match) travelTime(self *Player, tiles int) time.Duration {
	perTick := self.Stats.Speed * m.cfg.BaseSpeed
	if perTick <= 0 {
		return time.Duration(math.MaxInt64)
	}
	ticks := math.Ceil(float64(tiles) * m.cfg.TileSize / perTick)
	return time.Duration(ticks) * m.cfg.TickStep
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

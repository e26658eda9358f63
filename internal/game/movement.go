package game

import "math"

// tileOf returns the cell under the player's center.
func (m *Match) tileOf(p *Player) Position {
	return m.cellAt(p.X, p.Y)
}

func (m *Match) cellAt(x, y float64) Position {
	ts := m.cfg.TileSize
	return Position{X: int(math.Floor(x / ts)), Y: int(math.Floor(y / ts))}
}

// centerOf returns the pixel center of a cell.
func (m *Match) centerOf(pos Position) (float64, float64) {
	ts := m.cfg.TileSize
	return (float64(pos.X) + 0.5) * ts, (float64(pos.Y) + 0.5) * ts
}

// blockedAt reports whether a pixel coordinate lies on a Wall, a Barrel or
// off the grid.
func (m *Match) blockedAt(x, y float64) bool {
	pos := m.cellAt(x, y)
	if !m.board.InBounds(pos.X, pos.Y) {
		return true
	}
	return m.board.TileAt(pos.X, pos.Y).Blocking()
}

// movePlayer advances p by one tick of its movement intent.
//
// The two axes are resolved independently: the X step is tested against the
// pre-move row and the Y step against the pre-move column, so a diagonal
// move into a wall keeps sliding along the open axis.
func (m *Match) movePlayer(p *Player) {
	dx, dy := p.Moving.Axes()
	m.updateAnimation(p, dx, dy)
	if dx == 0 && dy == 0 {
		return
	}

	vx, vy := float64(dx), float64(dy)
	norm := math.Hypot(vx, vy)
	step := p.Stats.Speed * m.cfg.BaseSpeed
	vx, vy = vx/norm*step, vy/norm*step

	oldX, oldY := p.X, p.Y
	newX, newY := oldX+vx, oldY+vy
	if m.blockedAt(newX, oldY) {
		newX = oldX
	}
	if m.blockedAt(oldX, newY) {
		newY = oldY
	}
	// Both axes open but the diagonal cell is solid: the center would cross
	// a wall corner. This only happens when both steps cross a cell boundary
	// in the same tick, otherwise the axes stay independent. Keep the X
	// slide and drop the Y step.
	if newX != oldX && newY != oldY && m.blockedAt(newX, newY) {
		newY = oldY
	}

	if newX == oldX && newY == oldY {
		return
	}
	p.X, p.Y = newX, newY
	m.emit(Event{Kind: EventPlayerMoved, Player: p.ID, X: p.X, Y: p.Y})
}

// updateAnimation sets facing and animation from the intent and emits an
// event when either changes.
func (m *Match) updateAnimation(p *Player, dx, dy int) {
	anim, facing := AnimIdle, p.Facing
	switch {
	case dy < 0:
		anim, facing = AnimWalking, DirUp
	case dy > 0:
		anim, facing = AnimWalking, DirDown
	case dx < 0:
		anim, facing = AnimWalking, DirLeft
	case dx > 0:
		anim, facing = AnimWalking, DirRight
	}
	if anim == p.Anim && facing == p.Facing {
		return
	}
	p.Anim, p.Facing = anim, facing
	m.emit(Event{Kind: EventPlayerAnimation, Player: p.ID, Anim: anim, Facing: facing})
}

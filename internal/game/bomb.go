package game

import "time"

// CanDrop reports whether p's bomb cooldown has elapsed at match time now.
func (p *Player) CanDrop(now time.Duration) bool {
	return !p.Dropped || now-p.LastDrop >= p.Stats.Cooldown
}

// dropBomb arms a bomb on p's current tile. It is a silent no-op when the
// round is not running, p is dead, p is on cooldown or the tile already
// holds a bomb.
func (m *Match) dropBomb(p *Player) bool {
	if m.status != StatusRunning || !p.Alive {
		return false
	}
	if !p.CanDrop(m.now) {
		return false
	}
	pos := m.tileOf(p)
	if _, taken := m.bombs[pos]; taken {
		return false
	}

	bomb := &Bomb{
		Owner:      p.ID,
		Pos:        pos,
		Radius:     p.Stats.Radius,
		Fuse:       p.Stats.Fuse,
		PlacedAt:   m.now,
		ExplodesAt: m.now + p.Stats.Fuse,
	}
	m.bombs[pos] = bomb
	p.LastDrop = m.now
	p.Dropped = true
	m.stats.BombsDropped++

	m.schedule.At(bomb.ExplodesAt, func() { m.detonate(bomb) })
	m.log.Debugw("bomb dropped", "player", p.ID, "x", pos.X, "y", pos.Y,
		"radius", bomb.Radius, "fuse", bomb.Fuse)
	return true
}

// blastTiles returns the tiles an explosion of b reaches: its own tile, then
// up to Radius-1 tiles along each ray. A ray stops before a Wall or the grid
// edge and stops on (including) a Barrel.
func (m *Match) blastTiles(b *Bomb) []Position {
	tiles := []Position{b.Pos}
	for _, dir := range Directions {
		d := dir.Delta()
		for step := 1; step < b.Radius; step++ {
			pos := b.Pos.Add(d, step)
			if !m.board.InBounds(pos.X, pos.Y) {
				break
			}
			t := m.board.TileAt(pos.X, pos.Y)
			if t == Wall {
				break
			}
			tiles = append(tiles, pos)
			if t == Barrel {
				break
			}
		}
	}
	return tiles
}

// detonate resolves the explosion of b and removes it from the live set.
// It runs to completion before any other state change.
func (m *Match) detonate(b *Bomb) {
	if m.status != StatusRunning || m.bombs[b.Pos] != b {
		return
	}

	tiles := m.blastTiles(b)
	hit := make(map[Position]bool, len(tiles))
	for _, pos := range tiles {
		hit[pos] = true
		if m.board.TileAt(pos.X, pos.Y) == Barrel {
			m.destroyBarrel(pos)
		}
		m.emit(Event{Kind: EventExplosion, Pos: pos})
	}

	// Each player is hit at most once per detonation, however many of the
	// blast tiles touch it, so a shield is consumed once.
	for _, p := range m.players {
		if p.Alive && hit[m.tileOf(p)] {
			m.hitPlayer(p)
		}
	}

	delete(m.bombs, b.Pos)
	m.stats.Detonations++
	m.log.Debugw("bomb detonated", "owner", b.Owner, "x", b.Pos.X, "y", b.Pos.Y, "tiles", len(tiles))
	m.checkRoundEnd()
}

// destroyBarrel clears a barrel, dropping a random pickup with the
// configured chance.
func (m *Match) destroyBarrel(pos Position) {
	next := Air
	if m.rng.Float64() < m.cfg.BarrelDropChance {
		next = randomPickup(m.rng, m.cfg.PickupWeights)
	}
	m.board.SetTile(pos.X, pos.Y, next)
	m.stats.BarrelsDestroyed++
	m.emitTile(pos, next)
}

// hitPlayer consumes a shield or kills the player.
func (m *Match) hitPlayer(p *Player) {
	if p.Shielded {
		p.Shielded = false
		m.stats.ShieldsConsumed++
		m.log.Debugw("shield absorbed hit", "player", p.ID)
		return
	}
	p.Alive = false
	p.Moving = 0
	p.Anim = AnimDead
	m.emit(Event{Kind: EventPlayerAnimation, Player: p.ID, Anim: AnimDead, Facing: p.Facing})
	m.emit(Event{Kind: EventPlayerDied, Player: p.ID})
	m.log.Debugw("player died", "player", p.ID, "color", p.Color.String())
}

package game

import (
	"math/rand"
	"time"
)

// applyPickup mutates p according to the pickup tile t.
// Debuffs are the inverse operation of the matching buff. A second shield
// while already shielded changes nothing.
func (c GameConfig) applyPickup(p *Player, t Tile) {
	s := &p.Stats
	switch t {
	case SpeedBuff:
		s.Speed *= c.SpeedFactor
	case SpeedDebuff:
		s.Speed /= c.SpeedFactor
	case FuseBuff:
		s.Fuse = scaleDuration(s.Fuse, 1/c.FuseFactor)
	case FuseDebuff:
		s.Fuse = scaleDuration(s.Fuse, c.FuseFactor)
	case CooldownBuff:
		s.Cooldown = scaleDuration(s.Cooldown, 1/c.CooldownFactor)
	case CooldownDebuff:
		s.Cooldown = scaleDuration(s.Cooldown, c.CooldownFactor)
	case RadiusBuff:
		s.Radius++
	case RadiusDebuff:
		if s.Radius > 1 {
			s.Radius--
		}
	case Shield:
		p.Shielded = true
	}
}

func scaleDuration(d time.Duration, f float64) time.Duration {
	return time.Duration(float64(d) * f)
}

// randomPickup draws a pickup tile from the weighted distribution.
func randomPickup(rng *rand.Rand, weights []PickupWeight) Tile {
	total := 0
	for _, w := range weights {
		total += w.Weight
	}
	if total <= 0 {
		return Air
	}
	n := rng.Intn(total)
	for _, w := range weights {
		if n < w.Weight {
			return w.Tile
		}
		n -= w.Weight
	}
	return Air
}

// collectPickup consumes the pickup under p, if any.
func (m *Match) collectPickup(p *Player) {
	pos := m.tileOf(p)
	if !m.board.InBounds(pos.X, pos.Y) {
		return
	}
	t := m.board.TileAt(pos.X, pos.Y)
	if !t.IsPickup() {
		return
	}
	m.cfg.applyPickup(p, t)
	m.board.SetTile(pos.X, pos.Y, Air)
	m.stats.PickupsCollected++
	m.emitTile(pos, Air)
	m.log.Debugw("pickup collected", "player", p.ID, "tile", t.String(), "x", pos.X, "y", pos.Y)
}

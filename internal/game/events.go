package game

import "time"

// EventKind identifies a render event.
type EventKind string

const (
	EventTileChanged     EventKind = "tile-changed"
	EventPlayerMoved     EventKind = "player-moved"
	EventPlayerAnimation EventKind = "player-animation-state"
	EventExplosion       EventKind = "explosion-at"
	EventPlayerDied      EventKind = "player-died"
	EventRoundEnded      EventKind = "round-ended"
)

// Event is a state change pushed to the renderer. Only the fields relevant
// to Kind carry meaning, but tile, player and facing are always encoded
// since their zero values (Air, player 0, up) are valid.
type Event struct {
	Kind   EventKind     `json:"kind" msgpack:"kind"`
	At     time.Duration `json:"at" msgpack:"at"`
	Pos    Position      `json:"pos" msgpack:"pos"`
	Tile   Tile          `json:"tile" msgpack:"tile"`
	Player PlayerID      `json:"player" msgpack:"player"`
	X      float64       `json:"x" msgpack:"x"`
	Y      float64       `json:"y" msgpack:"y"`
	Anim   AnimState     `json:"anim,omitempty" msgpack:"anim,omitempty"`
	Facing Direction     `json:"facing" msgpack:"facing"`
	Result *Result       `json:"result,omitempty" msgpack:"result,omitempty"`
}

func (m *Match) emit(ev Event) {
	ev.At = m.now
	m.outbox = append(m.outbox, ev)
}

func (m *Match) emitTile(pos Position, t Tile) {
	m.emit(Event{Kind: EventTileChanged, Pos: pos, Tile: t})
}

// drainEvents hands over the pending events and resets the outbox.
func (m *Match) drainEvents() []Event {
	out := m.outbox
	m.outbox = nil
	return out
}

package game

import (
	"time"
)

// Tile represents the content of a cell on the game board.
// The numeric values are the codes used in map files.
type Tile int

const (
	Air        Tile = iota
	Wall            // Indestructible
	Barrel          // Destructible by bombs, may drop a pickup
	Spawnpoint      // Converted to Air when a match is initialized
	SpeedBuff
	SpeedDebuff
	RadiusBuff
	RadiusDebuff
	FuseBuff
	FuseDebuff
	CooldownBuff
	CooldownDebuff
	Shield

	tileCount
)

var tileNames = [...]string{
	Air:            "air",
	Wall:           "wall",
	Barrel:         "barrel",
	Spawnpoint:     "spawnpoint",
	SpeedBuff:      "speed_buff",
	SpeedDebuff:    "speed_debuff",
	RadiusBuff:     "radius_buff",
	RadiusDebuff:   "radius_debuff",
	FuseBuff:       "fuse_buff",
	FuseDebuff:     "fuse_debuff",
	CooldownBuff:   "cooldown_buff",
	CooldownDebuff: "cooldown_debuff",
	Shield:         "shield",
}

func (t Tile) String() string {
	if t.Valid() {
		return tileNames[t]
	}
	return "unknown"
}

// Valid reports whether t is a known tile code.
func (t Tile) Valid() bool {
	return t >= Air && t < tileCount
}

// Blocking reports whether players cannot walk onto the tile.
func (t Tile) Blocking() bool {
	return t == Wall || t == Barrel
}

// IsPickup reports whether the tile is consumed when a player steps on it.
func (t Tile) IsPickup() bool {
	return t >= SpeedBuff && t <= Shield
}

// Direction represents a movement direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return "none"
}

// Delta returns the grid offset of one step in direction d.
func (d Direction) Delta() Position {
	switch d {
	case DirUp:
		return Position{X: 0, Y: -1}
	case DirDown:
		return Position{X: 0, Y: 1}
	case DirLeft:
		return Position{X: -1, Y: 0}
	case DirRight:
		return Position{X: 1, Y: 0}
	}
	return Position{}
}

// Directions lists the four cardinal directions in ray order.
var Directions = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// MoveMask is a movement intent bitmask with one bit per direction.
type MoveMask uint8

// Bit returns the mask bit for d.
func (d Direction) Bit() MoveMask {
	return 1 << uint(d)
}

// Has reports whether the bit for d is set.
func (m MoveMask) Has(d Direction) bool {
	return m&d.Bit() != 0
}

// With returns m with the bit for d set or cleared.
func (m MoveMask) With(d Direction, active bool) MoveMask {
	if active {
		return m | d.Bit()
	}
	return m &^ d.Bit()
}

// Axes returns the per-axis intent in {-1, 0, 1}.
// Opposite directions set together cancel out.
func (m MoveMask) Axes() (dx, dy int) {
	if m.Has(DirLeft) {
		dx--
	}
	if m.Has(DirRight) {
		dx++
	}
	if m.Has(DirUp) {
		dy--
	}
	if m.Has(DirDown) {
		dy++
	}
	return dx, dy
}

// Position represents a cell coordinate on the board.
type Position struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

// Add returns p offset by n steps of d.
func (p Position) Add(d Position, n int) Position {
	return Position{X: p.X + d.X*n, Y: p.Y + d.Y*n}
}

// PlayerID identifies a player within a match. It is also the player's
// index in the roster.
type PlayerID int

// NoPlayer is used where a player id is absent, e.g. a tied round.
const NoPlayer PlayerID = -1

// Color is the player color index.
type Color int

const (
	Red Color = iota
	Green
	Blue
	Yellow

	colorCount
)

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Yellow:
		return "yellow"
	}
	return "unknown"
}

// AnimState is the render animation of a player.
type AnimState string

const (
	AnimIdle    AnimState = "idle"
	AnimWalking AnimState = "walking"
	AnimDead    AnimState = "dead"
)

// Stats are the per-player tunables changed by pickups.
type Stats struct {
	Speed    float64       `json:"speed"`    // Multiplier on the base speed
	Fuse     time.Duration `json:"fuse"`     // Bomb fuse duration
	Radius   int           `json:"radius"`   // Blast radius in tiles, own tile included
	Cooldown time.Duration `json:"cooldown"` // Minimum time between bomb drops
}

// Player is the mutable state of one participant. Human and bot players
// share this record; only their Controller differs.
type Player struct {
	ID       PlayerID      `json:"id"`
	Color    Color         `json:"color"`
	X        float64       `json:"x"` // Pixel coordinate of the player's center
	Y        float64       `json:"y"`
	Moving   MoveMask      `json:"moving"`
	Facing   Direction     `json:"facing"`
	Anim     AnimState     `json:"anim"`
	Alive    bool          `json:"alive"`
	Shielded bool          `json:"shielded"`
	Stats    Stats         `json:"stats"`
	IsBot    bool          `json:"is_bot"`
	LastDrop time.Duration `json:"last_drop"` // Match time of the last bomb drop
	Dropped  bool          `json:"dropped"`   // Whether LastDrop is set
}

// Bomb represents an armed bomb on the board. Radius and fuse are captured
// from the owner's stats at drop time.
type Bomb struct {
	Owner      PlayerID      `json:"owner"`
	Pos        Position      `json:"pos"`
	Radius     int           `json:"radius"`
	Fuse       time.Duration `json:"fuse"`
	PlacedAt   time.Duration `json:"placed_at"`
	ExplodesAt time.Duration `json:"explodes_at"`
}

// Status represents the current match phase.
type Status int

const (
	StatusIdle    Status = iota // Not initialized or torn down
	StatusRunning               // Round in progress
	StatusPaused                // Round frozen
	StatusOver                  // Round finished
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusOver:
		return "over"
	}
	return "unknown"
}

// Result describes how a round ended.
type Result struct {
	Winner PlayerID `json:"winner"`
	Tie    bool     `json:"tie"`
}

// PickupWeight is one entry of the barrel drop distribution.
type PickupWeight struct {
	Tile   Tile
	Weight int
}

// GameConfig holds the simulation tunables of a match.
type GameConfig struct {
	TickStep         time.Duration  `json:"tick_step"`
	TileSize         float64        `json:"tile_size"`  // Pixels per tile
	BaseSpeed        float64        `json:"base_speed"` // Pixels per tick at speed 1.0
	Defaults         Stats          `json:"defaults"`
	SpeedFactor      float64        `json:"speed_factor"`
	FuseFactor       float64        `json:"fuse_factor"`
	CooldownFactor   float64        `json:"cooldown_factor"`
	BarrelDropChance float64        `json:"barrel_drop_chance"`
	PickupWeights    []PickupWeight `json:"-"`
}

// DefaultConfig returns the standard match configuration: a 60 Hz tick,
// 32 pixel tiles and a 1.5 second fuse.
func DefaultConfig() GameConfig {
	return GameConfig{
		TickStep:  16 * time.Millisecond,
		TileSize:  32,
		BaseSpeed: 2,
		Defaults: Stats{
			Speed:    1.0,
			Fuse:     1500 * time.Millisecond,
			Radius:   3,
			Cooldown: 1000 * time.Millisecond,
		},
		SpeedFactor:      1.2,
		FuseFactor:       1.25,
		CooldownFactor:   1.3,
		BarrelDropChance: 0.5,
		PickupWeights: []PickupWeight{
			{SpeedBuff, 4},
			{SpeedDebuff, 5},
			{FuseBuff, 4},
			{FuseDebuff, 5},
			{CooldownBuff, 3},
			{CooldownDebuff, 3},
			{RadiusBuff, 2},
			{RadiusDebuff, 2},
			{Shield, 1},
		},
	}
}

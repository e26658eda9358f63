package game

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MatchStats counts what happened during a round.
type MatchStats struct {
	Ticks            int64 `json:"ticks"`
	BombsDropped     int   `json:"bombs_dropped"`
	Detonations      int   `json:"detonations"`
	BarrelsDestroyed int   `json:"barrels_destroyed"`
	PickupsCollected int   `json:"pickups_collected"`
	ShieldsConsumed  int   `json:"shields_consumed"`
}

// Match is the single-threaded simulation of one round. None of its
// methods are safe for concurrent use; Engine serializes access.
type Match struct {
	ID string

	cfg         GameConfig
	board       *Board
	spawns      []Position
	players     []*Player
	controllers []Controller
	bombs       map[Position]*Bomb
	schedule    Schedule
	now         time.Duration
	status      Status
	result      Result
	stats       MatchStats
	outbox      []Event
	rng         *rand.Rand
	log         *zap.SugaredLogger
}

// Option configures a Match.
type Option func(*Match)

// WithRand sets the random source used for spawn shuffling and drops.
func WithRand(rng *rand.Rand) Option {
	return func(m *Match) { m.rng = rng }
}

// WithLogger sets the match logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(m *Match) { m.log = log }
}

// NewMatch creates an idle match. Call Initialize to start a round.
func NewMatch(cfg GameConfig, opts ...Option) *Match {
	m := &Match{
		cfg:   cfg,
		bombs: make(map[Position]*Bomb),
		log:   zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return m
}

// Initialize starts a new round on the given tile matrix with humanCount
// human players followed by botCount bots. Players are placed on a
// shuffled list of the map's spawnpoints. On error the previous state of
// the match is left untouched.
func (m *Match) Initialize(humanCount, botCount int, rows [][]int) error {
	if humanCount < 0 || botCount < 0 || humanCount+botCount < 2 {
		return fmt.Errorf("%w: %d humans, %d bots", ErrInvalidRoster, humanCount, botCount)
	}
	board, err := LoadBoard(rows)
	if err != nil {
		return err
	}
	spawns := board.ExtractSpawnpoints()
	total := humanCount + botCount
	if len(spawns) < 2 || len(spawns) < total {
		return fmt.Errorf("%w: map has %d, roster needs %d", ErrNotEnoughSpawnpoints, len(spawns), max(total, 2))
	}

	shuffled := make([]Position, len(spawns))
	copy(shuffled, spawns)
	m.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	players := make([]*Player, total)
	controllers := make([]Controller, total)
	for i := range players {
		x, y := m.centerOf(shuffled[i])
		players[i] = &Player{
			ID:     PlayerID(i),
			Color:  Color(i % int(colorCount)),
			X:      x,
			Y:      y,
			Anim:   AnimIdle,
			Alive:  true,
			Stats:  m.cfg.Defaults,
			IsBot:  i >= humanCount,
			Facing: DirDown,
		}
		if players[i].IsBot {
			controllers[i] = Bot{}
		} else {
			controllers[i] = Human{}
		}
	}

	m.Teardown()
	m.ID = uuid.New().String()
	m.board = board
	m.spawns = spawns
	m.players = players
	m.controllers = controllers
	m.status = StatusRunning
	m.result = Result{Winner: NoPlayer}
	for _, p := range players {
		m.emit(Event{Kind: EventPlayerMoved, Player: p.ID, X: p.X, Y: p.Y})
		m.emit(Event{Kind: EventPlayerAnimation, Player: p.ID, Anim: p.Anim, Facing: p.Facing})
	}
	m.log.Infow("round initialized", "match", m.ID, "width", board.Width(), "height", board.Height(),
		"humans", humanCount, "bots", botCount, "spawnpoints", len(spawns))
	return nil
}

// SetController replaces the decision strategy of a player.
func (m *Match) SetController(id PlayerID, c Controller) error {
	if _, err := m.player(id); err != nil {
		return err
	}
	m.controllers[id] = c
	return nil
}

func (m *Match) player(id PlayerID) (*Player, error) {
	if id < 0 || int(id) >= len(m.players) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPlayer, id)
	}
	return m.players[id], nil
}

// SetPlayerMoving sets or clears one direction bit of a player's intent.
func (m *Match) SetPlayerMoving(id PlayerID, dir Direction, active bool) error {
	p, err := m.player(id)
	if err != nil {
		return err
	}
	if !p.Alive {
		return nil
	}
	p.Moving = p.Moving.With(dir, active)
	return nil
}

// DropBomb asks for a bomb under the player. Drops that are not allowed
// right now are ignored without error.
func (m *Match) DropBomb(id PlayerID) error {
	p, err := m.player(id)
	if err != nil {
		return err
	}
	m.dropBomb(p)
	return nil
}

// Tick advances the round by one step and returns the render events
// produced since the previous call. A paused, finished or idle match does
// not advance.
func (m *Match) Tick() []Event {
	if m.status != StatusRunning {
		return m.drainEvents()
	}
	m.now += m.cfg.TickStep
	m.stats.Ticks++

	for i, p := range m.players {
		if !p.Alive {
			continue
		}
		d := m.controllers[i].Decide(m, p)
		if !d.Keep {
			p.Moving = d.Move
		}
		if d.Drop {
			m.dropBomb(p)
		}
	}

	for _, p := range m.players {
		if !p.Alive {
			continue
		}
		m.movePlayer(p)
		m.collectPickup(p)
	}

	m.schedule.RunDue(m.now)
	m.checkRoundEnd()
	return m.drainEvents()
}

// checkRoundEnd finishes the round once fewer than two players are alive.
func (m *Match) checkRoundEnd() {
	if m.status != StatusRunning {
		return
	}
	var alive []*Player
	for _, p := range m.players {
		if p.Alive {
			alive = append(alive, p)
		}
	}
	switch len(alive) {
	case 0:
		m.result = Result{Winner: NoPlayer, Tie: true}
	case 1:
		m.result = Result{Winner: alive[0].ID}
	default:
		return
	}
	m.status = StatusOver
	m.schedule.Clear()
	res := m.result
	m.emit(Event{Kind: EventRoundEnded, Player: res.Winner, Result: &res})
	m.log.Infow("round ended", "match", m.ID, "winner", res.Winner, "tie", res.Tie,
		"ticks", m.stats.Ticks, "bombs", m.stats.BombsDropped, "detonations", m.stats.Detonations)
}

// Pause freezes a running round: the clock, fuses and movement stop. It
// reports whether the status changed.
func (m *Match) Pause() bool {
	if m.status != StatusRunning {
		return false
	}
	m.status = StatusPaused
	return true
}

// Resume continues a paused round and reports whether the status changed.
func (m *Match) Resume() bool {
	if m.status != StatusPaused {
		return false
	}
	m.status = StatusRunning
	return true
}

// Teardown discards pending detonations and clears bombs and players. The
// match is idle afterwards until the next Initialize.
func (m *Match) Teardown() {
	m.schedule.Clear()
	m.bombs = make(map[Position]*Bomb)
	m.players = nil
	m.controllers = nil
	m.board = nil
	m.spawns = nil
	m.outbox = nil
	m.now = 0
	m.stats = MatchStats{}
	m.status = StatusIdle
	m.result = Result{Winner: NoPlayer}
}

// Status returns the match phase.
func (m *Match) Status() Status { return m.status }

// Result returns the outcome of a finished round.
func (m *Match) Result() Result { return m.result }

// Now returns the match clock.
func (m *Match) Now() time.Duration { return m.now }

// Config returns the match configuration.
func (m *Match) Config() GameConfig { return m.cfg }

// Board returns the live board. Callers must not mutate it.
func (m *Match) Board() *Board { return m.board }

// Spawnpoints returns the spawn candidates extracted at Initialize.
func (m *Match) Spawnpoints() []Position {
	out := make([]Position, len(m.spawns))
	copy(out, m.spawns)
	return out
}

// Player returns the live record of a player.
func (m *Match) Player(id PlayerID) (*Player, error) { return m.player(id) }

// Players returns the live player records in roster order.
func (m *Match) Players() []*Player { return m.players }

// Stats returns the round statistics.
func (m *Match) Stats() MatchStats { return m.stats }

// Bombs returns copies of the live bombs ordered by detonation time.
func (m *Match) Bombs() []Bomb {
	out := make([]Bomb, 0, len(m.bombs))
	for _, b := range m.bombs {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ExplodesAt != out[j].ExplodesAt {
			return out[i].ExplodesAt < out[j].ExplodesAt
		}
		if out[i].Pos.Y != out[j].Pos.Y {
			return out[i].Pos.Y < out[j].Pos.Y
		}
		return out[i].Pos.X < out[j].Pos.X
	})
	return out
}

// Snapshot is a deep copy of the match state, safe to hand to other
// goroutines.
type Snapshot struct {
	MatchID string        `json:"match_id"`
	Board   [][]Tile      `json:"board"`
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	Players []Player      `json:"players"`
	Bombs   []Bomb        `json:"bombs"`
	Now     time.Duration `json:"now"`
	Status  Status        `json:"status"`
	Result  Result        `json:"result"`
	Stats   MatchStats    `json:"stats"`
}

// Snapshot returns a deep copy of the current state.
func (m *Match) Snapshot() Snapshot {
	s := Snapshot{
		MatchID: m.ID,
		Bombs:   m.Bombs(),
		Now:     m.now,
		Status:  m.status,
		Result:  m.result,
		Stats:   m.stats,
	}
	if m.board != nil {
		s.Board = m.board.Rows()
		s.Width = m.board.Width()
		s.Height = m.board.Height()
	}
	s.Players = make([]Player, len(m.players))
	for i, p := range m.players {
		s.Players[i] = *p
	}
	return s
}

package game

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// ActionType represents the type of an input event.
type ActionType int

const (
	ActionMove ActionType = iota // Set or clear one direction bit
	ActionDropBomb
	ActionPause
	ActionResume
)

// Action is an input event delivered by the frontend.
type Action struct {
	Player PlayerID
	Type   ActionType
	Dir    Direction // Only relevant for ActionMove
	Active bool      // Only relevant for ActionMove
}

// Frame is what the engine hands to its OnTick callback: the events of one
// tick and a copy of the state after it.
type Frame struct {
	Events []Event
	State  Snapshot
}

// Engine drives a Match at a fixed tick rate. Input from other goroutines
// is queued and applied at the start of the next tick, so the match has a
// single writer.
type Engine struct {
	match   *Match
	actions chan Action
	done    chan struct{}
	stop    sync.Once
	mu      sync.Mutex
	onTick  func(Frame) // Callback after each tick with a COPY of state
	metrics *Metrics
	log     *zap.SugaredLogger
}

// NewEngine creates an engine around match.
func NewEngine(match *Match, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{
		match:   match,
		actions: make(chan Action, 256),
		done:    make(chan struct{}),
		metrics: &Metrics{},
		log:     log,
	}
}

// OnTick sets a callback that is invoked after every tick. It must be set
// before Run.
func (e *Engine) OnTick(fn func(Frame)) {
	e.onTick = fn
}

// Metrics returns the engine's runtime counters.
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// Start begins a new round. A malformed map leaves the running round as it was.
func (e *Engine) Start(humans, bots int, rows [][]int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.match.Initialize(humans, bots, rows); err != nil {
		e.log.Warnw("round not started", "error", err)
		return err
	}
	// Inputs queued for the previous round must not leak into this one.
	e.discardActions()
	e.log.Infow("round started", "match", e.match.ID, "humans", humans, "bots", bots)
	return nil
}

// Run ticks the match at its configured rate. It blocks until Stop is called.
func (e *Engine) Run() {
	ticker := time.NewTicker(e.match.Config().TickStep)
	defer ticker.Stop()

	for {
		select {
		case <-e.done:
			return
		case <-ticker.C:
			e.tick()
		}
	}
}

// Stop halts the loop and tears the match down. Pending detonations are
// discarded.
func (e *Engine) Stop() {
	e.stop.Do(func() {
		close(e.done)
		e.mu.Lock()
		e.match.Teardown()
		e.mu.Unlock()
		e.log.Info("engine stopped")
	})
}

// EnqueueAction queues an input event for the next tick.
func (e *Engine) EnqueueAction(a Action) {
	select {
	case e.actions <- a:
		e.metrics.IncAccepted()
	default:
		// Drop action if buffer is full (prevents blocking)
		e.metrics.IncDropped()
	}
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.match.Snapshot()
}

// tick drains input, advances the match and publishes the frame.
// The callback runs after the lock is released since it may call back
// into the engine.
func (e *Engine) tick() {
	start := time.Now()
	e.mu.Lock()
	e.drainActions()
	events := e.match.Tick()
	frame := Frame{Events: events, State: e.match.Snapshot()}
	e.mu.Unlock()
	e.metrics.AddTick(time.Since(start).Nanoseconds())

	if e.onTick != nil {
		e.onTick(frame)
	}
}

// drainActions applies all queued input events.
func (e *Engine) drainActions() {
	for {
		select {
		case a := <-e.actions:
			e.apply(a)
		default:
			return
		}
	}
}

func (e *Engine) discardActions() {
	for {
		select {
		case <-e.actions:
		default:
			return
		}
	}
}

func (e *Engine) apply(a Action) {
	var err error
	switch a.Type {
	case ActionMove:
		err = e.match.SetPlayerMoving(a.Player, a.Dir, a.Active)
	case ActionDropBomb:
		err = e.match.DropBomb(a.Player)
	case ActionPause:
		if e.match.Pause() {
			e.log.Infow("round paused", "match", e.match.ID)
		}
	case ActionResume:
		if e.match.Resume() {
			e.log.Infow("round resumed", "match", e.match.ID)
		}
	}
	if err != nil {
		e.metrics.IncRejected()
		e.log.Warnw("action rejected", "player", a.Player, "type", a.Type, "error", err)
	}
}

package game

import "sync/atomic"

// Metrics records engine runtime counters. Safe for concurrent use.
type Metrics struct {
	TickCount       int64 // Ticks run
	TotalTickNs     int64 // Accumulated tick time
	ActionsAccepted int64 // Input events queued
	ActionsDropped  int64 // Input events lost to a full queue
	ActionsRejected int64 // Input events for unknown players
}

func (m *Metrics) IncAccepted() { atomic.AddInt64(&m.ActionsAccepted, 1) }
func (m *Metrics) IncDropped()  { atomic.AddInt64(&m.ActionsDropped, 1) }
func (m *Metrics) IncRejected() { atomic.AddInt64(&m.ActionsRejected, 1) }
func (m *Metrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot returns a read-only copy for HTTP output.
func (m *Metrics) Snapshot() map[string]any {
	ticks := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if ticks > 0 {
		avgMs = float64(total) / float64(ticks) / 1e6
	}
	return map[string]any{
		"tick_count":       ticks,
		"avg_tick_ms":      avgMs,
		"actions_accepted": atomic.LoadInt64(&m.ActionsAccepted),
		"actions_dropped":  atomic.LoadInt64(&m.ActionsDropped),
		"actions_rejected": atomic.LoadInt64(&m.ActionsRejected),
	}
}

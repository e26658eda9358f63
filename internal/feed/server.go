package feed

import (
	"encoding/json"
	"net/http"

	"github.com/amalg/bomb-arena/internal/game"
)

// NewHandler routes the spectator feed and monitoring endpoints:
//
//	/ws       spectator WebSocket
//	/metrics  engine counters and match statistics (JSON)
//	/healthz  liveness
func NewHandler(hub *Hub, engine *game.Engine) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		snap := engine.Snapshot()
		payload := map[string]any{
			"match":      snap.MatchID,
			"status":     snap.Status.String(),
			"now_ms":     snap.Now.Milliseconds(),
			"stats":      snap.Stats,
			"engine":     engine.Metrics().Snapshot(),
			"spectators": hub.ClientCount(),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

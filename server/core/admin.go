package core

import (
	"encoding/json"
	"net/http"

	"github.com/tracerfps/tracer/config"
)

// AdminHandler serves /metrics, /healthz and /state. Handlers only read
// atomic counters and the last published snapshot, never the live world.
func (s *Server) AdminHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/state", s.handleState)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// GET /metrics
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	level := ""
	if s.level != nil {
		level = s.level.Name
	}
	payload := map[string]any{
		"server":    config.Server.Name,
		"level":     level,
		"tick_rate": config.Server.TickRate,
		"queue_len": s.sim.Queue.Len(),
		"metrics":   s.sim.Stats.Snapshot(),
	}
	writeJSON(w, payload)
}

// GET /state returns the last published snapshot.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.sim.LastSnapshot())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

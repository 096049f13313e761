package state

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/smslycloud/codeweb/log"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Health reports whether the session store is reachable. It does not
// call the code API.
func (s *State) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		log.FromContext(r.Context()).Error("session store unreachable", "error", err)
		writeError(w, "session store unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"api":    s.config.APIEndpoint,
	})
}

package bridge

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/muurk/tl50ctl/internal/logging"
	"github.com/muurk/tl50ctl/internal/version"
)

// Health is the /healthz response body.
type Health struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Commit      string `json:"commit"`
	Port        string `json:"port,omitempty"`
	Connections int    `json:"connections"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	info := version.Get()
	writeJSON(w, http.StatusOK, Health{
		Status:      "ok",
		Version:     info.Version,
		Commit:      info.Commit,
		Port:        s.config.Port,
		Connections: s.ActiveConnections(),
	})
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	names := []string{}
	if s.presets != nil {
		names = s.presets.PresetNames()
	}
	writeJSON(w, http.StatusOK, map[string][]string{"presets": names})
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Debug("Failed to write HTTP response", zap.Error(err))
	}
}

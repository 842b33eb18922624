package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lunchwheel/internal/common"
)

// APIHandler serves the system routes: version, health and the JSON 404
type APIHandler struct {
	state     WheelState
	clients   func() int
	startedAt time.Time
	logger    arbor.ILogger
}

// NewAPIHandler reports wheel state from state; clients may be nil when no popups can connect
func NewAPIHandler(state WheelState, clients func() int, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		state:     state,
		clients:   clients,
		startedAt: time.Now(),
		logger:    logger,
	}
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"name":       "lunchwheel",
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"git_commit": common.GetGitCommit(),
	})
}

// HealthHandler reports liveness plus what the popup would currently see
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	health := map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	}
	if h.state != nil {
		health["wheel_options"] = len(h.state.Wheel())
		health["progress"] = h.state.Progress()
	}
	if h.clients != nil {
		health["popups"] = h.clients()
	}

	WriteJSON(w, http.StatusOK, health)
}

// NotFoundHandler answers unmatched routes with a JSON 404
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "The requested endpoint does not exist",
	})
}

package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lunchwheel/internal/models"
)

// HistoryHandler lists and clears wheel landings
type HistoryHandler struct {
	history HistoryService
	logger  arbor.ILogger
}

func NewHistoryHandler(history HistoryService, logger arbor.ILogger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		logger:  logger,
	}
}

// ListHistoryHandler handles GET /api/history, oldest first
func (h *HistoryHandler) ListHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	entries, err := h.history.History(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// ClearHistoryHandler handles DELETE /api/history
func (h *HistoryHandler) ClearHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	if err := h.history.ClearHistory(r.Context()); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to clear history")
		return
	}

	WriteSuccess(w, "History cleared")
}

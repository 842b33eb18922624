package handlers

import (
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lunchwheel/internal/services/settings"
)

// SettingsHandler reads and saves the search settings
type SettingsHandler struct {
	settings SettingsService
	logger   arbor.ILogger
}

func NewSettingsHandler(settings SettingsService, logger arbor.ILogger) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
		logger:   logger,
	}
}

type settingsRequest struct {
	Distance *float64 `json:"distance"`
	Price    *string  `json:"price"`
}

// GetSettingsHandler handles GET /api/settings
func (h *SettingsHandler) GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	current, err := h.settings.Settings(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to load settings")
		WriteError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	WriteJSON(w, http.StatusOK, current)
}

// SaveSettingsHandler handles PUT|POST /api/settings. Both fields are required.
func (h *SettingsHandler) SaveSettingsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req settingsRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Distance == nil || req.Price == nil {
		WriteError(w, http.StatusBadRequest, "distance and price are required")
		return
	}

	if err := h.settings.SaveSettings(r.Context(), *req.Distance, *req.Price); err != nil {
		if errors.Is(err, settings.ErrInvalidSettings) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error().Err(err).Msg("Failed to save settings")
		WriteError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	WriteSuccess(w, "Settings saved")
}

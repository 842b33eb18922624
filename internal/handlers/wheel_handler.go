package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lunchwheel/internal/services/picker"
)

// WheelHandler serves the wheel, refreshes it and records landings
type WheelHandler struct {
	wheel  WheelService
	logger arbor.ILogger
}

func NewWheelHandler(wheel WheelService, logger arbor.ILogger) *WheelHandler {
	return &WheelHandler{
		wheel:  wheel,
		logger: logger,
	}
}

// GetWheelHandler handles GET /api/wheel
func (h *WheelHandler) GetWheelHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"options":  h.wheel.Wheel(),
		"progress": h.wheel.Progress(),
	})
}

// RestaurantsHandler handles GET /api/wheel/restaurants with the details behind the wheel
func (h *WheelHandler) RestaurantsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	restaurants := h.wheel.Restaurants()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"restaurants": restaurants,
		"count":       len(restaurants),
	})
}

// RefreshHandler handles POST /api/wheel/refresh. The result arrives over the WebSocket.
func (h *WheelHandler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	h.wheel.StartFetch(r.Context())
	WriteStarted(w, "Fetching restaurants")
}

type selectRequest struct {
	Name string `json:"name"`
}

// SelectHandler handles POST /api/wheel/select with the option the spin landed on
func (h *WheelHandler) SelectHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req selectRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	// Names are matched exactly as drawn; whitespace only counts for emptiness
	if strings.TrimSpace(req.Name) == "" {
		WriteError(w, http.StatusBadRequest, "name is required")
		return
	}

	option, err := h.wheel.Option(req.Name)
	if err != nil {
		if errors.Is(err, picker.ErrUnknownOption) {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to resolve option")
		return
	}

	entry, err := h.wheel.RecordSelection(r.Context(), option)
	if err != nil {
		h.logger.Error().Err(err).Str("name", option.Name).Msg("Failed to record selection")
		WriteError(w, http.StatusInternalServerError, "Failed to record selection")
		return
	}

	WriteJSON(w, http.StatusCreated, entry)
}

package handlers

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lunchwheel/internal/interfaces"
	"github.com/ternarybob/lunchwheel/internal/models"
)

// Geolocation error codes the popup may report
const (
	LocationErrorPermissionDenied    = "permission_denied"
	LocationErrorPositionUnavailable = "position_unavailable"
)

// LocationHandler receives browser geolocation results from the popup.
// Every report publishes EventLocation, which starts a fetch cycle.
type LocationHandler struct {
	reporter     LocationReporter
	eventService interfaces.EventService
	validate     *validator.Validate
	logger       arbor.ILogger
}

// NewLocationHandler creates a location handler. reporter may be nil when the
// position comes from configuration; reports then only trigger a fetch.
func NewLocationHandler(reporter LocationReporter, eventService interfaces.EventService, logger arbor.ILogger) *LocationHandler {
	return &LocationHandler{
		reporter:     reporter,
		eventService: eventService,
		validate:     validator.New(),
		logger:       logger,
	}
}

type locationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Error     string   `json:"error,omitempty"`
}

// ReportLocationHandler handles POST /api/location
func (h *LocationHandler) ReportLocationHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req locationRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var payload interface{}
	switch req.Error {
	case "":
		if req.Latitude == nil || req.Longitude == nil {
			WriteError(w, http.StatusBadRequest, "latitude and longitude are required")
			return
		}
		if h.validate.Var(*req.Latitude, "latitude") != nil || h.validate.Var(*req.Longitude, "longitude") != nil {
			WriteError(w, http.StatusBadRequest, "latitude or longitude out of range")
			return
		}

		position := models.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
		if h.reporter != nil {
			h.reporter.Report(position)
		}
		payload = position

	case LocationErrorPermissionDenied, LocationErrorPositionUnavailable:
		err := interfaces.ErrPermissionDenied
		if req.Error == LocationErrorPositionUnavailable {
			err = interfaces.ErrPositionUnavailable
		}
		if h.reporter != nil {
			h.reporter.ReportError(err)
		}
		payload = err

	default:
		WriteError(w, http.StatusBadRequest, "unknown location error: "+req.Error)
		return
	}

	err := h.eventService.Publish(context.WithoutCancel(r.Context()), interfaces.Event{
		Type:    interfaces.EventLocation,
		Payload: payload,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to publish location event")
		WriteError(w, http.StatusInternalServerError, "Failed to start fetch")
		return
	}

	WriteStarted(w, "Fetching restaurants")
}

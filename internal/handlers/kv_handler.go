package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lunchwheel/internal/interfaces"
	"github.com/ternarybob/lunchwheel/internal/services/kv"
)

// KVServiceInterface defines the methods needed from the KV service
type KVServiceInterface interface {
	Status(ctx context.Context, name string) (kv.KeyStatus, error)
	Set(ctx context.Context, name, value string) error
	Delete(ctx context.Context, name string) error
}

// KVHandler manages stored API keys. Values are never returned unmasked.
type KVHandler struct {
	kvService KVServiceInterface
	logger    arbor.ILogger
}

// NewKVHandler creates a new KV handler for managing API keys
func NewKVHandler(kvService KVServiceInterface, logger arbor.ILogger) *KVHandler {
	return &KVHandler{
		kvService: kvService,
		logger:    logger,
	}
}

type setKeyRequest struct {
	Value string `json:"value"`
}

// keyFromPath extracts the key from /api/keys/{key}
func keyFromPath(path string) (string, error) {
	encoded := strings.TrimPrefix(path, "/api/keys/")
	return url.QueryUnescape(encoded)
}

// GetKeyHandler handles GET /api/keys/{key}
func (h *KVHandler) GetKeyHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	key, err := keyFromPath(r.URL.Path)
	if err != nil || key == "" {
		WriteError(w, http.StatusBadRequest, "Invalid key")
		return
	}

	status, err := h.kvService.Status(r.Context(), key)
	if err != nil {
		h.writeKeyError(w, key, err)
		return
	}

	response := map[string]interface{}{
		"name":        status.Name,
		"description": status.Description,
		"configured":  status.Configured,
		"source":      status.Source,
	}
	if status.Configured {
		response["value"] = maskValue(status.Value)
	}

	WriteJSON(w, http.StatusOK, response)
}

// SetKeyHandler handles PUT /api/keys/{key}
func (h *KVHandler) SetKeyHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	key, err := keyFromPath(r.URL.Path)
	if err != nil || key == "" {
		WriteError(w, http.StatusBadRequest, "Invalid key")
		return
	}

	var req setKeyRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.kvService.Set(r.Context(), key, req.Value); err != nil {
		h.writeKeyError(w, key, err)
		return
	}

	WriteSuccess(w, "Key stored")
}

// DeleteKeyHandler handles DELETE /api/keys/{key}
func (h *KVHandler) DeleteKeyHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	key, err := keyFromPath(r.URL.Path)
	if err != nil || key == "" {
		WriteError(w, http.StatusBadRequest, "Invalid key")
		return
	}

	if err := h.kvService.Delete(r.Context(), key); err != nil {
		h.writeKeyError(w, key, err)
		return
	}

	WriteSuccess(w, "Key deleted")
}

func (h *KVHandler) writeKeyError(w http.ResponseWriter, key string, err error) {
	switch {
	case errors.Is(err, kv.ErrUnknownKey), errors.Is(err, interfaces.ErrKeyNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, kv.ErrEmptyValue):
		WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Str("key", key).Msg("Key operation failed")
		WriteError(w, http.StatusInternalServerError, "Key operation failed")
	}
}

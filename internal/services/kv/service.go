package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lunchwheel/internal/interfaces"
)

var (
	// ErrUnknownKey is returned for keys that were never registered
	ErrUnknownKey = errors.New("unknown key")

	// ErrEmptyValue is returned when storing a blank value
	ErrEmptyValue = errors.New("value cannot be empty")
)

// KeySource says where a key's effective value comes from
type KeySource string

const (
	SourceEnvironment KeySource = "environment"
	SourceStore       KeySource = "store"
	SourceConfig      KeySource = "config"
	SourceNone        KeySource = ""
)

// KeyStatus describes a registered key without exposing its value
type KeyStatus struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Configured  bool      `json:"configured"`
	Source      KeySource `json:"source,omitempty"`
	Value       string    `json:"-"`
}

type registration struct {
	description    string
	envVar         string
	configFallback string
}

// Service manages secrets kept in the key/value store, such as the Places API key.
// Lookups follow the same order as common.ResolveAPIKey: environment, store, config.
type Service struct {
	storage interfaces.KeyValueStorage
	logger  arbor.ILogger

	mu   sync.RWMutex
	keys map[string]registration
}

// NewService creates a new key/value service
func NewService(storage interfaces.KeyValueStorage, logger arbor.ILogger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
		keys:    make(map[string]registration),
	}
}

// Register makes name manageable through the service
func (s *Service) Register(name, description, envVar, configFallback string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys[strings.ToLower(name)] = registration{
		description:    description,
		envVar:         envVar,
		configFallback: configFallback,
	}
}

func (s *Service) lookup(name string) (registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reg, ok := s.keys[strings.ToLower(name)]
	if !ok {
		return registration{}, fmt.Errorf("%w: %s", ErrUnknownKey, name)
	}
	return reg, nil
}

// Status reports whether name has a value and where it comes from
func (s *Service) Status(ctx context.Context, name string) (KeyStatus, error) {
	reg, err := s.lookup(name)
	if err != nil {
		return KeyStatus{}, err
	}

	status := KeyStatus{Name: name, Description: reg.description}

	if reg.envVar != "" {
		if value := os.Getenv(reg.envVar); value != "" {
			status.Configured, status.Source, status.Value = true, SourceEnvironment, value
			return status, nil
		}
	}

	value, err := s.storage.Get(ctx, name)
	switch {
	case err == nil && value != "":
		status.Configured, status.Source, status.Value = true, SourceStore, value
		return status, nil
	case err != nil && !errors.Is(err, interfaces.ErrKeyNotFound):
		s.logger.Error().Err(err).Str("key", name).Msg("Failed to get key/value pair")
		return KeyStatus{}, err
	}

	if reg.configFallback != "" {
		status.Configured, status.Source, status.Value = true, SourceConfig, reg.configFallback
	}
	return status, nil
}

// Set stores value for name
func (s *Service) Set(ctx context.Context, name, value string) error {
	reg, err := s.lookup(name)
	if err != nil {
		return err
	}
	if strings.TrimSpace(value) == "" {
		return ErrEmptyValue
	}

	if err := s.storage.Set(ctx, name, value, reg.description); err != nil {
		s.logger.Error().Err(err).Str("key", name).Msg("Failed to store key/value pair")
		return err
	}

	s.logger.Info().Str("key", name).Msg("Stored key/value pair")
	return nil
}

// Delete removes the stored value for name. Environment and config values are untouched.
func (s *Service) Delete(ctx context.Context, name string) error {
	if _, err := s.lookup(name); err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, name); err != nil {
		if !errors.Is(err, interfaces.ErrKeyNotFound) {
			s.logger.Error().Err(err).Str("key", name).Msg("Failed to delete key/value pair")
		}
		return err
	}

	s.logger.Info().Str("key", name).Msg("Deleted key/value pair")
	return nil
}

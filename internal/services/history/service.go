package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lunchwheel/internal/interfaces"
	"github.com/ternarybob/lunchwheel/internal/models"
)

// Service records and lists wheel landings
type Service struct {
	storage interfaces.HistoryStorage
	now     func() time.Time
	logger  arbor.ILogger
}

// NewService creates a new history service
func NewService(storage interfaces.HistoryStorage, logger arbor.ILogger) *Service {
	return &Service{
		storage: storage,
		now:     time.Now,
		logger:  logger,
	}
}

// Record appends a landing for option. Repeats are kept.
func (s *Service) Record(ctx context.Context, option models.WheelOption) (*models.HistoryEntry, error) {
	entry := &models.HistoryEntry{
		ID:        uuid.New().String(),
		Name:      option.Name,
		Link:      option.MapLink,
		Timestamp: s.now(),
	}

	if err := s.storage.Append(ctx, entry); err != nil {
		s.logger.Error().Err(err).Str("name", option.Name).Msg("Failed to record selection")
		return nil, fmt.Errorf("failed to record selection: %w", err)
	}

	s.logger.Info().Str("name", entry.Name).Str("id", entry.ID).Msg("Selection recorded")
	return entry, nil
}

// List returns the full history, oldest first
func (s *Service) List(ctx context.Context) ([]models.HistoryEntry, error) {
	entries, err := s.storage.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list history")
		return nil, err
	}
	return entries, nil
}

// Clear empties the history. Clearing an empty history is a no-op.
func (s *Service) Clear(ctx context.Context) error {
	removed, err := s.storage.Clear(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to clear history")
		return fmt.Errorf("failed to clear history: %w", err)
	}

	s.logger.Info().Int("removed", removed).Msg("History cleared")
	return nil
}

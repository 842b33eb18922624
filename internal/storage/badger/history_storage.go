package badger

import (
	"context"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lunchwheel/internal/interfaces"
	"github.com/ternarybob/lunchwheel/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// HistoryStorage implements the HistoryStorage interface for Badger
type HistoryStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewHistoryStorage creates a new HistoryStorage instance
func NewHistoryStorage(db *BadgerDB, logger arbor.ILogger) interfaces.HistoryStorage {
	return &HistoryStorage{
		db:     db,
		logger: logger,
	}
}

// Append stores a new entry keyed by its ID
func (s *HistoryStorage) Append(ctx context.Context, entry *models.HistoryEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("history entry ID is required")
	}

	if err := s.db.Store().Insert(entry.ID, entry); err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

// List returns every entry ordered by timestamp, oldest first
func (s *HistoryStorage) List(ctx context.Context) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	if err := s.db.Store().Find(&entries, (&badgerhold.Query{}).SortBy("Timestamp")); err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	return entries, nil
}

// clearBatchSize bounds each delete transaction below badger's size limit
const clearBatchSize = 500

// Clear removes every entry. Each batch is found and deleted inside one read-write
// transaction, and batches repeat until a find comes back empty.
func (s *HistoryStorage) Clear(ctx context.Context) (int, error) {
	store := s.db.Store()
	removed := 0

	for {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		batch := 0
		err := store.Badger().Update(func(tx *badgerdb.Txn) error {
			var entries []models.HistoryEntry
			if err := store.TxFind(tx, &entries, (&badgerhold.Query{}).Limit(clearBatchSize)); err != nil {
				return fmt.Errorf("failed to list history for deletion: %w", err)
			}
			for _, entry := range entries {
				if err := store.TxDelete(tx, entry.ID, &models.HistoryEntry{}); err != nil {
					return fmt.Errorf("failed to delete history entry %s: %w", entry.ID, err)
				}
			}
			batch = len(entries)
			return nil
		})
		if err != nil {
			return removed, err
		}

		removed += batch
		if batch < clearBatchSize {
			break
		}
	}

	s.logger.Debug().Int("count", removed).Msg("Cleared history")
	return removed, nil
}

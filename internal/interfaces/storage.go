package interfaces

import (
	"context"

	"github.com/ternarybob/lunchwheel/internal/models"
)

// HistoryStorage persists wheel landings
type HistoryStorage interface {
	// Append stores a new entry; entries are never updated
	Append(ctx context.Context, entry *models.HistoryEntry) error

	// List returns every entry, oldest first
	List(ctx context.Context) ([]models.HistoryEntry, error)

	// Clear removes every entry and returns how many were removed
	Clear(ctx context.Context) (int, error)
}

// StorageManager gives access to all storage backends
type StorageManager interface {
	KeyValueStorage() KeyValueStorage
	HistoryStorage() HistoryStorage

	// LoadEnvFile copies KEY=value lines into the key/value store
	LoadEnvFile(ctx context.Context, filePath string) error

	Close() error
}

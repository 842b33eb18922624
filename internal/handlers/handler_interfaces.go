package handlers

import (
	"context"

	"github.com/ternarybob/lunchwheel/internal/models"
)

// WheelService is what the wheel handlers need from the picker
type WheelService interface {
	Wheel() []models.WheelOption
	Progress() models.ProgressUpdate
	Restaurants() []models.RestaurantRecord
	StartFetch(ctx context.Context)
	Option(name string) (models.WheelOption, error)
	RecordSelection(ctx context.Context, option models.WheelOption) (*models.HistoryEntry, error)
}

// SettingsService is what the settings handler needs from the picker
type SettingsService interface {
	Settings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, distance float64, price string) error
}

// HistoryService is what the history handler needs from the picker
type HistoryService interface {
	History(ctx context.Context) ([]models.HistoryEntry, error)
	ClearHistory(ctx context.Context) error
}

// LocationReporter accepts geolocation results from the popup
type LocationReporter interface {
	Report(position models.Coordinates)
	ReportError(err error)
}

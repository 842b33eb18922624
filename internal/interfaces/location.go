package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/lunchwheel/internal/models"
)

var (
	// ErrPermissionDenied is returned when the user refused location access
	ErrPermissionDenied = errors.New("location permission denied")

	// ErrPositionUnavailable is returned when no usable position is known
	ErrPositionUnavailable = errors.New("position unavailable")
)

// LocationProvider yields the user's current position
type LocationProvider interface {
	CurrentPosition(ctx context.Context) (models.Coordinates, error)
}

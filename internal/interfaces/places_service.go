package interfaces

import (
	"context"

	"github.com/ternarybob/lunchwheel/internal/models"
)

// PlacesService defines the interface for Google Places API operations
type PlacesService interface {
	// NearbySearch issues exactly one Nearby Search request.
	// An empty slice with a nil error means the API found nothing.
	NearbySearch(ctx context.Context, req *models.NearbySearchRequest) ([]models.PlaceItem, error)
}

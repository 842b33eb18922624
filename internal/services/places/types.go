package places

// PlacesNearbySearchResponse represents the Google Places Nearby Search API response
type PlacesNearbySearchResponse struct {
	HTMLAttributions []string      `json:"html_attributions"`
	Results          []PlaceResult `json:"results"`
	Status           string        `json:"status"`
	ErrorMessage     string        `json:"error_message,omitempty"`
	NextPageToken    string        `json:"next_page_token,omitempty"`
}

// PlaceResult represents a single place result from Google Places API
type PlaceResult struct {
	BusinessStatus string    `json:"business_status,omitempty"`
	Geometry       *Geometry `json:"geometry,omitempty"`
	Name           string    `json:"name"`
	PlaceID        string    `json:"place_id"`
	PriceLevel     *int      `json:"price_level,omitempty"` // absent for venues without price data
	Rating         float64   `json:"rating,omitempty"`
	Types          []string  `json:"types,omitempty"`
	Vicinity       string    `json:"vicinity,omitempty"`
}

// Geometry represents the geometry information of a place
type Geometry struct {
	Location *LatLng `json:"location,omitempty"`
}

// LatLng represents a geographic coordinate
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Status values returned by the Places API
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
)

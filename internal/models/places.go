package models

// NearbySearchRequest holds the parameters of one Places Nearby Search call
type NearbySearchRequest struct {
	Location     Coordinates `json:"location"`
	RadiusMeters float64     `json:"radius"`
	Type         string      `json:"type,omitempty"`
	Keyword      string      `json:"keyword,omitempty"`
	MinPrice     string      `json:"minprice,omitempty"`
	MaxPrice     string      `json:"maxprice,omitempty"`
}

// PlaceItem is a venue returned by the places service
type PlaceItem struct {
	PlaceID    string  `json:"place_id"`
	Name       string  `json:"name"`
	PriceLevel *int    `json:"price_level,omitempty"` // nil when the API omits it
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

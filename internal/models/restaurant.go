package models

// Coordinates is a position reported by the location provider
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RestaurantRecord is a normalized venue from one fetch cycle.
// Distance echoes the requested search radius in miles; it is not the distance to the venue.
type RestaurantRecord struct {
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
	Price    string  `json:"price"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	PlaceID  string  `json:"place_id"`
	MapLink  string  `json:"map_link"`
}

// WheelOption is one segment drawn on the wheel
type WheelOption struct {
	Name    string `json:"name"`
	MapLink string `json:"map_link"`
}

// Option projects a record onto its wheel segment
func (r RestaurantRecord) Option() WheelOption {
	return WheelOption{
		Name:    r.Name,
		MapLink: r.MapLink,
	}
}

package models

// Settings holds the user's persisted search preferences
type Settings struct {
	Distance float64 `json:"distance" validate:"finite,gt=0"`      // Search radius in miles
	Price    string  `json:"price" validate:"required,pricerange"` // "<min>,<max>" with each bound in 1..4
}

// Settings keys in the key/value store
const (
	SettingsKeyDistance = "distance"
	SettingsKeyPrice    = "price"
)

// DefaultSettings returns the settings used when the store holds nothing
func DefaultSettings() Settings {
	return Settings{
		Distance: 0.5,
		Price:    "2,3",
	}
}

// MinPrice returns the lower price bound, the first character of Price
func (s Settings) MinPrice() string {
	if len(s.Price) < 1 {
		return ""
	}
	return s.Price[0:1]
}

// MaxPrice returns the upper price bound, the third character of Price
func (s Settings) MaxPrice() string {
	if len(s.Price) < 3 {
		return ""
	}
	return s.Price[2:3]
}

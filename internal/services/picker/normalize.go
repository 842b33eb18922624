package picker

import (
	"math"
	"math/rand"
	"strings"

	"github.com/ternarybob/lunchwheel/internal/models"
)

// MetersPerMile is the conversion factor used for the search radius
const MetersPerMile = 1609.34

// unknownPrice labels venues without a usable price level
const unknownPrice = "Unknown"

// MilesToMeters converts a radius in miles to meters
func MilesToMeters(miles float64) float64 {
	return miles * MetersPerMile
}

// PriceLabel renders a Places price level as dollar signs.
// A missing or zero level is "Unknown".
func PriceLabel(level *int) string {
	if level == nil || *level <= 0 {
		return unknownPrice
	}
	return strings.Repeat("$", *level)
}

// MapLink builds the Google Maps link for a place id
func MapLink(placeID string) string {
	return "https://www.google.com/maps/place/?q=place_id:" + placeID
}

// Normalize converts raw places into records. Distance is the requested radius in miles,
// rounded to one decimal place.
func Normalize(items []models.PlaceItem, distance float64) []models.RestaurantRecord {
	distance = math.Round(distance*10) / 10
	records := make([]models.RestaurantRecord, 0, len(items))
	for _, item := range items {
		records = append(records, models.RestaurantRecord{
			Name:     item.Name,
			Distance: distance,
			Price:    PriceLabel(item.PriceLevel),
			Lat:      item.Latitude,
			Lng:      item.Longitude,
			PlaceID:  item.PlaceID,
			MapLink:  MapLink(item.PlaceID),
		})
	}
	return records
}

// Dedupe keeps the first record for each name, preserving order
func Dedupe(records []models.RestaurantRecord) []models.RestaurantRecord {
	seen := make(map[string]struct{}, len(records))
	unique := make([]models.RestaurantRecord, 0, len(records))
	for _, record := range records {
		if _, ok := seen[record.Name]; ok {
			continue
		}
		seen[record.Name] = struct{}{}
		unique = append(unique, record)
	}
	return unique
}

// SelectWheelOptions shuffles a copy of records and projects the first min(max, n)
func SelectWheelOptions(records []models.RestaurantRecord, max int, rng *rand.Rand) []models.WheelOption {
	shuffled := append([]models.RestaurantRecord(nil), records...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if max < 0 {
		max = 0
	}
	if len(shuffled) > max {
		shuffled = shuffled[:max]
	}

	options := make([]models.WheelOption, 0, len(shuffled))
	for _, record := range shuffled {
		options = append(options, record.Option())
	}
	return options
}

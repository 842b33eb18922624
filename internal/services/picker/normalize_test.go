package picker

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/lunchwheel/internal/models"
)

func intPtr(v int) *int { return &v }

func TestMilesToMeters(t *testing.T) {
	for _, miles := range []float64{0.1, 0.5, 1, 2.5, 10, 31.07} {
		assert.Equal(t, miles*1609.34, MilesToMeters(miles))
	}
}

func TestPriceLabel(t *testing.T) {
	assert.Equal(t, "Unknown", PriceLabel(nil))
	assert.Equal(t, "Unknown", PriceLabel(intPtr(0)))
	assert.Equal(t, "$", PriceLabel(intPtr(1)))
	assert.Equal(t, "$$$$", PriceLabel(intPtr(4)))
}

func TestNormalize(t *testing.T) {
	records := Normalize([]models.PlaceItem{
		{PlaceID: "p1", Name: "Green Bowl", PriceLevel: intPtr(2), Latitude: 1.5, Longitude: -2.5},
	}, 0.5)

	assert.Equal(t, []models.RestaurantRecord{{
		Name:     "Green Bowl",
		Distance: 0.5,
		Price:    "$$",
		Lat:      1.5,
		Lng:      -2.5,
		PlaceID:  "p1",
		MapLink:  "https://www.google.com/maps/place/?q=place_id:p1",
	}}, records)
}

func TestDedupeKeepsFirstOccurrence(t *testing.T) {
	records := []models.RestaurantRecord{
		{Name: "A", PlaceID: "a1"},
		{Name: "B", PlaceID: "b1"},
		{Name: "A", PlaceID: "a2"},
		{Name: "C", PlaceID: "c1"},
		{Name: "B", PlaceID: "b2"},
	}

	unique := Dedupe(records)

	assert.Len(t, unique, 3)
	assert.Equal(t, "A", unique[0].Name)
	assert.Equal(t, "a1", unique[0].PlaceID)
	assert.Equal(t, "B", unique[1].Name)
	assert.Equal(t, "b1", unique[1].PlaceID)
	assert.Equal(t, "C", unique[2].Name)
}

func TestSelectWheelOptionsSize(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for n := 0; n <= 12; n++ {
		t.Run(fmt.Sprintf("%d records", n), func(t *testing.T) {
			records := make([]models.RestaurantRecord, n)
			names := make(map[string]bool, n)
			for i := range records {
				records[i] = models.RestaurantRecord{Name: fmt.Sprintf("R%d", i), MapLink: fmt.Sprintf("link-%d", i)}
				names[records[i].Name] = true
			}

			options := SelectWheelOptions(records, 8, rng)

			assert.Len(t, options, min(8, n))
			seen := map[string]bool{}
			for _, option := range options {
				assert.True(t, names[option.Name], "option %s not in input", option.Name)
				assert.False(t, seen[option.Name], "option %s repeated", option.Name)
				seen[option.Name] = true
			}
		})
	}
}

func TestSelectWheelOptionsLeavesInputAlone(t *testing.T) {
	records := []models.RestaurantRecord{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	SelectWheelOptions(records, 8, rand.New(rand.NewSource(7)))
	assert.Equal(t, []string{"A", "B", "C"}, []string{records[0].Name, records[1].Name, records[2].Name})
}

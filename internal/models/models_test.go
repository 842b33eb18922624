package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	assert.Equal(t, 0.5, settings.Distance)
	assert.Equal(t, "2,3", settings.Price)
}

func TestSettingsPriceBounds(t *testing.T) {
	tests := []struct {
		price   string
		wantMin string
		wantMax string
	}{
		{"2,3", "2", "3"},
		{"1,4", "1", "4"},
		{"4,4", "4", "4"},
		{"", "", ""},
		{"3", "3", ""},
	}

	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			settings := Settings{Distance: 1, Price: tt.price}
			assert.Equal(t, tt.wantMin, settings.MinPrice())
			assert.Equal(t, tt.wantMax, settings.MaxPrice())
		})
	}
}

func TestRestaurantRecordOption(t *testing.T) {
	record := RestaurantRecord{
		Name:    "Green Bowl",
		PlaceID: "abc",
		MapLink: "https://www.google.com/maps/place/?q=place_id:abc",
	}

	option := record.Option()
	assert.Equal(t, "Green Bowl", option.Name)
	assert.Equal(t, record.MapLink, option.MapLink)
}

package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lunchwheel/internal/common"
	"github.com/ternarybob/lunchwheel/internal/models"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := &common.PlacesAPIConfig{
		APIKey:         "test-key",
		BaseURL:        server.URL,
		RequestTimeout: 5 * time.Second,
	}
	return NewService(config, nil, arbor.NewLogger()).(*Service)
}

func sampleRequest() *models.NearbySearchRequest {
	return &models.NearbySearchRequest{
		Location:     models.Coordinates{Latitude: 40.7128, Longitude: -74.006},
		RadiusMeters: 804.67,
		Type:         "restaurant",
		Keyword:      "healthy",
		MinPrice:     "2",
		MaxPrice:     "3",
	}
}

func TestBuildNearbySearchURL(t *testing.T) {
	raw := BuildNearbySearchURL("https://maps.example.com/nearbysearch/json", "secret", sampleRequest())

	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	query := parsed.Query()
	assert.Equal(t, "40.7128,-74.006", query.Get("location"))
	assert.Equal(t, "804.67", query.Get("radius"))
	assert.Equal(t, "restaurant", query.Get("type"))
	assert.Equal(t, "healthy", query.Get("keyword"))
	assert.Equal(t, "2", query.Get("minprice"))
	assert.Equal(t, "3", query.Get("maxprice"))
	assert.Equal(t, "secret", query.Get("key"))
}

func TestRedactedURLHidesKey(t *testing.T) {
	raw := RedactedURL("https://maps.example.com/nearbysearch/json", sampleRequest())
	assert.NotContains(t, raw, "secret")
	assert.Contains(t, raw, "REDACTED")
}

func TestNearbySearchParsesResults(t *testing.T) {
	var calls int32
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "2", r.URL.Query().Get("minprice"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "OK",
			"results": [
				{"name": "Green Bowl", "place_id": "p1", "price_level": 2, "geometry": {"location": {"lat": 40.71, "lng": -74.0}}},
				{"name": "Salad Stop", "place_id": "p2", "geometry": {"location": {"lat": 40.72, "lng": -74.01}}}
			]
		}`))
	})

	items, err := service.NearbySearch(context.Background(), sampleRequest())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	assert.Equal(t, "Green Bowl", items[0].Name)
	assert.Equal(t, "p1", items[0].PlaceID)
	require.NotNil(t, items[0].PriceLevel)
	assert.Equal(t, 2, *items[0].PriceLevel)
	assert.Equal(t, 40.71, items[0].Latitude)

	assert.Nil(t, items[1].PriceLevel)
}

func TestNearbySearchZeroResults(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	})

	items, err := service.NearbySearch(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestNearbySearchMissingResults(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	items, err := service.NearbySearch(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestNearbySearchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "upstream down", http.StatusBadGateway)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"results": [`))
			},
		},
		{
			name: "api status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "bad key", "results": []}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(t, tt.handler)
			_, err := service.NearbySearch(context.Background(), sampleRequest())
			assert.Error(t, err)
		})
	}
}

func TestNearbySearchHonoursContext(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := service.NearbySearch(ctx, sampleRequest())
	assert.Error(t, err)
}

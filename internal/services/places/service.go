package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lunchwheel/internal/common"
	"github.com/ternarybob/lunchwheel/internal/interfaces"
	"github.com/ternarybob/lunchwheel/internal/models"
	"golang.org/x/time/rate"
)

// APIKeyName is the KV store key holding the Places API key
const APIKeyName = "google_places_api_key"

// Service implements the PlacesService interface
type Service struct {
	config     *common.PlacesAPIConfig
	kvStorage  interfaces.KeyValueStorage
	logger     arbor.ILogger
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewService creates a new Places service instance
func NewService(
	config *common.PlacesAPIConfig,
	kvStorage interfaces.KeyValueStorage,
	logger arbor.ILogger,
) interfaces.PlacesService {
	if _, err := common.ResolveAPIKey(context.Background(), kvStorage, APIKeyName, config.APIKey); err != nil {
		logger.Warn().Err(err).Msg("Places API key not configured yet, searches will fail until one is stored")
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Every(config.RateLimit), 1)
	}

	return &Service{
		config:    config,
		kvStorage: kvStorage,
		logger:    logger,
		httpClient: &http.Client{
			Timeout: config.RequestTimeout,
		},
		limiter: limiter,
	}
}

// BuildNearbySearchURL builds the Nearby Search request URL for req.
// The result contains the API key; log RedactedURL instead.
func BuildNearbySearchURL(baseURL, apiKey string, req *models.NearbySearchRequest) string {
	return baseURL + "?" + nearbySearchParams(apiKey, req).Encode()
}

// RedactedURL returns the request URL with the key masked
func RedactedURL(baseURL string, req *models.NearbySearchRequest) string {
	return baseURL + "?" + nearbySearchParams("***REDACTED***", req).Encode()
}

func nearbySearchParams(apiKey string, req *models.NearbySearchRequest) url.Values {
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%s,%s",
		strconv.FormatFloat(req.Location.Latitude, 'f', -1, 64),
		strconv.FormatFloat(req.Location.Longitude, 'f', -1, 64)))
	params.Set("radius", strconv.FormatFloat(req.RadiusMeters, 'f', -1, 64))
	if req.Type != "" {
		params.Set("type", req.Type)
	}
	if req.Keyword != "" {
		params.Set("keyword", req.Keyword)
	}
	if req.MinPrice != "" {
		params.Set("minprice", req.MinPrice)
	}
	if req.MaxPrice != "" {
		params.Set("maxprice", req.MaxPrice)
	}
	params.Set("key", apiKey)
	return params
}

// NearbySearch performs exactly one Google Places Nearby Search request
func (s *Service) NearbySearch(ctx context.Context, req *models.NearbySearchRequest) ([]models.PlaceItem, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	// Resolved per request so a key stored through the API applies without a restart
	apiKey, err := common.ResolveAPIKey(ctx, s.kvStorage, APIKeyName, s.config.APIKey)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Str("url", RedactedURL(s.config.BaseURL, req)).Msg("Calling Google Places Nearby Search API")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, BuildNearbySearchURL(s.config.BaseURL, apiKey, req), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call Google Places API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("Google Places API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp PlacesNearbySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}

	// A body without a status is treated like the popup did: only the results array matters
	if apiResp.Status != "" && apiResp.Status != StatusOK && apiResp.Status != StatusZeroResults {
		return nil, fmt.Errorf("API error: %s - %s", apiResp.Status, apiResp.ErrorMessage)
	}

	items := make([]models.PlaceItem, 0, len(apiResp.Results))
	for _, place := range apiResp.Results {
		items = append(items, convertToPlaceItem(place))
	}

	s.logger.Info().
		Float64("latitude", req.Location.Latitude).
		Float64("longitude", req.Location.Longitude).
		Float64("radius", req.RadiusMeters).
		Int("results_count", len(items)).
		Str("status", apiResp.Status).
		Msg("Google Places Nearby Search completed")

	return items, nil
}

// convertToPlaceItem converts a Google Places API result to a PlaceItem model
func convertToPlaceItem(place PlaceResult) models.PlaceItem {
	item := models.PlaceItem{
		PlaceID:    place.PlaceID,
		Name:       place.Name,
		PriceLevel: place.PriceLevel,
	}

	if place.Geometry != nil && place.Geometry.Location != nil {
		item.Latitude = place.Geometry.Location.Lat
		item.Longitude = place.Geometry.Location.Lng
	}

	return item
}

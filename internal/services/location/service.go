package location

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lunchwheel/internal/common"
	"github.com/ternarybob/lunchwheel/internal/interfaces"
	"github.com/ternarybob/lunchwheel/internal/models"
)

// Provider names accepted in [location] provider
const (
	ProviderReported = "reported"
	ProviderStatic   = "static"
)

// NewProvider builds the location provider selected in config
func NewProvider(config *common.LocationConfig, logger arbor.ILogger) (interfaces.LocationProvider, error) {
	switch config.Provider {
	case ProviderReported, "":
		return NewReportedProvider(config.MaxAge, logger), nil
	case ProviderStatic:
		return NewStaticProvider(models.Coordinates{
			Latitude:  config.Latitude,
			Longitude: config.Longitude,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported location provider: %s", config.Provider)
	}
}

// StaticProvider always answers with the configured coordinates
type StaticProvider struct {
	position models.Coordinates
}

// NewStaticProvider creates a provider fixed at position
func NewStaticProvider(position models.Coordinates) *StaticProvider {
	return &StaticProvider{position: position}
}

// CurrentPosition returns the configured coordinates
func (p *StaticProvider) CurrentPosition(ctx context.Context) (models.Coordinates, error) {
	return p.position, nil
}

// ReportedProvider answers with the last position the popup reported from the
// browser geolocation API. A reported denial sticks until a position arrives.
type ReportedProvider struct {
	mu         sync.RWMutex
	position   *models.Coordinates
	reportedAt time.Time
	lastErr    error
	maxAge     time.Duration
	now        func() time.Time
	logger     arbor.ILogger
}

// NewReportedProvider creates a provider that rejects reports older than maxAge.
// A zero maxAge disables the age check.
func NewReportedProvider(maxAge time.Duration, logger arbor.ILogger) *ReportedProvider {
	return &ReportedProvider{
		maxAge: maxAge,
		now:    time.Now,
		logger: logger,
	}
}

// Report records a fresh position
func (p *ReportedProvider) Report(position models.Coordinates) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.position = &position
	p.reportedAt = p.now()
	p.lastErr = nil

	p.logger.Debug().
		Float64("latitude", position.Latitude).
		Float64("longitude", position.Longitude).
		Msg("Position reported")
}

// ReportError records a geolocation failure from the popup.
// Only ErrPermissionDenied and ErrPositionUnavailable are meaningful.
func (p *ReportedProvider) ReportError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.position = nil
	p.lastErr = err

	p.logger.Debug().Err(err).Msg("Geolocation error reported")
}

// CurrentPosition returns the last reported position
func (p *ReportedProvider) CurrentPosition(ctx context.Context) (models.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return models.Coordinates{}, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.lastErr != nil {
		return models.Coordinates{}, p.lastErr
	}
	if p.position == nil {
		return models.Coordinates{}, interfaces.ErrPositionUnavailable
	}
	if p.maxAge > 0 && p.now().Sub(p.reportedAt) > p.maxAge {
		return models.Coordinates{}, fmt.Errorf("last report is %s old: %w", p.now().Sub(p.reportedAt).Round(time.Second), interfaces.ErrPositionUnavailable)
	}

	return *p.position, nil
}

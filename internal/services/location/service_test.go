package location

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lunchwheel/internal/common"
	"github.com/ternarybob/lunchwheel/internal/interfaces"
	"github.com/ternarybob/lunchwheel/internal/models"
)

func TestNewProvider(t *testing.T) {
	logger := arbor.NewLogger()

	provider, err := NewProvider(&common.LocationConfig{Provider: "reported"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &ReportedProvider{}, provider)

	provider, err = NewProvider(&common.LocationConfig{Provider: "static", Latitude: 1.5, Longitude: 2.5}, logger)
	require.NoError(t, err)
	position, err := provider.CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Coordinates{Latitude: 1.5, Longitude: 2.5}, position)

	_, err = NewProvider(&common.LocationConfig{Provider: "gps"}, logger)
	assert.Error(t, err)
}

func TestReportedProviderWithoutReport(t *testing.T) {
	provider := NewReportedProvider(time.Minute, arbor.NewLogger())

	_, err := provider.CurrentPosition(context.Background())
	assert.ErrorIs(t, err, interfaces.ErrPositionUnavailable)
}

func TestReportedProviderReport(t *testing.T) {
	provider := NewReportedProvider(time.Minute, arbor.NewLogger())
	provider.Report(models.Coordinates{Latitude: 51.5, Longitude: -0.12})

	position, err := provider.CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 51.5, position.Latitude)
	assert.Equal(t, -0.12, position.Longitude)
}

func TestReportedProviderDenial(t *testing.T) {
	provider := NewReportedProvider(time.Minute, arbor.NewLogger())
	provider.Report(models.Coordinates{Latitude: 1, Longitude: 1})
	provider.ReportError(interfaces.ErrPermissionDenied)

	_, err := provider.CurrentPosition(context.Background())
	assert.ErrorIs(t, err, interfaces.ErrPermissionDenied)

	// A later position clears the denial
	provider.Report(models.Coordinates{Latitude: 2, Longitude: 2})
	_, err = provider.CurrentPosition(context.Background())
	assert.NoError(t, err)
}

func TestReportedProviderStaleReport(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	provider := NewReportedProvider(10*time.Minute, arbor.NewLogger())
	provider.now = func() time.Time { return now }

	provider.Report(models.Coordinates{Latitude: 1, Longitude: 1})

	now = now.Add(11 * time.Minute)
	_, err := provider.CurrentPosition(context.Background())
	assert.ErrorIs(t, err, interfaces.ErrPositionUnavailable)
}

func TestReportedProviderCancelledContext(t *testing.T) {
	provider := NewReportedProvider(0, arbor.NewLogger())
	provider.Report(models.Coordinates{Latitude: 1, Longitude: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.CurrentPosition(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

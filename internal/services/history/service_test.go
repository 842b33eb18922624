package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lunchwheel/internal/common"
	"github.com/ternarybob/lunchwheel/internal/models"
	"github.com/ternarybob/lunchwheel/internal/storage/badger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	manager, err := badger.NewManager(arbor.NewLogger(), &common.BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })

	return NewService(manager.HistoryStorage(), arbor.NewLogger())
}

func TestRecordAppendsWithoutDedup(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}

	option := models.WheelOption{Name: "Green Bowl", MapLink: "https://www.google.com/maps/place/?q=place_id:p1"}
	first, err := service.Record(ctx, option)
	require.NoError(t, err)
	_, err = service.Record(ctx, option)
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.Equal(t, option.MapLink, first.Link)

	entries, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Green Bowl", entries[0].Name)
	assert.Equal(t, "Green Bowl", entries[1].Name)
	assert.True(t, entries[0].Timestamp.Before(entries[1].Timestamp))
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
}

func TestClearTwiceMatchesClearOnce(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	_, err := service.Record(ctx, models.WheelOption{Name: "A", MapLink: "a"})
	require.NoError(t, err)

	require.NoError(t, service.Clear(ctx))
	once, err := service.List(ctx)
	require.NoError(t, err)

	require.NoError(t, service.Clear(ctx))
	twice, err := service.List(ctx)
	require.NoError(t, err)

	assert.Empty(t, once)
	assert.Equal(t, once, twice)
}

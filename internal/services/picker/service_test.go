package picker

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lunchwheel/internal/common"
	"github.com/ternarybob/lunchwheel/internal/interfaces"
	"github.com/ternarybob/lunchwheel/internal/models"
	"github.com/ternarybob/lunchwheel/internal/services/history"
	"github.com/ternarybob/lunchwheel/internal/services/settings"
	"github.com/ternarybob/lunchwheel/internal/storage/badger"
)

// MockPlacesService is a mock implementation of PlacesService
type MockPlacesService struct {
	mock.Mock
}

func (m *MockPlacesService) NearbySearch(ctx context.Context, req *models.NearbySearchRequest) ([]models.PlaceItem, error) {
	args := m.Called(ctx, req)
	if items, ok := args.Get(0).([]models.PlaceItem); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockLocationProvider is a mock implementation of LocationProvider
type MockLocationProvider struct {
	mock.Mock
}

func (m *MockLocationProvider) CurrentPosition(ctx context.Context) (models.Coordinates, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Coordinates), args.Error(1)
}

// recordingSurface captures everything the picker renders
type recordingSurface struct {
	mu      sync.Mutex
	wheels  [][]models.WheelOption
	frames  []models.ProgressUpdate
	notices []models.Notice
}

func (s *recordingSurface) DrawWheel(options []models.WheelOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wheels = append(s.wheels, options)
}

func (s *recordingSurface) ShowProgress(update models.ProgressUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, update)
}

func (s *recordingSurface) ShowNotice(notice models.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, notice)
}

func (s *recordingSurface) Wheels() [][]models.WheelOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]models.WheelOption(nil), s.wheels...)
}

func (s *recordingSurface) Frames() []models.ProgressUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ProgressUpdate(nil), s.frames...)
}

func (s *recordingSurface) Notices() []models.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notice(nil), s.notices...)
}

var testPosition = models.Coordinates{Latitude: 40.7128, Longitude: -74.006}

type fixture struct {
	picker   *Picker
	places   *MockPlacesService
	location *MockLocationProvider
	surface  *recordingSurface
	settings *settings.Service
	history  *history.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := arbor.NewLogger()
	manager, err := badger.NewManager(logger, &common.BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })

	config := common.NewDefaultConfig().Wheel
	config.ProgressInterval = 0
	config.SettleDelay = 0

	f := &fixture{
		places:   new(MockPlacesService),
		location: new(MockLocationProvider),
		surface:  &recordingSurface{},
		settings: settings.NewService(manager.KeyValueStorage(), logger),
		history:  history.NewService(manager.HistoryStorage(), logger),
	}
	f.picker = NewPicker(&config, f.places, f.location, f.settings, f.history, f.surface, logger)
	f.picker.rng = rand.New(rand.NewSource(1))
	return f
}

func places(names ...string) []models.PlaceItem {
	items := make([]models.PlaceItem, 0, len(names))
	for i, name := range names {
		items = append(items, models.PlaceItem{
			PlaceID:   fmt.Sprintf("place-%d", i),
			Name:      name,
			Latitude:  40.7,
			Longitude: -74.0,
		})
	}
	return items
}

func assertEndsIdle(t *testing.T, surface *recordingSurface) {
	t.Helper()
	frames := surface.Frames()
	require.NotEmpty(t, frames)
	assert.Equal(t, models.ProgressBusy, frames[0].State)
	assert.Equal(t, 0, frames[0].Percent)
	assert.Equal(t, models.ProgressIdle, frames[len(frames)-1].State)
}

func TestFetchBuildsRequestFromSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.location.On("CurrentPosition", mock.Anything).Return(testPosition, nil)
	f.places.On("NearbySearch", mock.Anything, mock.MatchedBy(func(req *models.NearbySearchRequest) bool {
		return req.MinPrice == "2" &&
			req.MaxPrice == "3" &&
			req.RadiusMeters == 0.5*1609.34 &&
			req.Type == "restaurant" &&
			req.Keyword == "healthy" &&
			req.Location == testPosition
	})).Return(places("Green Bowl"), nil).Once()

	require.NoError(t, f.picker.FetchRestaurants(ctx))
	f.places.AssertExpectations(t)

	assert.Equal(t, []models.WheelOption{{
		Name:    "Green Bowl",
		MapLink: "https://www.google.com/maps/place/?q=place_id:place-0",
	}}, f.picker.Wheel())
	assertEndsIdle(t, f.surface)
}

func TestFetchDedupesAndCapsWheel(t *testing.T) {
	f := newFixture(t)

	f.location.On("CurrentPosition", mock.Anything).Return(testPosition, nil)
	f.places.On("NearbySearch", mock.Anything, mock.Anything).
		Return(places("A", "B", "C", "A", "D", "E", "F", "B", "G", "H"), nil)

	require.NoError(t, f.picker.FetchRestaurants(context.Background()))

	records := f.picker.Restaurants()
	assert.Len(t, records, 8)

	wheel := f.picker.Wheel()
	assert.Len(t, wheel, 8)
	names := map[string]bool{}
	for _, option := range wheel {
		names[option.Name] = true
	}
	assert.Len(t, names, 8)

	wheels := f.surface.Wheels()
	require.Len(t, wheels, 1)
	assert.ElementsMatch(t, wheel, wheels[0])
}

func TestFetchProgressFrames(t *testing.T) {
	f := newFixture(t)

	f.location.On("CurrentPosition", mock.Anything).Return(testPosition, nil)
	f.places.On("NearbySearch", mock.Anything, mock.Anything).Return(places("A"), nil)

	require.NoError(t, f.picker.FetchRestaurants(context.Background()))

	frames := f.surface.Frames()
	require.Len(t, frames, 7)
	assert.Equal(t, []int{0, 10, 80, 90, 95, 100}, percents(frames[:6]))
	for _, frame := range frames[:6] {
		assert.Equal(t, models.ProgressBusy, frame.State)
	}
	assert.Equal(t, "Processing results…", frames[5].Text)
	assert.Equal(t, models.ProgressIdle, frames[6].State)
	assert.Empty(t, f.surface.Notices())
}

func TestFetchEmptyResultsLeavesWheelAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.picker.PopulateWheel(Normalize(places("Existing"), 0.5))
	before := f.picker.Wheel()

	f.location.On("CurrentPosition", mock.Anything).Return(testPosition, nil)
	f.places.On("NearbySearch", mock.Anything, mock.Anything).Return([]models.PlaceItem{}, nil)

	err := f.picker.FetchRestaurants(ctx)
	assert.ErrorIs(t, err, ErrNoResults)

	assert.Equal(t, before, f.picker.Wheel())
	assert.Len(t, f.surface.Wheels(), 1)
	assert.Equal(t, []models.Notice{{Kind: models.NoticeNoResults, Message: MessageNoResults}}, f.surface.Notices())
	assertEndsIdle(t, f.surface)

	entries, err := f.picker.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFetchLocationFailureIssuesNoRequest(t *testing.T) {
	for _, locErr := range []error{interfaces.ErrPermissionDenied, interfaces.ErrPositionUnavailable} {
		t.Run(locErr.Error(), func(t *testing.T) {
			f := newFixture(t)

			f.location.On("CurrentPosition", mock.Anything).Return(models.Coordinates{}, locErr)

			err := f.picker.FetchRestaurants(context.Background())
			assert.ErrorIs(t, err, locErr)

			f.places.AssertNotCalled(t, "NearbySearch", mock.Anything, mock.Anything)
			assert.Equal(t, []models.Notice{{Kind: models.NoticePermissionDenied, Message: MessagePermissionDenied}}, f.surface.Notices())
			assertEndsIdle(t, f.surface)
		})
	}
}

func TestFetchPlacesFailure(t *testing.T) {
	f := newFixture(t)

	f.location.On("CurrentPosition", mock.Anything).Return(testPosition, nil)
	f.places.On("NearbySearch", mock.Anything, mock.Anything).Return(nil, errors.New("status 502"))

	err := f.picker.FetchRestaurants(context.Background())
	assert.Error(t, err)

	assert.Empty(t, f.picker.Wheel())
	assert.Equal(t, []models.Notice{{Kind: models.NoticeFetchFailed, Message: MessageFetchFailed}}, f.surface.Notices())
	assertEndsIdle(t, f.surface)
}

func TestNewFetchSupersedesInFlightFetch(t *testing.T) {
	f := newFixture(t)

	searching := make(chan struct{})
	f.location.On("CurrentPosition", mock.Anything).Return(testPosition, nil)
	f.places.On("NearbySearch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			close(searching)
			<-ctx.Done()
		}).
		Return(nil, context.Canceled).Once()
	f.places.On("NearbySearch", mock.Anything, mock.Anything).
		Return(places("Second"), nil).Once()

	firstErr := make(chan error, 1)
	go func() {
		firstErr <- f.picker.FetchRestaurants(context.Background())
	}()
	<-searching

	require.NoError(t, f.picker.FetchRestaurants(context.Background()))
	assert.ErrorIs(t, <-firstErr, ErrSuperseded)

	assert.Equal(t, "Second", f.picker.Wheel()[0].Name)
	assert.Empty(t, f.surface.Notices())
	assert.Equal(t, models.ProgressIdle, f.picker.Progress().State)
}

func TestCancelledFetchReturnsToIdle(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	f.location.On("CurrentPosition", mock.Anything).Return(testPosition, nil)
	f.places.On("NearbySearch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { cancel() }).
		Return(nil, context.Canceled)

	err := f.picker.FetchRestaurants(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assertEndsIdle(t, f.surface)
}

func TestRecordSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.picker.PopulateWheel(Normalize(places("Green Bowl", "Salad Stop"), 0.5))

	option, err := f.picker.Option("Salad Stop")
	require.NoError(t, err)

	_, err = f.picker.RecordSelection(ctx, option)
	require.NoError(t, err)
	_, err = f.picker.RecordSelection(ctx, option)
	require.NoError(t, err)

	entries, err := f.picker.History(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Salad Stop", entries[0].Name)
	assert.Equal(t, option.MapLink, entries[0].Link)

	_, err = f.picker.Option("Nowhere")
	assert.ErrorIs(t, err, ErrUnknownOption)
}

func TestSaveSettingsRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)

	err := f.picker.SaveSettings(context.Background(), 0, "2,3")
	assert.ErrorIs(t, err, settings.ErrInvalidSettings)

	err = f.picker.SaveSettings(context.Background(), 1, "5,1")
	assert.ErrorIs(t, err, settings.ErrInvalidSettings)

	assert.Empty(t, f.surface.Notices())
	f.location.AssertNotCalled(t, "CurrentPosition", mock.Anything)
}

func TestSaveSettingsPersistsAndRefetches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.location.On("CurrentPosition", mock.Anything).Return(testPosition, nil)
	f.places.On("NearbySearch", mock.Anything, mock.MatchedBy(func(req *models.NearbySearchRequest) bool {
		return req.MinPrice == "1" && req.MaxPrice == "4" && req.RadiusMeters == 2*1609.34
	})).Return(places("Fresh"), nil)

	require.NoError(t, f.picker.SaveSettings(ctx, 2, "1,4"))

	stored, err := f.picker.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Settings{Distance: 2, Price: "1,4"}, stored)

	assert.Eventually(t, func() bool {
		return len(f.surface.Wheels()) == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, models.NoticeSettingsSaved, f.surface.Notices()[0].Kind)
}

func TestClearHistoryIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.picker.RecordSelection(ctx, models.WheelOption{Name: "A", MapLink: "a"})
	require.NoError(t, err)

	require.NoError(t, f.picker.ClearHistory(ctx))
	require.NoError(t, f.picker.ClearHistory(ctx))

	entries, err := f.picker.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	notices := f.surface.Notices()
	require.Len(t, notices, 2)
	assert.Equal(t, models.NoticeHistoryCleared, notices[1].Kind)
}

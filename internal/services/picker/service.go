package picker

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lunchwheel/internal/common"
	"github.com/ternarybob/lunchwheel/internal/interfaces"
	"github.com/ternarybob/lunchwheel/internal/models"
)

var (
	// ErrNoResults is returned when the search matched nothing
	ErrNoResults = errors.New("no restaurants found")

	// ErrUnknownOption is returned when a selection names a venue that is not on the wheel
	ErrUnknownOption = errors.New("option is not on the wheel")

	// ErrSuperseded is returned by a fetch cycle that a newer cycle replaced
	ErrSuperseded = errors.New("fetch superseded by a newer request")
)

// Notice messages shown by the popup
const (
	MessagePermissionDenied = "Please enable location access to fetch restaurants."
	MessageNoResults        = "No restaurants found! Try adjusting your settings."
	MessageFetchFailed      = "Could not fetch restaurants. Please try again."
	MessageSettingsSaved    = "Settings saved!"
	MessageHistoryCleared   = "History cleared!"
)

// SettingsStore loads and saves search settings
type SettingsStore interface {
	Load(ctx context.Context) (models.Settings, error)
	Save(ctx context.Context, settings models.Settings) error
}

// HistoryStore records wheel landings
type HistoryStore interface {
	Record(ctx context.Context, option models.WheelOption) (*models.HistoryEntry, error)
	List(ctx context.Context) ([]models.HistoryEntry, error)
	Clear(ctx context.Context) error
}

// Session is the state shared between fetch cycles and handlers:
// the records of the last successful fetch and the options on the wheel.
type Session struct {
	mu      sync.RWMutex
	records []models.RestaurantRecord
	options []models.WheelOption
}

// Options returns a copy of the current wheel options
func (s *Session) Options() []models.WheelOption {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.WheelOption{}, s.options...)
}

// Records returns a copy of the records from the last successful fetch
func (s *Session) Records() []models.RestaurantRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.RestaurantRecord{}, s.records...)
}

// Option looks up a wheel option by name
func (s *Session) Option(name string) (models.WheelOption, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, option := range s.options {
		if option.Name == name {
			return option, true
		}
	}
	return models.WheelOption{}, false
}

func (s *Session) replace(records []models.RestaurantRecord, options []models.WheelOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.options = options
}

// Picker fetches nearby restaurants and drives the wheel.
// A new fetch cancels the one in flight; the older cycle then leaves the
// wheel, the overlay and notices alone.
type Picker struct {
	config   *common.WheelConfig
	places   interfaces.PlacesService
	location interfaces.LocationProvider
	settings SettingsStore
	history  HistoryStore
	surface  interfaces.WheelSurface
	progress *Progress
	session  *Session
	logger   arbor.ILogger

	rngMu sync.Mutex
	rng   *rand.Rand

	cycleMu sync.Mutex
	cancel  context.CancelFunc
	current uint64
}

// NewPicker creates a picker with an empty wheel
func NewPicker(
	config *common.WheelConfig,
	places interfaces.PlacesService,
	location interfaces.LocationProvider,
	settings SettingsStore,
	history HistoryStore,
	surface interfaces.WheelSurface,
	logger arbor.ILogger,
) *Picker {
	return &Picker{
		config:   config,
		places:   places,
		location: location,
		settings: settings,
		history:  history,
		surface:  surface,
		progress: NewProgress(surface, config, logger),
		session:  &Session{},
		logger:   logger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Session exposes the picker's session state
func (p *Picker) Session() *Session {
	return p.session
}

// Progress returns the frame last rendered by the overlay
func (p *Picker) Progress() models.ProgressUpdate {
	return p.progress.Current()
}

// Wheel returns the options currently on the wheel
func (p *Picker) Wheel() []models.WheelOption {
	return p.session.Options()
}

// Restaurants returns the deduped records behind the current wheel, with price and distance
func (p *Picker) Restaurants() []models.RestaurantRecord {
	return p.session.Records()
}

// Settings returns the stored settings with defaults applied
func (p *Picker) Settings(ctx context.Context) (models.Settings, error) {
	return p.settings.Load(ctx)
}

// History returns every recorded landing, oldest first
func (p *Picker) History(ctx context.Context) ([]models.HistoryEntry, error) {
	return p.history.List(ctx)
}

// beginCycle cancels the cycle in flight and starts a new one
func (p *Picker) beginCycle(ctx context.Context) (context.Context, uint64, func()) {
	p.cycleMu.Lock()
	defer p.cycleMu.Unlock()

	// Claim the new generation before cancelling, so the old cycle sees itself as superseded
	gen := p.progress.Begin()
	if p.cancel != nil {
		p.cancel()
	}

	cycleCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.current = gen

	return cycleCtx, gen, func() {
		cancel()
		p.cycleMu.Lock()
		if p.current == gen {
			p.cancel = nil
		}
		p.cycleMu.Unlock()
	}
}

// FetchRestaurants runs one fetch cycle: locate, load settings, search,
// normalize, dedupe and populate the wheel. Every outcome returns the overlay
// to idle and failures are reported to the surface as notices. The returned
// error is for logging and tests; callers need not act on it.
func (p *Picker) FetchRestaurants(ctx context.Context) error {
	ctx, gen, done := p.beginCycle(ctx)
	defer done()

	started := time.Now()
	p.logger.Debug().Int64("cycle", int64(gen)).Msg("Fetch cycle started")

	position, err := p.location.CurrentPosition(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return p.abandon(gen, ctx.Err())
		}
		p.logger.Warn().Err(err).Int64("cycle", int64(gen)).Msg("Location unavailable, no search issued")
		p.fail(gen, models.NoticePermissionDenied, MessagePermissionDenied)
		return fmt.Errorf("failed to get current position: %w", err)
	}

	settings, err := p.settings.Load(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("Failed to load settings, using defaults")
		settings = models.DefaultSettings()
	}
	p.progress.Advance(gen, 10)

	req := &models.NearbySearchRequest{
		Location:     position,
		RadiusMeters: MilesToMeters(settings.Distance),
		Type:         p.config.PlaceType,
		Keyword:      p.config.Keyword,
		MinPrice:     settings.MinPrice(),
		MaxPrice:     settings.MaxPrice(),
	}

	stopAnimation := p.progress.Animate(gen)
	items, err := p.places.NearbySearch(ctx, req)
	stopAnimation()

	if err != nil {
		if ctx.Err() != nil {
			return p.abandon(gen, err)
		}
		p.logger.Error().Err(err).Int64("cycle", int64(gen)).Msg("Failed to fetch restaurants")
		p.fail(gen, models.NoticeFetchFailed, MessageFetchFailed)
		return fmt.Errorf("failed to fetch restaurants: %w", err)
	}
	p.progress.Advance(gen, 80)

	if len(items) == 0 {
		p.logger.Info().
			Float64("distance", settings.Distance).
			Str("price", settings.Price).
			Msg("No restaurants found")
		p.fail(gen, models.NoticeNoResults, MessageNoResults)
		return ErrNoResults
	}

	records := Normalize(items, settings.Distance)
	p.progress.Advance(gen, 90)
	p.progress.Advance(gen, 95)

	records = Dedupe(records)
	p.progress.Advance(gen, 100)

	if p.config.SettleDelay > 0 {
		timer := time.NewTimer(p.config.SettleDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return p.abandon(gen, ctx.Err())
		case <-timer.C:
		}
	}

	populated := p.progress.Finish(gen, func() {
		p.PopulateWheel(records)
	})
	if !populated {
		return ErrSuperseded
	}

	p.logger.Info().
		Int("results", len(items)).
		Int("unique", len(records)).
		Str("elapsed", time.Since(started).String()).
		Msg("Restaurants fetched")

	return nil
}

// StartFetch runs FetchRestaurants in the background, detached from ctx cancellation
func (p *Picker) StartFetch(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	common.SafeGo(p.logger, "fetchRestaurants", func() {
		_ = p.FetchRestaurants(ctx)
	})
}

// fail ends the cycle: overlay back to idle, then the notice
func (p *Picker) fail(gen uint64, kind models.NoticeKind, message string) {
	p.progress.Finish(gen, func() {
		p.surface.ShowNotice(models.Notice{Kind: kind, Message: message})
	})
}

// abandon ends a cancelled cycle. If no newer cycle replaced it the caller's
// context was cancelled, and the overlay still has to go back to idle.
func (p *Picker) abandon(gen uint64, cause error) error {
	if p.progress.Finish(gen, nil) {
		p.logger.Debug().Int64("cycle", int64(gen)).Err(cause).Msg("Fetch cycle cancelled")
		return fmt.Errorf("fetch cancelled: %w", cause)
	}
	p.logger.Debug().Int64("cycle", int64(gen)).Err(cause).Msg("Fetch cycle superseded")
	return fmt.Errorf("%w: %v", ErrSuperseded, cause)
}

// PopulateWheel replaces the wheel with a random subset of at most MaxOptions records
func (p *Picker) PopulateWheel(records []models.RestaurantRecord) {
	p.rngMu.Lock()
	options := SelectWheelOptions(records, p.config.MaxOptions, p.rng)
	p.rngMu.Unlock()

	p.session.replace(append([]models.RestaurantRecord(nil), records...), options)
	p.surface.DrawWheel(options)

	p.logger.Debug().Int("options", len(options)).Msg("Wheel populated")
}

// Option resolves a wheel option by name
func (p *Picker) Option(name string) (models.WheelOption, error) {
	option, ok := p.session.Option(name)
	if !ok {
		return models.WheelOption{}, fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}
	return option, nil
}

// RecordSelection appends a landing to the history
func (p *Picker) RecordSelection(ctx context.Context, option models.WheelOption) (*models.HistoryEntry, error) {
	return p.history.Record(ctx, option)
}

// SaveSettings validates and persists settings, then refetches in the background
func (p *Picker) SaveSettings(ctx context.Context, distance float64, price string) error {
	settings := models.Settings{Distance: distance, Price: price}
	if err := p.settings.Save(ctx, settings); err != nil {
		return err
	}

	p.surface.ShowNotice(models.Notice{Kind: models.NoticeSettingsSaved, Message: MessageSettingsSaved})
	p.StartFetch(ctx)
	return nil
}

// ClearHistory removes every history entry
func (p *Picker) ClearHistory(ctx context.Context) error {
	if err := p.history.Clear(ctx); err != nil {
		return err
	}

	p.surface.ShowNotice(models.Notice{Kind: models.NoticeHistoryCleared, Message: MessageHistoryCleared})
	return nil
}

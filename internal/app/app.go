package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lunchwheel/internal/common"
	"github.com/ternarybob/lunchwheel/internal/handlers"
	"github.com/ternarybob/lunchwheel/internal/interfaces"
	"github.com/ternarybob/lunchwheel/internal/services/events"
	"github.com/ternarybob/lunchwheel/internal/services/history"
	"github.com/ternarybob/lunchwheel/internal/services/kv"
	"github.com/ternarybob/lunchwheel/internal/services/location"
	"github.com/ternarybob/lunchwheel/internal/services/picker"
	"github.com/ternarybob/lunchwheel/internal/services/places"
	"github.com/ternarybob/lunchwheel/internal/services/settings"
	"github.com/ternarybob/lunchwheel/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	ctx            context.Context
	cancelCtx      context.CancelFunc
	StorageManager interfaces.StorageManager

	// Event-driven presentation surface
	EventService interfaces.EventService
	Surface      *events.Surface

	// Picker and its collaborators
	PlacesService    interfaces.PlacesService
	LocationProvider interfaces.LocationProvider
	SettingsService  *settings.Service
	HistoryService   *history.Service
	KVService        *kv.Service
	Picker           *picker.Picker

	// HTTP handlers
	APIHandler      *handlers.APIHandler
	WSHandler       *handlers.WebSocketHandler
	WheelHandler    *handlers.WheelHandler
	SettingsHandler *handlers.SettingsHandler
	HistoryHandler  *handlers.HistoryHandler
	LocationHandler *handlers.LocationHandler
	KVHandler       *handlers.KVHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config:    cfg,
		Logger:    logger,
		ctx:       ctx,
		cancelCtx: cancel,
	}

	if err := app.initDatabase(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initServices(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.initHandlers(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	// With a fixed position there is no popup report to wait for
	if cfg.Location.Provider == location.ProviderStatic {
		app.Picker.StartFetch(app.ctx)
	}

	logger.Info().
		Str("location_provider", cfg.Location.Provider).
		Int("max_options", cfg.Wheel.MaxOptions).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase initializes the storage layer (Badger)
func (a *App) initDatabase() error {
	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Bool("in_memory", a.Config.Storage.Badger.InMemory).
		Msg("Storage layer initialized")

	// API keys may be kept in a .env file next to the binary
	if err := a.StorageManager.LoadEnvFile(a.ctx, ".env"); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to load .env file")
	}

	return nil
}

// initServices initializes all business services in dependency order
func (a *App) initServices() error {
	var err error

	a.EventService = events.NewService(a.Logger)
	if err := events.SubscribeLoggerToAllEvents(a.EventService, a.Logger); err != nil {
		return fmt.Errorf("failed to subscribe event logger: %w", err)
	}
	a.Surface = events.NewSurface(a.EventService, a.Logger)

	kvStorage := a.StorageManager.KeyValueStorage()

	a.KVService = kv.NewService(kvStorage, a.Logger)
	a.KVService.Register(places.APIKeyName, "Google Places API key", "LUNCHWHEEL_PLACES_API_KEY", a.Config.PlacesAPI.APIKey)

	a.PlacesService = places.NewService(&a.Config.PlacesAPI, kvStorage, a.Logger)

	a.LocationProvider, err = location.NewProvider(&a.Config.Location, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create location provider: %w", err)
	}

	a.SettingsService = settings.NewService(kvStorage, a.Logger)
	a.HistoryService = history.NewService(a.StorageManager.HistoryStorage(), a.Logger)

	a.Picker = picker.NewPicker(
		&a.Config.Wheel,
		a.PlacesService,
		a.LocationProvider,
		a.SettingsService,
		a.HistoryService,
		a.Surface,
		a.Logger,
	)

	// Every location report from the popup starts a fetch cycle
	err = a.EventService.Subscribe(interfaces.EventLocation, func(ctx context.Context, event interfaces.Event) error {
		a.Picker.FetchRestaurants(a.ctx)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to location events: %w", err)
	}

	return nil
}

// initHandlers initializes all HTTP handlers
func (a *App) initHandlers() error {
	a.WSHandler = handlers.NewWebSocketHandler(a.EventService, a.Picker, a.Logger, &a.Config.WebSocket)
	a.APIHandler = handlers.NewAPIHandler(a.Picker, a.WSHandler.ClientCount, a.Logger)
	a.WheelHandler = handlers.NewWheelHandler(a.Picker, a.Logger)
	a.SettingsHandler = handlers.NewSettingsHandler(a.Picker, a.Logger)
	a.HistoryHandler = handlers.NewHistoryHandler(a.Picker, a.Logger)
	a.KVHandler = handlers.NewKVHandler(a.KVService, a.Logger)

	var reporter handlers.LocationReporter
	if reported, ok := a.LocationProvider.(*location.ReportedProvider); ok {
		reporter = reported
	}
	a.LocationHandler = handlers.NewLocationHandler(reporter, a.EventService, a.Logger)

	return nil
}

// Close closes all application resources
func (a *App) Close() error {
	// Cancels any fetch cycle in flight
	if a.cancelCtx != nil {
		a.cancelCtx()
	}

	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close event service")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}

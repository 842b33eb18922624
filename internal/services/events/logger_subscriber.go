package events

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lunchwheel/internal/interfaces"
	"github.com/ternarybob/lunchwheel/internal/models"
)

// NewLoggerSubscriber creates an event handler that logs picker events
func NewLoggerSubscriber(logger arbor.ILogger) interfaces.EventHandler {
	return func(ctx context.Context, event interfaces.Event) error {
		logEvent := logger.Debug().
			Str("event_type", string(event.Type))

		switch payload := event.Payload.(type) {
		case models.Notice:
			logEvent = logEvent.Str("notice_kind", string(payload.Kind)).Str("message", payload.Message)
		case models.ProgressUpdate:
			logEvent = logEvent.Str("state", string(payload.State)).Int("percent", payload.Percent)
		case []models.WheelOption:
			logEvent = logEvent.Int("options", len(payload))
		case models.Coordinates:
			logEvent = logEvent.Float64("latitude", payload.Latitude).Float64("longitude", payload.Longitude)
		case error:
			logEvent = logEvent.Err(payload)
		}

		logEvent.Msg("Event published")

		return nil
	}
}

// SubscribeLoggerToAllEvents subscribes the logger to all known event types
func SubscribeLoggerToAllEvents(eventService interfaces.EventService, logger arbor.ILogger) error {
	subscriber := NewLoggerSubscriber(logger)

	eventTypes := []interfaces.EventType{
		interfaces.EventProgress,
		interfaces.EventNotice,
		interfaces.EventWheel,
		interfaces.EventLocation,
	}

	for _, eventType := range eventTypes {
		if err := eventService.Subscribe(eventType, subscriber); err != nil {
			return fmt.Errorf("failed to subscribe logger to event type %s: %w", eventType, err)
		}
	}

	logger.Debug().
		Int("event_type_count", len(eventTypes)).
		Msg("Logger subscribed to all event types")

	return nil
}

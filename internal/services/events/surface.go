package events

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lunchwheel/internal/interfaces"
	"github.com/ternarybob/lunchwheel/internal/models"
)

// Surface implements WheelSurface by publishing every frame on the event bus.
// Frames are published synchronously so subscribers see them in order.
type Surface struct {
	events interfaces.EventService
	logger arbor.ILogger
}

// NewSurface creates a surface backed by eventService
func NewSurface(eventService interfaces.EventService, logger arbor.ILogger) *Surface {
	return &Surface{
		events: eventService,
		logger: logger,
	}
}

// DrawWheel publishes the complete option set
func (s *Surface) DrawWheel(options []models.WheelOption) {
	snapshot := append([]models.WheelOption(nil), options...)
	s.publish(interfaces.EventWheel, snapshot)
}

// ShowProgress publishes one progress frame
func (s *Surface) ShowProgress(update models.ProgressUpdate) {
	s.publish(interfaces.EventProgress, update)
}

// ShowNotice publishes a notice
func (s *Surface) ShowNotice(notice models.Notice) {
	s.publish(interfaces.EventNotice, notice)
}

func (s *Surface) publish(eventType interfaces.EventType, payload interface{}) {
	err := s.events.PublishSync(context.Background(), interfaces.Event{
		Type:    eventType,
		Payload: payload,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("event_type", string(eventType)).Msg("Failed to publish surface event")
	}
}

package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/blood-donation-service/internal/events"
)

// ActivityService writes lifecycle events to the structured log.
type ActivityService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, logger *zap.Logger) *ActivityService {
	return &ActivityService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventRequestCreated, a.handle("BloodRequestCreated"))
	a.dispatcher.Subscribe(events.EventRequestUpdated, a.handle("BloodRequestUpdated"))
	a.dispatcher.Subscribe(events.EventRequestStatusChanged, a.handle("BloodRequestStatusChanged"))
	a.dispatcher.Subscribe(events.EventResponseCreated, a.handle("ResponseCreated"))
	a.dispatcher.Subscribe(events.EventResponseStatusChanged, a.handle("ResponseStatusChanged"))
	a.dispatcher.Subscribe(events.EventResponseWithdrawn, a.handle("ResponseWithdrawn"))
}

func (a *ActivityService) handle(name string) events.EventHandler {
	return func(_ context.Context, event events.Event) error {
		fields := []zap.Field{
			zap.String("event_id", event.ID),
			zap.String("blood_request_id", event.RequestID),
			zap.Any("payload", event.Payload),
		}
		if event.Actor.ID != "" {
			fields = append(fields, zap.String("actor_id", event.Actor.ID), zap.String("actor_role", string(event.Actor.Role)))
		} else {
			fields = append(fields, zap.String("actor", "system"))
		}
		a.logger.Info(name, fields...)
		return nil
	}
}

package services

import (
	"context"

	"go.uber.org/zap"

	"social-service/internal/observability"
	"social-service/internal/rabbitmq"
)

const (
	EventFriendshipRequested = "friendship.requested"
	EventFriendshipAccepted  = "friendship.accepted"
	EventFriendshipDeclined  = "friendship.declined"
	EventMessageSent         = "message.sent"
	EventUserRegistered      = "user.registered"
)

// eventSink publishes domain events best-effort; a failed publish never fails the request.
type eventSink struct {
	publisher rabbitmq.Publisher
	log       *zap.Logger
}

func newEventSink(publisher rabbitmq.Publisher, log *zap.Logger) eventSink {
	if log == nil {
		log = zap.NewNop()
	}
	return eventSink{publisher: publisher, log: log}
}

func (s eventSink) publish(ctx context.Context, eventType string, payload any) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, eventType, payload)
	observability.RecordDomainEvent(eventType, err)
	if err != nil {
		s.log.Warn("failed to publish event", zap.String("event", eventType), zap.Error(err))
	}
}

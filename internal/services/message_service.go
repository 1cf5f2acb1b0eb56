package services

import (
	"context"

	"go.uber.org/zap"

	"social-service/internal/apperrors"
	"social-service/internal/models"
	"social-service/internal/rabbitmq"
	"social-service/internal/repositories"
	"social-service/internal/security"
)

type MessageService struct {
	messages    repositories.MessageRepository
	friendships repositories.FriendshipRepository
	events      eventSink
}

func NewMessageService(messages repositories.MessageRepository, friendships repositories.FriendshipRepository, publisher rabbitmq.Publisher, log *zap.Logger) *MessageService {
	return &MessageService{
		messages:    messages,
		friendships: friendships,
		events:      newEventSink(publisher, log),
	}
}

// Send stores a message from senderID to receiverID. The pair must hold an
// accepted friendship at this moment; later revocation does not touch stored messages.
// Content is kept as typed apart from NUL bytes and surrounding whitespace.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID int64, content string) (*models.Message, error) {
	if receiverID <= 0 {
		return nil, apperrors.ErrMissingTarget
	}
	if senderID == receiverID {
		return nil, apperrors.ErrSelfMessage
	}

	friends, err := s.friendships.AreFriends(ctx, senderID, receiverID)
	if err != nil {
		return nil, apperrors.Storage(err, "failed to check friendship")
	}
	if !friends {
		return nil, apperrors.ErrNotFriends
	}

	content = security.NormalizeMessage(content)
	if content == "" {
		return nil, apperrors.ErrEmptyContent
	}
	if security.MessageTooLong(content) {
		return nil, apperrors.ErrContentTooLong
	}

	msg, err := s.messages.Create(ctx, senderID, receiverID, content)
	if err != nil {
		return nil, apperrors.Storage(err, "failed to store message")
	}

	s.events.publish(ctx, EventMessageSent, map[string]any{
		"message_id":  msg.ID,
		"sender_id":   msg.SenderID,
		"receiver_id": msg.ReceiverID,
		"created_at":  msg.CreatedAt,
	})
	return msg, nil
}

// List returns the caller's messages, newest first.
func (s *MessageService) List(ctx context.Context, callerID int64) ([]models.MessageView, error) {
	msgs, err := s.messages.ListForUser(ctx, callerID)
	if err != nil {
		return nil, apperrors.Storage(err, "failed to list messages")
	}
	return msgs, nil
}

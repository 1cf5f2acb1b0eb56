package services

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"social-service/internal/apperrors"
	"social-service/internal/models"
	"social-service/internal/rabbitmq"
	"social-service/internal/repositories"
)

// FriendshipService owns the friend request lifecycle:
// pending (created by the requester) -> accepted (by the target only),
// and deletion by either party from any status.
type FriendshipService struct {
	friendships repositories.FriendshipRepository
	users       repositories.UserRepository
	events      eventSink
}

func NewFriendshipService(friendships repositories.FriendshipRepository, users repositories.UserRepository, publisher rabbitmq.Publisher, log *zap.Logger) *FriendshipService {
	return &FriendshipService{
		friendships: friendships,
		users:       users,
		events:      newEventSink(publisher, log),
	}
}

func (s *FriendshipService) SendRequest(ctx context.Context, callerID, targetID int64) (*models.Friendship, error) {
	if callerID == targetID {
		return nil, apperrors.ErrSelfReference
	}

	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Storage(err, "failed to look up target user")
	}

	// The pair is unordered: an edge in either direction blocks a new one.
	if _, err := s.friendships.FindBetween(ctx, callerID, targetID); err == nil {
		return nil, apperrors.ErrDuplicateRelationship
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.Storage(err, "failed to check existing friendship")
	}

	f, err := s.friendships.Create(ctx, callerID, targetID)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateRelationship
		}
		return nil, apperrors.Storage(err, "failed to create friendship")
	}

	s.events.publish(ctx, EventFriendshipRequested, map[string]any{
		"friendship_id": f.ID,
		"user_id":       f.UserID,
		"friend_id":     f.FriendID,
		"created_at":    f.CreatedAt,
	})
	return f, nil
}

func (s *FriendshipService) Accept(ctx context.Context, callerID, friendshipID int64) (*models.Friendship, error) {
	f, err := s.load(ctx, friendshipID)
	if err != nil {
		return nil, err
	}
	if f.FriendID != callerID {
		return nil, apperrors.ErrNotParticipant
	}
	if f.Status == models.FriendshipAccepted {
		return f, nil
	}

	updated, err := s.friendships.UpdateStatus(ctx, f.ID, models.FriendshipAccepted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrRelationshipNotFound
		}
		return nil, apperrors.Storage(err, "failed to accept friendship")
	}

	s.events.publish(ctx, EventFriendshipAccepted, map[string]any{
		"friendship_id": updated.ID,
		"user_id":       updated.UserID,
		"friend_id":     updated.FriendID,
		"accepted_at":   updated.UpdatedAt,
	})
	return updated, nil
}

// Decline removes the edge. Either party may call it while any status holds.
func (s *FriendshipService) Decline(ctx context.Context, callerID, friendshipID int64) error {
	f, err := s.load(ctx, friendshipID)
	if err != nil {
		return err
	}
	if !f.Involves(callerID) {
		return apperrors.ErrNotParticipant
	}

	if err := s.friendships.Delete(ctx, f.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.ErrRelationshipNotFound
		}
		return apperrors.Storage(err, "failed to delete friendship")
	}

	s.events.publish(ctx, EventFriendshipDeclined, map[string]any{
		"friendship_id": f.ID,
		"user_id":       f.UserID,
		"friend_id":     f.FriendID,
		"by_user_id":    callerID,
		"prior_status":  f.Status,
	})
	return nil
}

func (s *FriendshipService) ListFriends(ctx context.Context, callerID int64) ([]models.UserSummary, error) {
	friends, err := s.friendships.ListFriends(ctx, callerID)
	if err != nil {
		return nil, apperrors.Storage(err, "failed to list friends")
	}
	return friends, nil
}

func (s *FriendshipService) ListIncoming(ctx context.Context, callerID int64) ([]models.IncomingRequest, error) {
	reqs, err := s.friendships.ListIncoming(ctx, callerID)
	if err != nil {
		return nil, apperrors.Storage(err, "failed to list pending requests")
	}
	return reqs, nil
}

func (s *FriendshipService) ListOutgoing(ctx context.Context, callerID int64) ([]models.OutgoingRequest, error) {
	reqs, err := s.friendships.ListOutgoing(ctx, callerID)
	if err != nil {
		return nil, apperrors.Storage(err, "failed to list sent requests")
	}
	return reqs, nil
}

// AreFriends reports whether an accepted edge joins a and b in either direction.
func (s *FriendshipService) AreFriends(ctx context.Context, a, b int64) (bool, error) {
	ok, err := s.friendships.AreFriends(ctx, a, b)
	if err != nil {
		return false, apperrors.Storage(err, "failed to check friendship")
	}
	return ok, nil
}

func (s *FriendshipService) load(ctx context.Context, friendshipID int64) (*models.Friendship, error) {
	f, err := s.friendships.GetByID(ctx, friendshipID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrRelationshipNotFound
		}
		return nil, apperrors.Storage(err, "failed to load friendship")
	}
	return f, nil
}

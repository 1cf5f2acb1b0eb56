package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-service/internal/apperrors"
	"social-service/internal/mocks"
	"social-service/internal/models"
	"social-service/internal/repositories"
)

func newFriendshipService() (*FriendshipService, *mocks.MockFriendshipRepository, *mocks.MockUserRepository, *mocks.MockPublisher) {
	friendships := new(mocks.MockFriendshipRepository)
	users := new(mocks.MockUserRepository)
	pub := new(mocks.MockPublisher)
	return NewFriendshipService(friendships, users, pub, nil), friendships, users, pub
}

func TestSendRequestSelfReference(t *testing.T) {
	svc, friendships, users, _ := newFriendshipService()

	_, err := svc.SendRequest(context.Background(), 1, 1)
	require.ErrorIs(t, err, apperrors.ErrSelfReference)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	friendships.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestSendRequestTargetMissing(t *testing.T) {
	svc, _, users, _ := newFriendshipService()
	users.On("GetByID", mock.Anything, int64(2)).Return(nil, sql.ErrNoRows).Once()

	_, err := svc.SendRequest(context.Background(), 1, 2)
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)
	users.AssertExpectations(t)
}

func TestSendRequestDuplicateEitherDirection(t *testing.T) {
	existing := []*models.Friendship{
		{ID: 5, UserID: 1, FriendID: 2, Status: models.FriendshipPending},
		{ID: 6, UserID: 2, FriendID: 1, Status: models.FriendshipAccepted},
	}

	for _, f := range existing {
		svc, friendships, users, _ := newFriendshipService()
		users.On("GetByID", mock.Anything, int64(2)).Return(&models.User{ID: 2, Username: "bob"}, nil).Once()
		friendships.On("FindBetween", mock.Anything, int64(1), int64(2)).Return(f, nil).Once()

		_, err := svc.SendRequest(context.Background(), 1, 2)
		require.ErrorIs(t, err, apperrors.ErrDuplicateRelationship)
		friendships.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestSendRequestUniqueIndexRace(t *testing.T) {
	svc, friendships, users, _ := newFriendshipService()
	users.On("GetByID", mock.Anything, int64(2)).Return(&models.User{ID: 2}, nil).Once()
	friendships.On("FindBetween", mock.Anything, int64(1), int64(2)).Return(nil, sql.ErrNoRows).Once()
	friendships.On("Create", mock.Anything, int64(1), int64(2)).Return(nil, repositories.ErrDuplicate).Once()

	_, err := svc.SendRequest(context.Background(), 1, 2)
	require.ErrorIs(t, err, apperrors.ErrDuplicateRelationship)
}

func TestSendRequestSuccess(t *testing.T) {
	svc, friendships, users, pub := newFriendshipService()
	created := &models.Friendship{ID: 9, UserID: 1, FriendID: 2, Status: models.FriendshipPending, CreatedAt: time.Now()}

	users.On("GetByID", mock.Anything, int64(2)).Return(&models.User{ID: 2}, nil).Once()
	friendships.On("FindBetween", mock.Anything, int64(1), int64(2)).Return(nil, sql.ErrNoRows).Once()
	friendships.On("Create", mock.Anything, int64(1), int64(2)).Return(created, nil).Once()
	pub.On("Publish", mock.Anything, EventFriendshipRequested, mock.Anything).Return(nil).Once()

	f, err := svc.SendRequest(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipPending, f.Status)
	assert.Equal(t, int64(9), f.ID)

	friendships.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestSendRequestPublishFailureIsIgnored(t *testing.T) {
	svc, friendships, users, pub := newFriendshipService()
	users.On("GetByID", mock.Anything, int64(2)).Return(&models.User{ID: 2}, nil).Once()
	friendships.On("FindBetween", mock.Anything, int64(1), int64(2)).Return(nil, sql.ErrNoRows).Once()
	friendships.On("Create", mock.Anything, int64(1), int64(2)).Return(&models.Friendship{ID: 1, UserID: 1, FriendID: 2}, nil).Once()
	pub.On("Publish", mock.Anything, EventFriendshipRequested, mock.Anything).Return(errors.New("broker down")).Once()

	_, err := svc.SendRequest(context.Background(), 1, 2)
	require.NoError(t, err)
}

func TestSendRequestStorageError(t *testing.T) {
	svc, friendships, users, _ := newFriendshipService()
	users.On("GetByID", mock.Anything, int64(2)).Return(&models.User{ID: 2}, nil).Once()
	friendships.On("FindBetween", mock.Anything, int64(1), int64(2)).Return(nil, errors.New("connection refused")).Once()

	_, err := svc.SendRequest(context.Background(), 1, 2)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindStorage, apperrors.KindOf(err))
}

func TestAcceptOnlyByTarget(t *testing.T) {
	svc, friendships, _, _ := newFriendshipService()
	pending := &models.Friendship{ID: 3, UserID: 1, FriendID: 2, Status: models.FriendshipPending}
	friendships.On("GetByID", mock.Anything, int64(3)).Return(pending, nil)

	_, err := svc.Accept(context.Background(), 1, 3)
	require.ErrorIs(t, err, apperrors.ErrNotParticipant)

	_, err = svc.Accept(context.Background(), 42, 3)
	require.ErrorIs(t, err, apperrors.ErrNotParticipant)

	friendships.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptSuccess(t *testing.T) {
	svc, friendships, _, pub := newFriendshipService()
	pending := &models.Friendship{ID: 3, UserID: 1, FriendID: 2, Status: models.FriendshipPending}
	accepted := &models.Friendship{ID: 3, UserID: 1, FriendID: 2, Status: models.FriendshipAccepted}

	friendships.On("GetByID", mock.Anything, int64(3)).Return(pending, nil).Once()
	friendships.On("UpdateStatus", mock.Anything, int64(3), models.FriendshipAccepted).Return(accepted, nil).Once()
	pub.On("Publish", mock.Anything, EventFriendshipAccepted, mock.Anything).Return(nil).Once()

	f, err := svc.Accept(context.Background(), 2, 3)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipAccepted, f.Status)

	friendships.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestAcceptAlreadyAcceptedIsIdempotent(t *testing.T) {
	svc, friendships, _, _ := newFriendshipService()
	accepted := &models.Friendship{ID: 3, UserID: 1, FriendID: 2, Status: models.FriendshipAccepted}
	friendships.On("GetByID", mock.Anything, int64(3)).Return(accepted, nil).Once()

	f, err := svc.Accept(context.Background(), 2, 3)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipAccepted, f.Status)
	friendships.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptNotFound(t *testing.T) {
	svc, friendships, _, _ := newFriendshipService()
	friendships.On("GetByID", mock.Anything, int64(404)).Return(nil, sql.ErrNoRows).Once()

	_, err := svc.Accept(context.Background(), 2, 404)
	require.ErrorIs(t, err, apperrors.ErrRelationshipNotFound)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestDeclineByEitherParty(t *testing.T) {
	for _, caller := range []int64{1, 2} {
		svc, friendships, _, pub := newFriendshipService()
		f := &models.Friendship{ID: 3, UserID: 1, FriendID: 2, Status: models.FriendshipPending}
		friendships.On("GetByID", mock.Anything, int64(3)).Return(f, nil).Once()
		friendships.On("Delete", mock.Anything, int64(3)).Return(nil).Once()
		pub.On("Publish", mock.Anything, EventFriendshipDeclined, mock.Anything).Return(nil).Once()

		require.NoError(t, svc.Decline(context.Background(), caller, 3))
		friendships.AssertExpectations(t)
	}
}

func TestDeclineAcceptedFriendship(t *testing.T) {
	svc, friendships, _, pub := newFriendshipService()
	f := &models.Friendship{ID: 3, UserID: 1, FriendID: 2, Status: models.FriendshipAccepted}
	friendships.On("GetByID", mock.Anything, int64(3)).Return(f, nil).Once()
	friendships.On("Delete", mock.Anything, int64(3)).Return(nil).Once()
	pub.On("Publish", mock.Anything, EventFriendshipDeclined, mock.Anything).Return(nil).Once()

	require.NoError(t, svc.Decline(context.Background(), 1, 3))
}

func TestDeclineByOutsider(t *testing.T) {
	svc, friendships, _, _ := newFriendshipService()
	f := &models.Friendship{ID: 3, UserID: 1, FriendID: 2, Status: models.FriendshipPending}
	friendships.On("GetByID", mock.Anything, int64(3)).Return(f, nil).Once()

	err := svc.Decline(context.Background(), 7, 3)
	require.ErrorIs(t, err, apperrors.ErrNotParticipant)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	friendships.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeclineRaceWithConcurrentDelete(t *testing.T) {
	svc, friendships, _, _ := newFriendshipService()
	f := &models.Friendship{ID: 3, UserID: 1, FriendID: 2}
	friendships.On("GetByID", mock.Anything, int64(3)).Return(f, nil).Once()
	friendships.On("Delete", mock.Anything, int64(3)).Return(sql.ErrNoRows).Once()

	err := svc.Decline(context.Background(), 1, 3)
	require.ErrorIs(t, err, apperrors.ErrRelationshipNotFound)
}

func TestListingsWrapStorageErrors(t *testing.T) {
	svc, friendships, _, _ := newFriendshipService()
	boom := errors.New("boom")
	friendships.On("ListFriends", mock.Anything, int64(1)).Return(nil, boom).Once()
	friendships.On("ListIncoming", mock.Anything, int64(1)).Return(nil, boom).Once()
	friendships.On("ListOutgoing", mock.Anything, int64(1)).Return(nil, boom).Once()

	_, err := svc.ListFriends(context.Background(), 1)
	assert.Equal(t, apperrors.KindStorage, apperrors.KindOf(err))
	_, err = svc.ListIncoming(context.Background(), 1)
	assert.Equal(t, apperrors.KindStorage, apperrors.KindOf(err))
	_, err = svc.ListOutgoing(context.Background(), 1)
	assert.Equal(t, apperrors.KindStorage, apperrors.KindOf(err))
	assert.ErrorIs(t, err, boom)
}

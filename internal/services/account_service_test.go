package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-service/internal/apperrors"
	"social-service/internal/auth"
	"social-service/internal/mocks"
	"social-service/internal/models"
	"social-service/internal/repositories"
)

const testSecret = "account-service-test-secret"

func newAccountService() (*AccountService, *mocks.MockUserRepository) {
	users := new(mocks.MockUserRepository)
	return NewAccountService(users, auth.NewPasswordHasher(4), testSecret, time.Hour, nil, nil), users
}

func TestRegisterThenLoginRoundTrip(t *testing.T) {
	svc, users := newAccountService()

	var storedHash string
	users.On("GetByUsername", mock.Anything, "alice").Return(nil, sql.ErrNoRows).Once()
	users.On("Create", mock.Anything, "alice", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { storedHash = args.String(2) }).
		Return(&models.User{ID: 17, Username: "alice"}, nil).Once()

	token, user, err := svc.Register(context.Background(), " alice ", "pw1234")
	require.NoError(t, err)
	assert.Equal(t, int64(17), user.ID)
	assert.NotEqual(t, "pw1234", storedHash)

	claims, err := auth.ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, int64(17), claims.UserID)

	users.On("GetByUsername", mock.Anything, "alice").
		Return(&models.User{ID: 17, Username: "alice", PasswordHash: storedHash}, nil).Once()

	loginToken, err := svc.Login(context.Background(), "alice", "pw1234")
	require.NoError(t, err)
	claims, err = auth.ParseToken(loginToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	users.AssertExpectations(t)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, users := newAccountService()
	users.On("GetByUsername", mock.Anything, "alice").Return(&models.User{ID: 1, Username: "alice"}, nil).Once()

	_, _, err := svc.Register(context.Background(), "alice", "pw1234")
	require.ErrorIs(t, err, apperrors.ErrUsernameTaken)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterDuplicateRace(t *testing.T) {
	svc, users := newAccountService()
	users.On("GetByUsername", mock.Anything, "alice").Return(nil, sql.ErrNoRows).Once()
	users.On("Create", mock.Anything, "alice", mock.Anything).Return(nil, repositories.ErrDuplicate).Once()

	_, _, err := svc.Register(context.Background(), "alice", "pw1234")
	require.ErrorIs(t, err, apperrors.ErrUsernameTaken)
}

func TestRegisterBlankUsername(t *testing.T) {
	svc, _ := newAccountService()

	_, _, err := svc.Register(context.Background(), "   ", "pw1234")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestRegisterUsernameLengthCountedAfterTrim(t *testing.T) {
	svc, users := newAccountService()

	_, _, err := svc.Register(context.Background(), "  a  ", "pw1234")
	require.ErrorIs(t, err, apperrors.ErrUsernameLength)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterUsernameTooLong(t *testing.T) {
	svc, _ := newAccountService()

	_, _, err := svc.Register(context.Background(), strings.Repeat("x", 33), "pw1234")
	require.ErrorIs(t, err, apperrors.ErrUsernameLength)
}

func TestRegisterRejectsMarkupUsername(t *testing.T) {
	svc, users := newAccountService()

	_, _, err := svc.Register(context.Background(), "<b>bob</b>", "pw1234")
	require.ErrorIs(t, err, apperrors.ErrUsernameMarkup)
	users.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
}

func TestRegisterStorageError(t *testing.T) {
	svc, users := newAccountService()
	users.On("GetByUsername", mock.Anything, "alice").Return(nil, errors.New("timeout")).Once()

	_, _, err := svc.Register(context.Background(), "alice", "pw1234")
	assert.Equal(t, apperrors.KindStorage, apperrors.KindOf(err))
}

func TestLoginFailures(t *testing.T) {
	svc, users := newAccountService()
	hash, err := auth.NewPasswordHasher(4).Hash("right")
	require.NoError(t, err)

	users.On("GetByUsername", mock.Anything, "ghost").Return(nil, sql.ErrNoRows).Once()
	users.On("GetByUsername", mock.Anything, "bob").Return(&models.User{ID: 2, Username: "bob", PasswordHash: hash}, nil).Once()

	_, err = svc.Login(context.Background(), "ghost", "whatever")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "bob", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Equal(t, 401, apperrors.HTTPStatus(apperrors.KindOf(err)))
}

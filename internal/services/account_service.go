package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"social-service/internal/apperrors"
	"social-service/internal/auth"
	"social-service/internal/models"
	"social-service/internal/rabbitmq"
	"social-service/internal/repositories"
	"social-service/internal/security"
)

type AccountService struct {
	users    repositories.UserRepository
	hasher   *auth.PasswordHasher
	secret   string
	tokenTTL time.Duration
	events   eventSink
}

func NewAccountService(users repositories.UserRepository, hasher *auth.PasswordHasher, secret string, tokenTTL time.Duration, publisher rabbitmq.Publisher, log *zap.Logger) *AccountService {
	return &AccountService{
		users:    users,
		hasher:   hasher,
		secret:   secret,
		tokenTTL: tokenTTL,
		events:   newEventSink(publisher, log),
	}
}

// Register creates an identity and returns a token for it.
func (s *AccountService) Register(ctx context.Context, username, password string) (string, *models.User, error) {
	username = security.NormalizeUsername(username)
	if !security.UsernameLengthValid(username) {
		return "", nil, apperrors.ErrUsernameLength
	}
	if security.ContainsMarkup(username) {
		return "", nil, apperrors.ErrUsernameMarkup
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return "", nil, apperrors.ErrUsernameTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return "", nil, apperrors.Storage(err, "failed to look up user")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", nil, apperrors.Wrap(err, apperrors.KindValidation, "Invalid password")
	}

	user, err := s.users.Create(ctx, username, hash)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return "", nil, apperrors.ErrUsernameTaken
		}
		return "", nil, apperrors.Storage(err, "failed to create user")
	}

	token, err := auth.IssueToken(user.ID, s.secret, s.tokenTTL)
	if err != nil {
		return "", nil, apperrors.Storage(err, "failed to issue token")
	}

	s.events.publish(ctx, EventUserRegistered, map[string]any{
		"user_id":    user.ID,
		"username":   user.Username,
		"created_at": user.CreatedAt,
	})

	return token, user, nil
}

// Login verifies a handle/password pair. Unknown handles and wrong
// passwords both yield ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, security.NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperrors.ErrInvalidCredentials
		}
		return "", apperrors.Storage(err, "failed to look up user")
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return "", apperrors.ErrInvalidCredentials
	}

	token, err := auth.IssueToken(user.ID, s.secret, s.tokenTTL)
	if err != nil {
		return "", apperrors.Storage(err, "failed to issue token")
	}
	return token, nil
}

package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"social-service/internal/apperrors"
	"social-service/internal/models"
	"social-service/internal/repositories"
	"social-service/internal/storage"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UserService is the read side of the identity store plus avatar updates.
type UserService struct {
	users          repositories.UserRepository
	avatars        storage.AvatarStore
	maxAvatarBytes int64
	log            *zap.Logger
}

func NewUserService(users repositories.UserRepository, avatars storage.AvatarStore, maxAvatarBytes int64, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{users: users, avatars: avatars, maxAvatarBytes: maxAvatarBytes, log: log}
}

// MaxAvatarBytes is the largest avatar file ChangeProfilePicture accepts.
func (s *UserService) MaxAvatarBytes() int64 { return s.maxAvatarBytes }

func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.UserSummary, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Storage(err, "failed to fetch user")
	}
	summary := user.Summary()
	return &summary, nil
}

// ListOthers returns every identity except callerID.
func (s *UserService) ListOthers(ctx context.Context, callerID int64) ([]models.UserSummary, error) {
	users, err := s.users.ListExcept(ctx, callerID)
	if err != nil {
		return nil, apperrors.Storage(err, "failed to list users")
	}
	return users, nil
}

// ChangeProfilePicture validates and stores an uploaded image, then points the
// user at it. The previous file is removed best-effort.
func (s *UserService) ChangeProfilePicture(ctx context.Context, userID int64, size int64, r io.Reader) (string, error) {
	if size > s.maxAvatarBytes {
		return "", apperrors.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxAvatarBytes+1))
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.KindValidation, "Failed to read upload")
	}
	if int64(len(data)) > s.maxAvatarBytes {
		return "", apperrors.ErrFileTooLarge
	}
	if len(data) == 0 {
		return "", apperrors.ErrMissingFile
	}

	ext, ok := allowedImageTypes[mimetype.Detect(data).String()]
	if !ok {
		return "", apperrors.ErrUnsupportedImage
	}

	current, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperrors.ErrUserNotFound
		}
		return "", apperrors.Storage(err, "failed to fetch user")
	}

	url, err := s.avatars.Save(ctx, userID, ext, bytes.NewReader(data))
	if err != nil {
		return "", apperrors.Storage(err, "failed to save file")
	}

	if err := s.users.SetProfilePicture(ctx, userID, url); err != nil {
		_ = s.avatars.Remove(ctx, url)
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperrors.ErrUserNotFound
		}
		return "", apperrors.Storage(err, "failed to update profile picture")
	}

	if current.ProfilePicture != nil && *current.ProfilePicture != "" {
		if err := s.avatars.Remove(ctx, *current.ProfilePicture); err != nil {
			s.log.Warn("failed to remove previous avatar", zap.Int64("user_id", userID), zap.Error(err))
		}
	}

	return url, nil
}

package handlers

import (
	"errors"
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"social-service/internal/apperrors"
	"social-service/internal/models"
	"social-service/internal/services"
)

const (
	profilePictureField = "profilePicture"
	// room for multipart boundaries and part headers around the file
	multipartOverhead = 64 << 10
)

type UserHandler struct {
	users *services.UserService
	log   *zap.Logger
}

func NewUserHandler(users *services.UserService, log *zap.Logger) *UserHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserHandler{users: users, log: log}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListOthers(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(nethttp.StatusOK, normalizeSummaries(c, users))
}

func (h *UserHandler) GetMe(c *gin.Context) {
	me, err := h.users.GetUserByID(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	me.ProfilePicture = absoluteURL(c, me.ProfilePicture)
	c.JSON(nethttp.StatusOK, me)
}

func (h *UserHandler) UploadProfilePicture(c *gin.Context) {
	limit := h.users.MaxAvatarBytes() + multipartOverhead
	if c.Request.ContentLength > limit {
		respondError(c, h.log, apperrors.ErrFileTooLarge)
		return
	}
	c.Request.Body = nethttp.MaxBytesReader(c.Writer, c.Request.Body, limit)

	file, err := c.FormFile(profilePictureField)
	if err != nil {
		var tooLarge *nethttp.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, h.log, apperrors.ErrFileTooLarge)
			return
		}
		respondError(c, h.log, apperrors.ErrMissingFile)
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, h.log, apperrors.Wrap(err, apperrors.KindValidation, "Failed to read upload"))
		return
	}
	defer src.Close()

	url, err := h.users.ChangeProfilePicture(c.Request.Context(), callerID(c), file.Size, src)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(nethttp.StatusOK, gin.H{profilePictureField: absoluteURL(c, &url)})
}

func normalizeSummaries(c *gin.Context, users []models.UserSummary) []models.UserSummary {
	out := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		u.ProfilePicture = absoluteURL(c, u.ProfilePicture)
		out = append(out, u)
	}
	return out
}

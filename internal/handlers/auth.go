package handlers

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"social-service/internal/apperrors"
	"social-service/internal/metrics"
	"social-service/internal/services"
	"social-service/internal/telemetry"
)

type AuthHandler struct {
	accounts *services.AccountService
	auditor
	log *zap.Logger
}

func NewAuthHandler(accounts *services.AccountService, audit *telemetry.AuditEmitter, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{accounts: accounts, auditor: auditor{audit: audit}, log: log}
}

type credentialsBody struct {
	Username string `json:"username" binding:"required,min=2,max=32"`
	Password string `json:"password" binding:"required,min=4,max=72"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var body credentialsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		metrics.IncRegistration(metrics.StatusFailed)
		c.JSON(nethttp.StatusBadRequest, gin.H{"message": "username (2-32 chars) and password (4-72 chars) are required"})
		return
	}

	token, user, err := h.accounts.Register(c.Request.Context(), body.Username, body.Password)
	metrics.IncRegistration(metrics.StatusOf(err))
	if err != nil {
		kind := apperrors.KindOf(err)
		if kind == apperrors.KindStorage {
			h.emitAudit(c, telemetry.LevelError, "auth.register", "registration failed")
			respondError(c, h.log, err)
			return
		}
		c.JSON(apperrors.HTTPStatus(kind), gin.H{"message": apperrors.MessageOf(err)})
		return
	}

	h.emitAudit(c, telemetry.LevelInfo, "auth.register", "User '"+user.Username+"' registered")
	c.JSON(nethttp.StatusOK, gin.H{"token": token, "userId": user.ID})
}

type loginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login answers every credential failure with a bare 401.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Username == "" || body.Password == "" {
		c.AbortWithStatus(nethttp.StatusUnauthorized)
		return
	}

	token, err := h.accounts.Login(c.Request.Context(), body.Username, body.Password)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindUnauthenticated {
			c.AbortWithStatus(nethttp.StatusUnauthorized)
			return
		}
		respondError(c, h.log, err)
		return
	}

	c.JSON(nethttp.StatusOK, gin.H{"token": token})
}

package handlers

import (
	"fmt"
	nethttp "net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"social-service/internal/apperrors"
	"social-service/internal/middleware"
	"social-service/internal/telemetry"
)

var absoluteURLPattern = regexp.MustCompile(`(?i)^https?://`)

func requestIDFromHeader(c *gin.Context) string {
	if requestID := middleware.GetRequestID(c); requestID != "" {
		return requestID
	}
	requestID := c.GetHeader(middleware.RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return requestID
}

func userIDFromContext(c *gin.Context) *int64 {
	if userIDVal, ok := c.Get(middleware.UserIDKey); ok {
		if userID, ok := userIDVal.(int64); ok {
			return &userID
		}
	}
	return nil
}

// callerID is for routes behind JWTAuth, where the id is always set.
func callerID(c *gin.Context) int64 {
	return c.GetInt64(middleware.UserIDKey)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(nethttp.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// respondError writes the client-facing view of err. Storage failures are
// logged with the request id and surface as a generic 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	kind := apperrors.KindOf(err)
	if kind == apperrors.KindStorage && log != nil {
		log.Error("request failed",
			zap.String("request_id", requestIDFromHeader(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(apperrors.HTTPStatus(kind), gin.H{"error": apperrors.MessageOf(err)})
}

// absoluteURL expands a stored relative avatar path against the public origin
// the client used, honouring reverse-proxy headers.
func absoluteURL(c *gin.Context, url *string) *string {
	if url == nil || *url == "" {
		return nil
	}
	if absoluteURLPattern.MatchString(*url) {
		return url
	}

	scheme := c.GetHeader("X-Forwarded-Proto")
	if scheme == "" {
		scheme = "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
	}
	host := c.GetHeader("X-Forwarded-Host")
	if host == "" {
		host = c.Request.Host
	}

	path := *url
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	out := fmt.Sprintf("%s://%s%s", scheme, host, path)
	return &out
}

type auditor struct {
	audit *telemetry.AuditEmitter
}

func (a auditor) emitAudit(c *gin.Context, level, action, text string) {
	if a.audit == nil {
		return
	}
	a.audit.EmitAudit(c.Request.Context(), level, action, text, requestIDFromHeader(c), userIDFromContext(c))
}

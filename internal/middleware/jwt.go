package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"social-service/internal/auth"
)

const UserIDKey = "userID"

// JWTAuth rejects requests without a verifiable token. A missing header is
// 401, a present but invalid one is 403; neither carries a body.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := auth.Authenticate(c.GetHeader("Authorization"), secret)
		if err != nil {
			if errors.Is(err, auth.ErrMissingCredentials) {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

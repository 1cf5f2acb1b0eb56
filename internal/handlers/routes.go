package handlers

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"social-service/internal/middleware"
)

type Handlers struct {
	Auth        *AuthHandler
	Users       *UserHandler
	Friendships *FriendshipHandler
	Messages    *MessageHandler
}

// RegisterRoutes mounts the public API. Everything outside /auth sits behind JWTAuth.
func RegisterRoutes(r *gin.Engine, h Handlers, jwtSecret string) {
	authGroup := r.Group("/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)

	protected := r.Group("", middleware.JWTAuth(jwtSecret))

	protected.GET("/users", h.Users.ListUsers)
	protected.GET("/users/me", h.Users.GetMe)
	protected.POST("/users/profile-picture", h.Users.UploadProfilePicture)

	protected.GET("/friendships", h.Friendships.ListFriends)
	protected.POST("/friendships/request/:userId", h.Friendships.SendRequest)
	protected.POST("/friendships/accept/:friendshipId", h.Friendships.Accept)
	protected.GET("/friendships/requests/pending", h.Friendships.ListIncoming)
	protected.GET("/friendships/all-pending", h.Friendships.ListOutgoing)
	protected.POST("/friendships/decline/:friendshipId", h.Friendships.Decline)

	protected.GET("/messages", h.Messages.List)
	protected.POST("/messages", h.Messages.Send)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(nethttp.StatusNotFound, gin.H{"error": "Not found"})
	})
}

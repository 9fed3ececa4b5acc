package http

import (
	"net/http"

	"givelink/auth"
	"givelink/errors"
	"givelink/observability"
	"givelink/services"

	"github.com/gin-gonic/gin"
)

// RequireCompletedProfile gates the matching and messaging surfaces: only
// users who finished the setup flow may search or converse.
func RequireCompletedProfile(profiles services.IProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := profiles.Get(auth.MustUserID(c))
		if err != nil {
			writeError(c, err)
			c.Abort()
			return
		}
		if !profile.Complete {
			writeError(c, errors.ErrProfileIncomplete)
			c.Abort()
			return
		}
		c.Next()
	}
}

// NewRouter assembles the full HTTP surface. The media directory is served
// statically so profile image URLs resolve without a handler.
func NewRouter(
	authHandler *AuthHandler,
	profileHandler *ProfileHandler,
	searchHandler *SearchHandler,
	chatHandler *ChatHandler,
	wsHandler *WSHandler,
	profileService services.IProfileService,
	monitor *observability.Monitor,
	mediaDir string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/internal/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, monitor.Snapshot())
	})
	r.Static("/media", mediaDir)

	r.POST("/api/v1/auth/register", authHandler.Register)
	r.POST("/api/v1/auth/login", authHandler.Login)

	// The socket authenticates through its token query param.
	r.GET("/ws", wsHandler.Handle)

	authed := r.Group("/api/v1")
	authed.Use(auth.Middleware())

	authed.GET("/me", authHandler.Me)
	authed.POST("/profile/setup", profileHandler.Setup)
	authed.PUT("/profile", profileHandler.Edit)
	authed.POST("/profile/image", profileHandler.UploadImage)

	completed := authed.Group("")
	completed.Use(RequireCompletedProfile(profileService))

	completed.GET("/search", searchHandler.Search)
	completed.POST("/conversations", chatHandler.StartConversation)
	completed.GET("/conversations", chatHandler.ListConversations)
	completed.GET("/conversations/:id/messages", chatHandler.ListMessages)
	completed.POST("/conversations/:id/messages", chatHandler.SendMessage)

	return r
}

package main

import (
	"github.com/campushive/backend/internal/middleware"
	"github.com/campushive/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine and
// returns the rate limiter so the caller can stop it.
func registerRoutes(r *gin.Engine, svc *appServices) *middleware.RateLimiter {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.Use(middleware.CORS(svc.cfg.Server.CORSOrigins))

	// Rate limiter for credential routes
	authLimiter := middleware.NewRateLimiter(svc.cfg.RateLimit.RPS, svc.cfg.RateLimit.Burst)

	api := r.Group("/api")
	{
		api.GET("/health", svc.health.CheckHealth)

		// Auth routes (public, rate limited)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/register", svc.auth.Register)
			auth.POST("/login", svc.auth.Login)
			auth.POST("/refresh", svc.auth.Refresh)
		}

		// Chat stream (token may come from the query string)
		api.GET("/chat/rooms/:id/stream", middleware.StreamAuthRequired(), svc.sse.StreamRoom)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Auth
			protected.GET("/auth/me", svc.auth.Me)
			protected.POST("/auth/logout", svc.auth.Logout)

			// Users
			protected.PUT("/users/me", svc.user.UpdateMe)
			protected.GET("/users/me/bookmarks", svc.user.MyBookmarks)
			protected.GET("/users/:id", svc.user.GetByID)

			// Projects
			protected.GET("/projects", svc.project.List)
			protected.POST("/projects", svc.project.Create)
			protected.GET("/projects/:id", svc.project.GetByID)
			protected.PUT("/projects/:id", svc.project.Update)
			protected.DELETE("/projects/:id", svc.project.Delete)

			// Members
			protected.GET("/projects/:id/members", svc.member.List)
			protected.POST("/projects/:id/members", svc.member.Add)
			protected.DELETE("/projects/:id/members/:userId", svc.member.Remove)

			// Upvotes and bookmarks
			protected.POST("/projects/:id/upvote", svc.interaction.ToggleUpvote)
			protected.GET("/projects/:id/upvote", svc.interaction.UpvoteStatus)
			protected.POST("/projects/:id/bookmark", svc.interaction.ToggleBookmark)
			protected.GET("/projects/:id/bookmark", svc.interaction.BookmarkStatus)

			// Comments
			protected.GET("/projects/:id/comments", svc.comment.List)
			protected.POST("/projects/:id/comments", svc.comment.Create)
			protected.GET("/comments/:id/thread", svc.comment.Thread)
			protected.DELETE("/comments/:id", svc.comment.Delete)

			// Recommendations
			protected.GET("/projects/:id/recommendations", svc.recommendation.ForProject)
			protected.GET("/matches/me", svc.recommendation.Mine)

			// Notifications
			protected.GET("/notifications", svc.notification.List)
			protected.GET("/notifications/unread-count", svc.notification.UnreadCount)
			protected.PUT("/notifications/read-all", svc.notification.MarkAllRead)
			protected.PUT("/notifications/:id/read", svc.notification.MarkRead)

			// Chat
			protected.GET("/projects/:id/chat", svc.chat.RoomForProject)
			protected.GET("/chat/rooms/:id/messages", svc.chat.History)
			protected.POST("/chat/rooms/:id/messages", svc.chat.Post)
			protected.DELETE("/chat/messages/:id", svc.chat.Delete)

			// Events
			protected.GET("/events", svc.event.List)
			protected.POST("/events", svc.event.Create)
			protected.GET("/events/:id", svc.event.GetByID)
			protected.PUT("/events/:id", svc.event.Update)
			protected.DELETE("/events/:id", svc.event.Delete)
		}
	}

	return authLimiter
}

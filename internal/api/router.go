package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/linkup-social/linkup-be/internal/api/handlers"
	"github.com/linkup-social/linkup-be/internal/auth"
	"github.com/linkup-social/linkup-be/internal/ratelimit"
	"github.com/linkup-social/linkup-be/internal/services"
	"github.com/linkup-social/linkup-be/internal/websocket"
)

// Services bundles everything the router needs.
type Services struct {
	Users         services.UserServiceProvider
	Follows       services.FollowServiceProvider
	Notifications services.NotificationServiceProvider
	Posts         services.PostServiceProvider
	Stories       services.StoryServiceProvider
	Messages      services.MessageServiceProvider
	Reports       services.ReportServiceProvider
}

// NewRouter creates and configures a new Chi router.
func NewRouter(hub *websocket.Hub, svc Services, followLimiter *ratelimit.Limiter) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(svc.Users)
	profileHandler := handlers.NewProfileHandler(svc.Users, svc.Follows)
	postHandler := handlers.NewPostHandler(svc.Posts)
	notificationHandler := handlers.NewNotificationHandler(svc.Notifications)
	storyHandler := handlers.NewStoryHandler(svc.Stories)
	messageHandler := handlers.NewMessageHandler(svc.Messages)
	reportHandler := handlers.NewReportHandler(svc.Reports)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// Public routes
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.With(auth.JWTMiddleware()).Get("/me", authHandler.GetMe)
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.JWTMiddleware())

		// WebSocket connection endpoint
		r.Get("/ws", wsHandler.Serve)

		r.Route("/profile", func(r chi.Router) {
			r.Put("/", profileHandler.Update)
			r.Get("/{userId}", profileHandler.Get)
			r.With(followLimiter.Middleware()).Post("/follow/{userId}", profileHandler.Follow)
			r.Put("/follow-requests/{requestId}/accept", profileHandler.AcceptRequest)
			r.Delete("/follow-requests/{requestId}/reject", profileHandler.RejectRequest)
			r.Get("/follow-requests/pending", profileHandler.PendingRequests)
			r.Delete("/unfollow/{userId}", profileHandler.Unfollow)
			r.Get("/followers/{userId}", profileHandler.Followers)
			r.Get("/following/{userId}", profileHandler.Following)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Post("/", postHandler.Create)
			r.Get("/feed", postHandler.Feed)
			r.Get("/user/{userId}", postHandler.ListUserPosts)
			r.Route("/{postId}", func(r chi.Router) {
				r.Get("/", postHandler.Get)
				r.Delete("/", postHandler.Delete)
				r.Post("/like", postHandler.Like)
				r.Delete("/like", postHandler.Unlike)
				r.Post("/comments", postHandler.CreateComment)
				r.Get("/comments", postHandler.ListComments)
			})
		})
		r.Delete("/comments/{commentId}", postHandler.DeleteComment)

		r.Route("/stories", func(r chi.Router) {
			r.Post("/", storyHandler.Create)
			r.Get("/user/{userId}", storyHandler.ListUserStories)
			r.Delete("/{storyId}", storyHandler.Delete)
		})

		r.Route("/highlights", func(r chi.Router) {
			r.Post("/", storyHandler.CreateHighlight)
			r.Get("/user/{userId}", storyHandler.ListUserHighlights)
			r.Delete("/{id}", storyHandler.DeleteHighlight)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", notificationHandler.List)
			r.Get("/unread-count", notificationHandler.UnreadCount)
			r.Put("/read-all", notificationHandler.MarkAllRead)
			r.Put("/{id}/read", notificationHandler.MarkRead)
			r.Delete("/{id}", notificationHandler.Delete)
		})

		r.Route("/messages/{userId}", func(r chi.Router) {
			r.Get("/", messageHandler.Conversation)
			r.Post("/", messageHandler.Send)
		})

		r.Post("/reports", reportHandler.Create)

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.AdminOnly())
			r.Get("/reports", reportHandler.List)
			r.Put("/reports/{id}/resolve", reportHandler.Resolve)
		})
	})

	return r
}

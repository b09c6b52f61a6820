package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/taskdeck-be/internal/api/handlers"
	apimiddleware "github.com/isdelr/taskdeck-be/internal/api/middleware"
	"github.com/isdelr/taskdeck-be/internal/auth"
	"github.com/isdelr/taskdeck-be/internal/logger"
	"github.com/isdelr/taskdeck-be/internal/services"
	"github.com/isdelr/taskdeck-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(corsOrigin string, tokens *auth.TokenManager, taskService services.TaskServiceProvider, userService services.UserServiceProvider, hub *websocket.Hub) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack. The access logger sits outside Recoverer so
	// it observes the final status of every request, panics included.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apimiddleware.AccessLogger(logger.Access()))
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	taskHandler := handlers.NewTaskHandler(taskService)
	userHandler := handlers.NewUserHandler(userService, tokens)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// Public endpoints: registration and token issuance
	r.Post("/register", userHandler.Register)
	r.Post("/auth/login", userHandler.Login)
	r.Post("/auth/refresh", userHandler.Refresh)

	// Everything below requires a valid bearer token. That includes the
	// activity feed: audit events carry task ids and actor usernames.
	r.Group(func(r chi.Router) {
		r.Use(tokens.Middleware())

		r.Get("/auth/me", userHandler.Me)
		r.Get("/ws", wsHandler.Serve)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.List)
			r.Post("/", taskHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.Get)
				r.Put("/", taskHandler.Update)
				r.Patch("/", taskHandler.Update)
				r.Delete("/", taskHandler.Delete)
				r.Put("/complete", taskHandler.Complete)
			})
		})
	})

	return r
}

package handlers

import (
	"net/http"

	"dating-backend/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the HTTP routes
func NewRouter(users *UserHandler, photos *PhotoHandler, health *HealthHandler, tokens middleware.TokenValidator) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/healthz", health.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(tokens))

		r.Get("/users", users.ListUsers)
		r.Get("/users/{id}", users.GetUser)
		r.Get("/users/{id}/likes/{recipientId}", users.GetLike)
		r.Get("/users/{id}/photos/main", photos.GetMainPhoto)
		r.Get("/photos/{id}", photos.GetPhoto)
	})

	return r
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

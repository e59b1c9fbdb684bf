package follow

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the /follows router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// All routes require authentication
	r.Use(authMiddleware)

	r.Post("/check", h.BatchCheck)
	r.Get("/mutual", h.Mutual)
	r.Get("/suggestions", h.Suggestions)

	r.Get("/requests", h.PendingRequests)
	r.Post("/requests/{id}/accept", h.AcceptRequest)
	r.Post("/requests/{id}/decline", h.DeclineRequest)
	r.Delete("/requests/out/{id}", h.CancelRequest)
	r.Delete("/followers/{id}", h.RemoveFollower)

	r.Post("/{id}", h.Follow)
	r.Delete("/{id}", h.Unfollow)
	r.Get("/{id}/status", h.Status)

	return r
}

// UserRoutes returns routes mounted under /users/{id}
func (h *Handler) UserRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/{id}/follow-stats", h.Stats)
	r.Get("/{id}/followers", h.Followers)
	r.Get("/{id}/following", h.Following)

	return r
}

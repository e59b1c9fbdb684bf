package block

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the /blocks router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// All routes require authentication
	r.Use(authMiddleware)

	r.Get("/", h.ListBlocked)
	r.Post("/{id}", h.BlockUser)
	r.Delete("/{id}", h.UnblockUser)

	return r
}

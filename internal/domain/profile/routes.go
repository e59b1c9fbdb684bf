package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes registers profile endpoints. Privacy toggling lives in the follow
// routes because flipping public releases pending follow requests.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpdateMe)
	r.Post("/me/avatar", h.UploadAvatar)
	r.Get("/{id}", h.GetByID)

	return r
}

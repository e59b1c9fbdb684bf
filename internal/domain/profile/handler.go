package profile

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/thittam1hub/hub-api/internal/middleware"
	"github.com/thittam1hub/hub-api/internal/pkg/response"
	"github.com/thittam1hub/hub-api/internal/pkg/validator"
)

const maxAvatarUploadBytes = 10 << 20 // 10 MB

// Handler handles profile HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates profile handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetMe handles GET /profiles/me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	p, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			response.NotFound(w, "Profile not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, FromEntity(p))
}

// GetByID handles GET /profiles/{id}
// @Summary Get a user's profile
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response{data=ProfileResponse}
// @Failure 400,404 {object} response.Response
// @Router /profiles/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	p, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			response.NotFound(w, "Profile not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, FromEntity(p))
}

// UpdateMe handles PUT /profiles/me
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(&req); details != nil {
		response.ValidationError(w, details)
		return
	}

	userID := middleware.GetUserID(r.Context())
	p, err := h.service.Update(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			response.NotFound(w, "Profile not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, FromEntity(p))
}

// UploadAvatar handles POST /profiles/me/avatar (multipart form, field "avatar")
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarUploadBytes)
	if err := r.ParseMultipartForm(maxAvatarUploadBytes); err != nil {
		response.BadRequest(w, "Invalid multipart form or file too large")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		response.BadRequest(w, "Missing avatar file")
		return
	}
	defer file.Close()

	userID := middleware.GetUserID(r.Context())
	p, err := h.service.UploadAvatar(r.Context(), userID, file, header.Filename)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidImage):
			response.BadRequest(w, "File is not a valid image")
		case errors.Is(err, ErrProfileNotFound):
			response.NotFound(w, "Profile not found")
		default:
			response.InternalError(w)
		}
		return
	}
	response.OK(w, FromEntity(p))
}

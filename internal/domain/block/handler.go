package block

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/thittam1hub/hub-api/internal/middleware"
	"github.com/thittam1hub/hub-api/internal/pkg/response"
)

// ProfileFetcher interface to retrieve user details
type ProfileFetcher interface {
	GetUserProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error)
}

// UserProfile represents user profile data
type UserProfile struct {
	UserID    uuid.UUID
	FullName  string
	AvatarURL *string
}

// Handler handles block HTTP requests
type Handler struct {
	service        *Service
	profileFetcher ProfileFetcher
}

// NewHandler creates block handler
func NewHandler(service *Service, profileFetcher ProfileFetcher) *Handler {
	return &Handler{
		service:        service,
		profileFetcher: profileFetcher,
	}
}

// BlockUser handles POST /blocks/{id}
// @Summary Block a user
// @Description Block a user. Any follow relationship between the two users is removed in both directions.
// @Tags Blocks
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID to block"
// @Success 200 {object} response.Response
// @Failure 400,500 {object} response.Response
// @Router /blocks/{id} [post]
func (h *Handler) BlockUser(w http.ResponseWriter, r *http.Request) {
	targetUserID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.service.BlockUser(r.Context(), userID, targetUserID); err != nil {
		if errors.Is(err, ErrSelfBlock) {
			response.BadRequest(w, "Cannot block yourself")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"status": "ok"})
}

// UnblockUser handles DELETE /blocks/{id}
// @Summary Unblock a user
// @Tags Blocks
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID to unblock"
// @Success 200 {object} response.Response
// @Failure 400,500 {object} response.Response
// @Router /blocks/{id} [delete]
func (h *Handler) UnblockUser(w http.ResponseWriter, r *http.Request) {
	targetUserID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.service.UnblockUser(r.Context(), userID, targetUserID); err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"status": "ok"})
}

// ListBlocked handles GET /blocks
func (h *Handler) ListBlocked(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	blocks, err := h.service.ListMyBlocks(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}

	// Enrich with profile data
	items := make([]*BlockedUserResponse, 0, len(blocks))
	for _, blk := range blocks {
		profile, err := h.profileFetcher.GetUserProfile(r.Context(), blk.BlockedUserID)
		if err != nil {
			// Fallback to minimal data
			items = append(items, FromEntity(blk, "Unknown", nil))
			continue
		}
		items = append(items, FromEntity(blk, profile.FullName, profile.AvatarURL))
	}

	response.OK(w, items)
}

package follow

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/thittam1hub/hub-api/internal/middleware"
	"github.com/thittam1hub/hub-api/internal/pkg/response"
	"github.com/thittam1hub/hub-api/internal/pkg/validator"
)

// Handler handles follow HTTP requests
type Handler struct {
	service        *Service
	hub            *Hub
	allowedOrigins []string
}

// NewHandler creates follow handler. hub may be nil when the realtime
// stream is disabled.
func NewHandler(service *Service, hub *Hub, allowedOrigins []string) *Handler {
	return &Handler{
		service:        service,
		hub:            hub,
		allowedOrigins: allowedOrigins,
	}
}

// Follow handles POST /follows/{id}
// @Summary Follow a user
// @Description Follow a user. Private targets receive a pending request instead of an immediate follow.
// @Tags Follows
// @Produce json
// @Security BearerAuth
// @Param id path string true "Target user ID"
// @Success 200 {object} response.Response{data=ActionResponse}
// @Failure 400,403,409,429,500 {object} response.Response
// @Router /follows/{id} [post]
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	actorID := middleware.GetUserID(r.Context())
	result := h.service.Follow(r.Context(), actorID, targetID)
	h.writeResult(w, result)
}

// Unfollow handles DELETE /follows/{id}
// @Summary Unfollow a user
// @Tags Follows
// @Produce json
// @Security BearerAuth
// @Param id path string true "Target user ID"
// @Success 200 {object} response.Response
// @Failure 400,500 {object} response.Response
// @Router /follows/{id} [delete]
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	actorID := middleware.GetUserID(r.Context())
	if !h.service.Unfollow(r.Context(), actorID, targetID) {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"status": "ok"})
}

// CancelRequest handles DELETE /follows/requests/out/{id}
func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	actorID := middleware.GetUserID(r.Context())
	if !h.service.CancelRequest(r.Context(), actorID, targetID) {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"status": "ok"})
}

// AcceptRequest handles POST /follows/requests/{id}/accept
// @Summary Accept a follow request
// @Description Accept an inbound pending follow request addressed to the current user.
// @Tags Follows
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} response.Response
// @Failure 400,404 {object} response.Response
// @Router /follows/requests/{id}/accept [post]
func (h *Handler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid request ID")
		return
	}

	actorID := middleware.GetUserID(r.Context())
	if !h.service.AcceptRequest(r.Context(), actorID, requestID) {
		response.NotFound(w, "Follow request not found")
		return
	}

	response.OK(w, map[string]string{"status": "accepted"})
}

// DeclineRequest handles POST /follows/requests/{id}/decline
func (h *Handler) DeclineRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid request ID")
		return
	}

	actorID := middleware.GetUserID(r.Context())
	if !h.service.DeclineRequest(r.Context(), actorID, requestID) {
		response.NotFound(w, "Follow request not found")
		return
	}

	response.OK(w, map[string]string{"status": "declined"})
}

// PendingRequests handles GET /follows/requests
func (h *Handler) PendingRequests(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	limit, offset := paging(r)

	items, err := h.service.PendingRequests(r.Context(), actorID, limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, items)
}

// RemoveFollower handles DELETE /follows/followers/{id}
// @Summary Remove a follower
// @Description Forcibly end an inbound relationship so the given user no longer follows you.
// @Tags Follows
// @Security BearerAuth
// @Param id path string true "Follower user ID"
// @Router /follows/followers/{id} [delete]
func (h *Handler) RemoveFollower(w http.ResponseWriter, r *http.Request) {
	followerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	actorID := middleware.GetUserID(r.Context())
	if !h.service.RemoveFollower(r.Context(), actorID, followerID) {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"status": "ok"})
}

// Status handles GET /follows/{id}/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	actorID := middleware.GetUserID(r.Context())
	state, err := h.service.Status(r.Context(), actorID, targetID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, &StatusResponse{State: state})
}

// BatchCheck handles POST /follows/check
// @Summary Batch follows-me check
// @Description Answer "does this user follow me" for up to 100 ids in a single query.
// @Tags Follows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=BatchCheckResponse}
// @Failure 400,422 {object} response.Response
// @Router /follows/check [post]
func (h *Handler) BatchCheck(w http.ResponseWriter, r *http.Request) {
	var req BatchCheckRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(&req); details != nil {
		response.ValidationError(w, details)
		return
	}

	actorID := middleware.GetUserID(r.Context())
	result := h.service.BatchFollowsMe(r.Context(), actorID, req.UserIDs)

	follows := make(map[string]bool, len(result))
	for id, ok := range result {
		follows[id.String()] = ok
	}
	response.OK(w, &BatchCheckResponse{FollowsMe: follows})
}

// Mutual handles GET /follows/mutual
func (h *Handler) Mutual(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	cards, err := h.service.MutualFollowers(r.Context(), actorID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, cards)
}

// Suggestions handles GET /follows/suggestions
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())
	limit, _ := paging(r)

	cards, err := h.service.Suggestions(r.Context(), actorID, limit)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, cards)
}

// Stats handles GET /users/{id}/follow-stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	actorID := middleware.GetUserID(r.Context())
	stats, err := h.service.StatsFor(r.Context(), actorID, userID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, stats)
}

// Followers handles GET /users/{id}/followers
func (h *Handler) Followers(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	limit, offset := paging(r)
	items, err := h.service.Followers(r.Context(), userID, limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, items)
}

// Following handles GET /users/{id}/following
func (h *Handler) Following(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	limit, offset := paging(r)
	items, err := h.service.Following(r.Context(), userID, limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, items)
}

// SetPrivacy handles PATCH /profiles/me/privacy
// @Summary Toggle account privacy
// @Description Flip the private flag. Switching to public auto-accepts all pending inbound requests.
// @Tags Follows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400,422,500 {object} response.Response
// @Router /profiles/me/privacy [patch]
func (h *Handler) SetPrivacy(w http.ResponseWriter, r *http.Request) {
	var req PrivacyRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if details := validator.Validate(&req); details != nil {
		response.ValidationError(w, details)
		return
	}

	actorID := middleware.GetUserID(r.Context())
	if !h.service.SetAccountPrivacy(r.Context(), actorID, *req.IsPrivate) {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]bool{"is_private": *req.IsPrivate})
}

// writeResult maps the tagged outcome to HTTP so policy rejections stay
// distinguishable from generic failure on the wire.
func (h *Handler) writeResult(w http.ResponseWriter, result Result) {
	resp := ActionResponseFromResult(result)

	switch result.Outcome {
	case OutcomeSuccess, OutcomeRequestSent:
		response.OK(w, resp)
	case OutcomeAlreadyFollowing:
		response.Conflict(w, "Already following this user")
	case OutcomeBlocked:
		response.Forbidden(w, "You cannot follow this user")
	case OutcomeRateLimited:
		response.ErrorWithDetails(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED",
			"Too many follow requests, please wait",
			map[string]string{"remaining": strconv.Itoa(result.Remaining)})
	case OutcomeCooldownActive:
		response.ErrorWithDetails(w, http.StatusTooManyRequests, "FOLLOW_COOLDOWN",
			"You recently unfollowed this user, please wait before re-following",
			map[string]string{"retry_at": result.RetryAt.Format(time.RFC3339)})
	default:
		switch result.Message {
		case msgNotAuthenticated:
			response.Unauthorized(w, result.Message)
		case msgSelfFollow:
			response.BadRequest(w, result.Message)
		default:
			response.InternalError(w)
		}
	}
}

func paging(r *http.Request) (limit, offset int) {
	limit = 20
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

package follow

import (
	"time"

	"github.com/google/uuid"
)

// BatchCheckRequest for POST /follows/check
type BatchCheckRequest struct {
	UserIDs []uuid.UUID `json:"user_ids" validate:"required,min=1,max=100"`
}

// BatchCheckResponse maps every requested id to whether they follow the caller
type BatchCheckResponse struct {
	FollowsMe map[string]bool `json:"follows_me"`
}

// PrivacyRequest for PATCH /profiles/me/privacy
type PrivacyRequest struct {
	IsPrivate *bool `json:"is_private" validate:"required"`
}

// ActionResponse reports the outcome of a follow attempt. Remaining and
// retry_at are only set for the throttling outcomes.
type ActionResponse struct {
	Outcome   Outcome    `json:"outcome"`
	Remaining *int       `json:"remaining,omitempty"`
	RetryAt   *time.Time `json:"retry_at,omitempty"`
	Message   string     `json:"message,omitempty"`
}

// ActionResponseFromResult converts a Result to its API shape
func ActionResponseFromResult(res Result) *ActionResponse {
	resp := &ActionResponse{Outcome: res.Outcome, Message: res.Message}
	switch res.Outcome {
	case OutcomeRateLimited:
		remaining := res.Remaining
		resp.Remaining = &remaining
	case OutcomeCooldownActive:
		retryAt := res.RetryAt
		resp.RetryAt = &retryAt
	}
	return resp
}

// StatusResponse for GET /follows/{id}/status
type StatusResponse struct {
	State State `json:"state"`
}

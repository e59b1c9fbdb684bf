package follow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/thittam1hub/hub-api/internal/middleware"
)

func newHandlerEnv(t *testing.T) (*Handler, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	return NewHandler(env.service, nil, nil), env
}

func authedRequest(method, target string, body string, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func serveRoutes(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	passthrough := func(next http.Handler) http.Handler { return next }
	router := h.Routes(passthrough)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestFollowEndpointSuccess(t *testing.T) {
	h, _ := newHandlerEnv(t)
	target := uuid.New()

	w := serveRoutes(h, authedRequest(http.MethodPost, "/"+target.String(), "", uuid.New()))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Outcome string `json:"outcome"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if !body.Success || body.Data.Outcome != "success" {
		t.Fatalf("unexpected envelope: %s", w.Body.String())
	}
}

func TestFollowEndpointDuplicateIsConflict(t *testing.T) {
	h, _ := newHandlerEnv(t)
	actor, target := uuid.New(), uuid.New()

	serveRoutes(h, authedRequest(http.MethodPost, "/"+target.String(), "", actor))
	w := serveRoutes(h, authedRequest(http.MethodPost, "/"+target.String(), "", actor))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate follow, got %d", w.Code)
	}
}

func TestFollowEndpointBlockedIsForbidden(t *testing.T) {
	h, env := newHandlerEnv(t)
	actor, target := uuid.New(), uuid.New()
	env.blocks.block(target, actor)

	w := serveRoutes(h, authedRequest(http.MethodPost, "/"+target.String(), "", actor))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for blocked pair, got %d", w.Code)
	}
}

func TestFollowEndpointSelfIsBadRequest(t *testing.T) {
	h, _ := newHandlerEnv(t)
	actor := uuid.New()

	w := serveRoutes(h, authedRequest(http.MethodPost, "/"+actor.String(), "", actor))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for self-follow, got %d", w.Code)
	}
}

func TestFollowEndpointRateLimitedIs429(t *testing.T) {
	h, env := newHandlerEnv(t)
	actor := uuid.New()

	for i := 0; i < 30; i++ {
		env.limiter.Record(actor)
	}

	w := serveRoutes(h, authedRequest(http.MethodPost, "/"+uuid.New().String(), "", actor))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}

	var body struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if body.Error.Code != "RATE_LIMIT_EXCEEDED" {
		t.Fatalf("expected RATE_LIMIT_EXCEEDED, got %s", body.Error.Code)
	}
	if body.Error.Details["remaining"] != "0" {
		t.Fatalf("expected remaining detail, got %v", body.Error.Details)
	}
}

func TestFollowEndpointCooldownIs429WithRetryAt(t *testing.T) {
	h, env := newHandlerEnv(t)
	actor, target := uuid.New(), uuid.New()
	ctx := context.Background()

	env.service.Follow(ctx, actor, target)
	env.service.Unfollow(ctx, actor, target)

	w := serveRoutes(h, authedRequest(http.MethodPost, "/"+target.String(), "", actor))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}

	var body struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if body.Error.Code != "FOLLOW_COOLDOWN" {
		t.Fatalf("expected FOLLOW_COOLDOWN, got %s", body.Error.Code)
	}
	if _, err := time.Parse(time.RFC3339, body.Error.Details["retry_at"]); err != nil {
		t.Fatalf("retry_at must be RFC3339: %v", body.Error.Details)
	}
}

func TestBatchCheckEndpointValidatesSize(t *testing.T) {
	h, _ := newHandlerEnv(t)

	ids := make([]string, 101)
	for i := range ids {
		ids[i] = `"` + uuid.New().String() + `"`
	}
	payload := `{"user_ids":[` + strings.Join(ids, ",") + `]}`

	w := serveRoutes(h, authedRequest(http.MethodPost, "/check", payload, uuid.New()))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for oversized batch, got %d", w.Code)
	}
}

func TestBatchCheckEndpointReturnsEveryID(t *testing.T) {
	h, env := newHandlerEnv(t)
	me := uuid.New()
	follower, stranger := uuid.New(), uuid.New()
	env.service.Follow(context.Background(), follower, me)

	payload := `{"user_ids":["` + follower.String() + `","` + stranger.String() + `"]}`
	w := serveRoutes(h, authedRequest(http.MethodPost, "/check", payload, me))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Data struct {
			FollowsMe map[string]bool `json:"follows_me"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(body.Data.FollowsMe) != 2 {
		t.Fatalf("expected both ids in the response, got %v", body.Data.FollowsMe)
	}
	if !body.Data.FollowsMe[follower.String()] || body.Data.FollowsMe[stranger.String()] {
		t.Fatalf("wrong batch answers: %v", body.Data.FollowsMe)
	}
}

func TestStatusEndpoint(t *testing.T) {
	h, env := newHandlerEnv(t)
	actor, target := uuid.New(), uuid.New()
	env.service.Follow(context.Background(), actor, target)

	w := serveRoutes(h, authedRequest(http.MethodGet, "/"+target.String()+"/status", "", actor))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Data struct {
			State string `json:"state"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if body.Data.State != "following" {
		t.Fatalf("expected following, got %s", body.Data.State)
	}
}

func TestFollowEndpointRejectsBadID(t *testing.T) {
	h, _ := newHandlerEnv(t)

	w := serveRoutes(h, authedRequest(http.MethodPost, "/not-a-uuid", "", uuid.New()))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", w.Code)
	}
}

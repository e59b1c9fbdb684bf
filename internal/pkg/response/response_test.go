package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestOKEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	OK(w, map[string]string{"outcome": "success"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}

	env := decodeEnvelope(t, w)
	if env["success"] != true {
		t.Errorf("expected success=true, got %v", env["success"])
	}
	data, ok := env["data"].(map[string]interface{})
	if !ok || data["outcome"] != "success" {
		t.Errorf("unexpected data payload: %v", env["data"])
	}
	if _, present := env["error"]; present {
		t.Errorf("success envelope must not carry an error: %v", env["error"])
	}
}

func TestErrorEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	Conflict(w, "Already following this user")

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}

	env := decodeEnvelope(t, w)
	if env["success"] != false {
		t.Errorf("expected success=false, got %v", env["success"])
	}
	errInfo, ok := env["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %v", env["error"])
	}
	if errInfo["code"] != "CONFLICT" {
		t.Errorf("expected code CONFLICT, got %v", errInfo["code"])
	}
	if errInfo["message"] != "Already following this user" {
		t.Errorf("unexpected message: %v", errInfo["message"])
	}
	if _, present := errInfo["details"]; present {
		t.Errorf("details must be omitted when empty: %v", errInfo["details"])
	}
}

func TestErrorWithDetailsCarriesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorWithDetails(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED",
		"Too many follow requests", map[string]string{"remaining": "0"})

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}

	env := decodeEnvelope(t, w)
	errInfo := env["error"].(map[string]interface{})
	details, ok := errInfo["details"].(map[string]interface{})
	if !ok || details["remaining"] != "0" {
		t.Errorf("expected details.remaining=0, got %v", errInfo["details"])
	}
}

func TestJSONSuccessFlagTracksStatus(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusTeapot, nil)

	env := decodeEnvelope(t, w)
	if env["success"] != false {
		t.Errorf("non-2xx status must set success=false, got %v", env["success"])
	}
}

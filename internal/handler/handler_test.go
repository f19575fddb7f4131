package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body
}

func TestHandler_NotFound(t *testing.T) {
	h := New()

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nonexistent", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	body := decodeError(t, rec)
	if body["success"] != false || body["error"] != float64(404) || body["message"] != "resource not found" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := New()

	rec := httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodPut, "/plants", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}
	if body := decodeError(t, rec); body["message"] != "method not allowed" {
		t.Errorf("unexpected message: %v", body["message"])
	}
}

func TestWriteError_Messages(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusUnprocessableEntity, "unprocessable"},
		{http.StatusTooManyRequests, "rate limit exceeded"},
		{http.StatusInternalServerError, "internal server error"},
		{http.StatusTeapot, "I'm a teapot"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		WriteError(rec, tt.status)

		if rec.Code != tt.status {
			t.Errorf("status = %d, want %d", rec.Code, tt.status)
		}
		if body := decodeError(t, rec); body["message"] != tt.want {
			t.Errorf("message for %d = %v, want %q", tt.status, body["message"], tt.want)
		}
	}
}

func TestWriteJSON_KeepsAmpersand(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]string{"message": "Follow up & keep the plants alive"})

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"message":"Follow up & keep the plants alive"`) {
		t.Errorf("message was escaped: %s", rec.Body.String())
	}
}

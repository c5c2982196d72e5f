package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/travel-desk/agency-api/internal/auth"
)

func TestHealth(t *testing.T) {
	h, _, _ := newHandlers(t)
	r := chi.NewRouter()
	RegisterRoutes(r, h)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("expected 200 OK, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestLoginRateLimitedPerClient(t *testing.T) {
	h, _, _ := newHandlers(t)
	h.Limiter = auth.NewClientLimiter(1)
	r := chi.NewRouter()
	RegisterRoutes(r, h)

	login := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	login("203.0.113.9:4000")
	if code := login("203.0.113.9:4001"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 for the same client, got %d", code)
	}
	if code := login("198.51.100.3:4000"); code == http.StatusTooManyRequests {
		t.Errorf("a different client should not share the bucket")
	}
}

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/opentariff/landedcost/internal/config"
)

func gateFor(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.GateConfig{Username: "admin", Password: "password"}
	return Gate(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestGate_MissingHeader(t *testing.T) {
	handler := gateFor(t)

	req := httptest.NewRequest(http.MethodGet, "/api/catalogue", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if got := rec.Header().Get("WWW-Authenticate"); got != `Basic realm="Login Required"` {
		t.Errorf("unexpected WWW-Authenticate header: %q", got)
	}
}

func TestGate_WrongCredentials(t *testing.T) {
	handler := gateFor(t)

	req := httptest.NewRequest(http.MethodGet, "/api/catalogue", nil)
	req.SetBasicAuth("admin", "not-the-password")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGate_ValidCredentials(t *testing.T) {
	handler := gateFor(t)

	req := httptest.NewRequest(http.MethodGet, "/api/catalogue", nil)
	req.SetBasicAuth("admin", "password")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

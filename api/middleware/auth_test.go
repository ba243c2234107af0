package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rakshamitra/relief-backend/pkg/auth"
	"github.com/rakshamitra/relief-backend/pkg/config"
)

func jwtTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "relief-backend",
		ExpirationMinutes: 60,
	}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, now time.Time) (uuid.UUID, string) {
	t.Helper()
	volunteerID := uuid.New()
	token, err := auth.MintAccessToken(cfg, now, auth.AccessTokenPayload{
		VolunteerID: volunteerID,
		Name:        "Ravi",
		Role:        "responder",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return volunteerID, token
}

func TestAuth_MissingHeaderIsUnauthorized(t *testing.T) {
	handler := Auth(jwtTestConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without credentials")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/requests/x/accept", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuth_InvalidTokenIsForbidden(t *testing.T) {
	handler := Auth(jwtTestConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a bad token")
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/requests", nil)
	r.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestAuth_ExpiredTokenIsForbidden(t *testing.T) {
	cfg := jwtTestConfig()
	_, token := mintTestToken(t, cfg, time.Now().Add(-2*time.Hour))

	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an expired token")
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/requests", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestAuth_ValidTokenSeedsContext(t *testing.T) {
	cfg := jwtTestConfig()
	volunteerID, token := mintTestToken(t, cfg, time.Now())

	var seenID, seenRole string
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = VolunteerIDFromContext(r.Context())
		seenRole = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/requests", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if seenID != volunteerID.String() {
		t.Fatalf("expected volunteer id in context, got %q", seenID)
	}
	if seenRole != "responder" {
		t.Fatalf("expected role in context, got %q", seenRole)
	}
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/satyam539813/farmappsample/internal/session"
	pkgAuth "github.com/satyam539813/farmappsample/pkg/auth"
	"github.com/satyam539813/farmappsample/pkg/config"
)

var testJWT = config.JWTConfig{
	Secret:                 "secret",
	Issuer:                 "farmfresh",
	ExpirationMinutes:      30,
	RefreshTokenTTLMinutes: 600,
}

type stubChecker struct {
	ok  bool
	err error
}

func (s stubChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return s.ok, s.err
}

func captureSession(t *testing.T, got *session.Session) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session.FromContext(r.Context())
		if !ok {
			t.Fatalf("expected session on context")
		}
		*got = sess
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestSessionMintsDeviceID(t *testing.T) {
	var got session.Session
	handler := Session(testJWT, stubChecker{ok: true}, nil)(captureSession(t, &got))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got.Authenticated() {
		t.Fatalf("expected anonymous session")
	}
	if got.DeviceID == "" || rec.Header().Get(DeviceIDHeader) != got.DeviceID {
		t.Fatalf("expected minted device id echoed, got %q / %q", got.DeviceID, rec.Header().Get(DeviceIDHeader))
	}
}

func TestSessionKeepsProvidedDeviceID(t *testing.T) {
	var got session.Session
	handler := Session(testJWT, stubChecker{ok: true}, nil)(captureSession(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(DeviceIDHeader, "device-12345")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got.DeviceID != "device-12345" {
		t.Fatalf("expected provided device id, got %q", got.DeviceID)
	}
}

func TestSessionRejectsMalformedDeviceID(t *testing.T) {
	handler := Session(testJWT, stubChecker{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(DeviceIDHeader, "bad id!")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSessionResolvesBearerToken(t *testing.T) {
	userID := uuid.New()
	token, err := pkgAuth.MintAccessToken(testJWT, time.Now(), pkgAuth.AccessTokenPayload{UserID: userID, Email: "grower@example.com", JTI: "access-1"})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	var got session.Session
	handler := Session(testJWT, stubChecker{ok: true}, nil)(captureSession(t, &got))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(DeviceIDHeader, "device-12345")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !got.Authenticated() || *got.UserID != userID {
		t.Fatalf("expected authenticated session for %s, got %+v", userID, got)
	}
	if got.AccessID != "access-1" || got.DeviceID != "device-12345" {
		t.Fatalf("unexpected session %+v", got)
	}
}

func TestSessionRejectsInvalidCredentials(t *testing.T) {
	valid, err := pkgAuth.MintAccessToken(testJWT, time.Now(), pkgAuth.AccessTokenPayload{UserID: uuid.New(), JTI: "access-2"})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		checker stubChecker
		status  int
	}{
		{name: "garbage token", token: "Bearer not-a-jwt", checker: stubChecker{ok: true}, status: http.StatusUnauthorized},
		{name: "empty bearer", token: "Bearer ", checker: stubChecker{ok: true}, status: http.StatusUnauthorized},
		{name: "revoked session", token: "Bearer " + valid, checker: stubChecker{ok: false}, status: http.StatusUnauthorized},
		{name: "session store down", token: "Bearer " + valid, checker: stubChecker{err: errors.New("redis down")}, status: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Session(testJWT, tt.checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatalf("handler should not run")
			}))
			req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
			req.Header.Set("Authorization", tt.token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

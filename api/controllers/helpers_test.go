package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/satyam539813/farmappsample/internal/session"
)

const testDeviceID = "device-0001"

func anonymousRequest(req *http.Request) *http.Request {
	return req.WithContext(session.WithSession(req.Context(), session.Anonymous(testDeviceID)))
}

func signedInRequest(req *http.Request, userID uuid.UUID) *http.Request {
	sess := session.Anonymous(testDeviceID)
	sess.UserID = &userID
	sess.Email = "shopper@example.com"
	return req.WithContext(session.WithSession(req.Context(), sess))
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Notice *struct {
		Title   string `json:"title"`
		Variant string `json:"variant"`
	} `json:"notice"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
		Notice  *struct {
			Title   string `json:"title"`
			Variant string `json:"variant"`
		} `json:"notice"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

package controllers

import (
	"net/http"

	"github.com/satyam539813/farmappsample/internal/session"
	pkgerrors "github.com/satyam539813/farmappsample/pkg/errors"
)

// requestSession returns the session resolved by middleware.Session.
func requestSession(r *http.Request) (session.Session, error) {
	sess, ok := session.FromContext(r.Context())
	if !ok || sess.DeviceID == "" {
		return session.Session{}, pkgerrors.New(pkgerrors.CodeInternal, "session not resolved")
	}
	return sess, nil
}

package session

import (
	"context"

	"github.com/google/uuid"
	"github.com/satyam539813/farmappsample/pkg/enums"
)

// Session is the caller identity resolved for a request. It is
// authenticated when UserID is set; DeviceID is always present.
type Session struct {
	UserID   *uuid.UUID
	Email    string
	AccessID string
	DeviceID string
}

// Anonymous builds an unauthenticated session for the device.
func Anonymous(deviceID string) Session {
	return Session{DeviceID: deviceID}
}

// Authenticated reports whether the session belongs to a signed-in user.
func (s Session) Authenticated() bool {
	return s.UserID != nil && *s.UserID != uuid.Nil
}

// Mode names the storage a user-scoped collection should use.
func (s Session) Mode() enums.StorageMode {
	if s.Authenticated() {
		return enums.StorageModeRemote
	}
	return enums.StorageModeLocal
}

// OwnerKey identifies the collection owner: the user id when signed in,
// the device id otherwise.
func (s Session) OwnerKey() string {
	if s.Authenticated() {
		return s.UserID.String()
	}
	return s.DeviceID
}

type contextKey struct{}

// WithSession stores s on ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored on ctx.
func FromContext(ctx context.Context) (Session, bool) {
	if ctx == nil {
		return Session{}, false
	}
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}

// TransitionHook reacts to a session changing from one identity to another.
// OnSignIn runs after a successful sign-in with the anonymous session the
// device held before; OnSignOut runs after sign-out with the session that
// ended.
type TransitionHook interface {
	OnSignIn(ctx context.Context, from, to Session) error
	OnSignOut(ctx context.Context, ended Session) error
}

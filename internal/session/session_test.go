package session

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/satyam539813/farmappsample/pkg/enums"
)

func TestAnonymousSession(t *testing.T) {
	s := Anonymous("device-1")
	if s.Authenticated() {
		t.Fatalf("anonymous session reported authenticated")
	}
	if s.Mode() != enums.StorageModeLocal {
		t.Fatalf("expected local mode, got %s", s.Mode())
	}
	if s.OwnerKey() != "device-1" {
		t.Fatalf("unexpected owner key %q", s.OwnerKey())
	}
}

func TestAuthenticatedSession(t *testing.T) {
	id := uuid.New()
	s := Session{UserID: &id, DeviceID: "device-1"}
	if !s.Authenticated() {
		t.Fatalf("expected authenticated")
	}
	if s.Mode() != enums.StorageModeRemote {
		t.Fatalf("expected remote mode, got %s", s.Mode())
	}
	if s.OwnerKey() != id.String() {
		t.Fatalf("unexpected owner key %q", s.OwnerKey())
	}

	nilID := uuid.Nil
	if (Session{UserID: &nilID}).Authenticated() {
		t.Fatalf("nil uuid must not authenticate")
	}
}

func TestContextRoundTrip(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Fatalf("expected empty context to have no session")
	}
	ctx := WithSession(context.Background(), Anonymous("d"))
	got, ok := FromContext(ctx)
	if !ok || got.DeviceID != "d" {
		t.Fatalf("unexpected session %+v", got)
	}
}

package favorites

import (
	"context"
	"errors"

	"github.com/satyam539813/farmappsample/internal/session"
)

var _ session.TransitionHook = (*Manager)(nil)

// OnSignIn copies device favorites into the user's set and drops the device
// copy. Products already favorited by the user are skipped.
func (m *Manager) OnSignIn(ctx context.Context, from, to session.Session) error {
	if !to.Authenticated() || from.DeviceID == "" {
		return nil
	}
	err := m.mergeDevice(ctx, from.DeviceID, to.OwnerKey())
	m.metrics.SignInMerge(localCollection, err)
	return err
}

func (m *Manager) OnSignOut(context.Context, session.Session) error {
	return nil
}

func (m *Manager) mergeDevice(ctx context.Context, deviceID, userID string) error {
	local, err := m.local.Load(ctx, deviceID)
	if err != nil {
		return err
	}
	if len(local) == 0 {
		return nil
	}

	lease, err := m.acquire(ctx, userID)
	if err != nil {
		return err
	}
	defer m.release(ctx, lease)

	for _, entry := range local {
		if err := m.remote.Add(ctx, userID, entry); err != nil && !errors.Is(err, ErrDuplicate) {
			return err
		}
	}
	return m.local.Clear(ctx, deviceID)
}

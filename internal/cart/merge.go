package cart

import (
	"context"

	"github.com/satyam539813/farmappsample/internal/session"
)

var _ session.TransitionHook = (*Manager)(nil)

// OnSignIn merges the device cart into the user's cart, summing quantities
// per product, then drops the device cart. On failure the device cart is
// left intact.
func (m *Manager) OnSignIn(ctx context.Context, from, to session.Session) error {
	if !to.Authenticated() || from.DeviceID == "" {
		return nil
	}
	err := m.mergeDevice(ctx, from.DeviceID, to.OwnerKey())
	m.metrics.SignInMerge(localCollection, err)
	return err
}

// OnSignOut leaves both carts as they are; the device resumes with its own.
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

	remote, err := m.remote.Load(ctx, userID)
	if err != nil {
		return err
	}
	if err := m.remote.Save(ctx, userID, mergeLines(remote, local, m.maxQty)); err != nil {
		return err
	}
	return m.local.Clear(ctx, deviceID)
}

// mergeLines returns the union of both carts keyed by product id. Quantities
// of shared products are summed and capped at maxQty.
func mergeLines(remote, local []Line, maxQty int) []Line {
	out := append([]Line(nil), remote...)
	index := make(map[int]int, len(out))
	for i, line := range out {
		index[line.ProductID] = i
	}
	for _, line := range local {
		if line.Quantity < 1 {
			continue
		}
		if i, ok := index[line.ProductID]; ok {
			if out[i].Quantity > maxQty-line.Quantity {
				out[i].Quantity = maxQty
			} else {
				out[i].Quantity += line.Quantity
			}
			continue
		}
		if line.Quantity > maxQty {
			line.Quantity = maxQty
		}
		index[line.ProductID] = len(out)
		out = append(out, line)
	}
	return out
}

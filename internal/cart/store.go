package cart

import (
	"context"

	"github.com/satyam539813/farmappsample/pkg/enums"
)

// Store persists the lines of one owner's cart. Owner is a user id for the
// remote store and a device id for the local store.
type Store interface {
	Mode() enums.StorageMode
	Load(ctx context.Context, owner string) ([]Line, error)
	// Save replaces the owner's cart with lines.
	Save(ctx context.Context, owner string, lines []Line) error
	Clear(ctx context.Context, owner string) error
}

package favorites

import (
	"context"
	"errors"

	"github.com/satyam539813/farmappsample/pkg/enums"
)

// ErrDuplicate is returned by Add when the product is already a favorite.
var ErrDuplicate = errors.New("favorite already exists")

// Store persists one owner's favorites.
type Store interface {
	Mode() enums.StorageMode
	Load(ctx context.Context, owner string) ([]Entry, error)
	Add(ctx context.Context, owner string, entry Entry) error
	Remove(ctx context.Context, owner string, productID int) error
	Clear(ctx context.Context, owner string) error
}

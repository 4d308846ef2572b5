package favorites

import (
	"time"

	"github.com/satyam539813/farmappsample/internal/catalog"
	"github.com/satyam539813/farmappsample/pkg/enums"
	"github.com/satyam539813/farmappsample/pkg/types"
)

// Entry is one stored favorite. Product ids are unique per owner.
type Entry struct {
	ID        string    `json:"id"`
	ProductID int       `json:"product_id"`
	AddedAt   time.Time `json:"added_at"`
}

// Item is an entry joined with its catalog product.
type Item struct {
	ID        string          `json:"id"`
	ProductID int             `json:"product_id"`
	AddedAt   time.Time       `json:"added_at"`
	Product   catalog.Product `json:"product"`
}

// List is the favorites read model.
type List struct {
	Mode  enums.StorageMode `json:"mode"`
	Items []Item            `json:"items"`
	Count int               `json:"count"`
}

// Result is the outcome of a mutating favorites operation.
type Result struct {
	Favorites List          `json:"favorites"`
	Notice    *types.Notice `json:"-"`
}

func notice(title, description string) *types.Notice {
	n := types.InfoNotice(title, description)
	return &n
}

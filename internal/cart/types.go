package cart

import (
	"time"

	"github.com/satyam539813/farmappsample/internal/catalog"
	"github.com/satyam539813/farmappsample/internal/orders"
	"github.com/satyam539813/farmappsample/pkg/enums"
	"github.com/satyam539813/farmappsample/pkg/types"
	"github.com/shopspring/decimal"
)

// Line is one stored cart entry. At most one line exists per product.
type Line struct {
	ID        string    `json:"id"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// LineView is a line joined with its catalog product.
type LineView struct {
	ID        string          `json:"id"`
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	AddedAt   time.Time       `json:"added_at"`
	Product   catalog.Product `json:"product"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Cart is the read model returned after every operation. ItemCount and
// Total are derived from the lines.
type Cart struct {
	Mode      enums.StorageMode `json:"mode"`
	Lines     []LineView        `json:"lines"`
	ItemCount int               `json:"item_count"`
	Total     decimal.Decimal   `json:"total"`
}

// Result is the outcome of a mutating cart operation.
type Result struct {
	Cart   Cart          `json:"cart"`
	Notice *types.Notice `json:"-"`
}

// CheckoutResult carries the created order and the emptied cart.
type CheckoutResult struct {
	Order  orders.OrderDTO `json:"order"`
	Cart   Cart            `json:"cart"`
	Notice *types.Notice   `json:"-"`
}

func notice(title, description string) *types.Notice {
	n := types.InfoNotice(title, description)
	return &n
}

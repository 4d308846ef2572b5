package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/satyam539813/farmappsample/pkg/db/models"
	"github.com/satyam539813/farmappsample/pkg/enums"
	"github.com/satyam539813/farmappsample/pkg/types"
	"github.com/shopspring/decimal"
)

// LineInput is one product line submitted for an order. Price is the unit
// price frozen at purchase time.
type LineInput struct {
	ProductID int
	Quantity  int
	Price     decimal.Decimal
}

// OrderItemDTO is an order line as returned to clients.
type OrderItemDTO struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       int             `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
	LineTotal       decimal.Decimal `json:"line_total"`
	CreatedAt       time.Time       `json:"created_at"`
}

// OrderDTO is an order with its items and derived totals.
type OrderDTO struct {
	ID        uuid.UUID         `json:"id"`
	Status    enums.OrderStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Items     []OrderItemDTO    `json:"items"`
	ItemCount int               `json:"item_count"`
	Total     decimal.Decimal   `json:"total"`
}

// CreateOrderResult carries the new order and the notice shown to the shopper.
type CreateOrderResult struct {
	Order  OrderDTO     `json:"order"`
	Notice types.Notice `json:"-"`
}

// FromModel maps an order row and computes item count and total.
func FromModel(o models.Order) OrderDTO {
	dto := OrderDTO{
		ID:        o.ID,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
		Items:     make([]OrderItemDTO, 0, len(o.Items)),
		Total:     decimal.Zero,
	}
	for _, item := range o.Items {
		lineTotal := item.PriceAtPurchase.Mul(decimal.NewFromInt(int64(item.Quantity)))
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:              item.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
			LineTotal:       lineTotal,
			CreatedAt:       item.CreatedAt,
		})
		dto.ItemCount += item.Quantity
		dto.Total = dto.Total.Add(lineTotal)
	}
	return dto
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/satyam539813/farmappsample/pkg/enums"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is the header row of a placed order.
type Order struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index:orders_user_created_idx,priority:1"`
	Status    enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime;index:orders_user_created_idx,priority:2,sort:desc"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
	Items     []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = enums.OrderStatusPending
	}
	return nil
}

// OrderItem freezes the unit price a product was bought at.
type OrderItem struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID         uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index:order_items_order_id_idx"`
	ProductID       int             `gorm:"column:product_id;not null"`
	Quantity        int             `gorm:"column:quantity;not null"`
	PriceAtPurchase decimal.Decimal `gorm:"column:price_at_purchase;type:numeric(10,2);not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (OrderItem) TableName() string { return "order_items" }

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/satyam539813/farmappsample/internal/session"
	"github.com/satyam539813/farmappsample/pkg/db"
	"github.com/satyam539813/farmappsample/pkg/db/models"
	"github.com/satyam539813/farmappsample/pkg/enums"
	pkgerrors "github.com/satyam539813/farmappsample/pkg/errors"
	"github.com/satyam539813/farmappsample/pkg/metrics"
	"github.com/satyam539813/farmappsample/pkg/types"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the order operations of the session provider.
type Service interface {
	CreateOrder(ctx context.Context, sess session.Session, lines []LineInput) (*CreateOrderResult, error)
	GetUserOrders(ctx context.Context, sess session.Session) ([]OrderDTO, error)
	GetOrder(ctx context.Context, sess session.Session, orderID uuid.UUID) (*OrderDTO, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	metrics *metrics.Storefront
}

// NewService builds an order service. A nil recorder disables metrics.
func NewService(repo Repository, tx txRunner, recorder *metrics.Storefront) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, metrics: recorder}, nil
}

// CreateOrder writes the header and all items in one transaction.
func (s *service) CreateOrder(ctx context.Context, sess session.Session, lines []LineInput) (*CreateOrderResult, error) {
	if !sess.Authenticated() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to place an order")
	}
	if err := validateLines(lines); err != nil {
		return nil, err
	}

	order := &models.Order{UserID: *sess.UserID, Status: enums.OrderStatusPending}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.CreateOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, models.OrderItem{
				OrderID:         created.ID,
				ProductID:       line.ProductID,
				Quantity:        line.Quantity,
				PriceAtPurchase: line.Price,
			})
		}
		if err := repo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}
		created.Items = items
		order = created
		return nil
	})
	s.metrics.OrderCreated(err)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed.WithNotice("Error creating order", typed.Message())
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order").
			WithNotice("Error creating order", err.Error())
	}

	return &CreateOrderResult{
		Order:  FromModel(*order),
		Notice: types.InfoNotice("Order created successfully", "Your order has been placed!"),
	}, nil
}

// GetUserOrders returns an empty list for anonymous sessions.
func (s *service) GetUserOrders(ctx context.Context, sess session.Session) ([]OrderDTO, error) {
	if !sess.Authenticated() {
		return []OrderDTO{}, nil
	}
	rows, err := s.repo.ListByUser(ctx, *sess.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders").
			WithNotice("Error fetching orders", "Your order history could not be loaded.")
	}
	out := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

func (s *service) GetOrder(ctx context.Context, sess session.Session, orderID uuid.UUID) (*OrderDTO, error) {
	if !sess.Authenticated() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to view orders")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	row, err := s.repo.FindForUser(ctx, orderID, *sess.UserID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	dto := FromModel(*row)
	return &dto, nil
}

func validateLines(lines []LineInput) error {
	if len(lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	for _, line := range lines {
		if line.ProductID <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
		}
		if line.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
				WithDetails(map[string]any{"product_id": line.ProductID})
		}
		if line.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative").
				WithDetails(map[string]any{"product_id": line.ProductID})
		}
	}
	return nil
}

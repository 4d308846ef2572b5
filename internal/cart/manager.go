package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/satyam539813/farmappsample/internal/catalog"
	"github.com/satyam539813/farmappsample/internal/orders"
	"github.com/satyam539813/farmappsample/internal/session"
	pkgerrors "github.com/satyam539813/farmappsample/pkg/errors"
	"github.com/satyam539813/farmappsample/pkg/logger"
	"github.com/satyam539813/farmappsample/pkg/metrics"
	redisclient "github.com/satyam539813/farmappsample/pkg/redis"
	"github.com/satyam539813/farmappsample/pkg/types"
	"github.com/shopspring/decimal"
)

const (
	lockScope          = "cart"
	defaultMaxQuantity = 99
)

type productCatalog interface {
	ProductByID(id int) (catalog.Product, bool)
}

type orderCreator interface {
	CreateOrder(ctx context.Context, sess session.Session, lines []orders.LineInput) (*orders.CreateOrderResult, error)
}

type ownerLocker interface {
	Acquire(ctx context.Context, key string) (*redisclient.Lease, error)
}

type lockKeyer interface {
	LockKey(scope, id string) string
}

// ManagerParams groups the cart manager dependencies.
type ManagerParams struct {
	Remote          Store
	Local           Store
	Catalog         productCatalog
	Orders          orderCreator
	Locker          ownerLocker
	Keys            lockKeyer
	MaxLineQuantity int
	Metrics         *metrics.Storefront
	Logger          *logger.Logger
}

// Manager owns cart state for both signed-in and anonymous sessions. It
// picks the backing store from the session on every call.
type Manager struct {
	remote  Store
	local   Store
	catalog productCatalog
	orders  orderCreator
	locker  ownerLocker
	keys    lockKeyer
	maxQty  int
	metrics *metrics.Storefront
	logg    *logger.Logger
	now     func() time.Time
}

// NewManager validates the dependencies and builds a Manager.
func NewManager(params ManagerParams) (*Manager, error) {
	if params.Remote == nil || params.Local == nil {
		return nil, fmt.Errorf("remote and local cart stores required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order creator required")
	}
	if params.Locker == nil || params.Keys == nil {
		return nil, fmt.Errorf("cart locker required")
	}
	maxQty := params.MaxLineQuantity
	if maxQty <= 0 {
		maxQty = defaultMaxQuantity
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Manager{
		remote:  params.Remote,
		local:   params.Local,
		catalog: params.Catalog,
		orders:  params.Orders,
		locker:  params.Locker,
		keys:    params.Keys,
		maxQty:  maxQty,
		metrics: params.Metrics,
		logg:    logg,
		now:     time.Now,
	}, nil
}

func (m *Manager) storeFor(sess session.Session) Store {
	if sess.Authenticated() {
		return m.remote
	}
	return m.local
}

// Get returns the current cart.
func (m *Manager) Get(ctx context.Context, sess session.Session) (*Cart, error) {
	store := m.storeFor(sess)
	lines, err := store.Load(ctx, sess.OwnerKey())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart").
			WithNotice("Failed to load cart", "Your cart could not be loaded. Please try again.")
	}
	cart := m.view(store, lines)
	return &cart, nil
}

// AddToCart increases the quantity of an existing line for the product or
// appends a new line.
func (m *Manager) AddToCart(ctx context.Context, sess session.Session, productID, quantity int) (*Result, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
			WithNotice("Failed to add item", "Quantity must be at least 1.")
	}
	if quantity > m.maxQty {
		return nil, m.quantityTooLarge("Failed to add item")
	}
	product, ok := m.catalog.ProductByID(productID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithNotice("Failed to add item", "This product is not available.")
	}

	return m.mutate(ctx, sess, "add", "Failed to add item", func(lines []Line) ([]Line, *types.Notice, error) {
		for i := range lines {
			if lines[i].ProductID != productID {
				continue
			}
			if lines[i].Quantity > m.maxQty-quantity {
				return nil, nil, m.quantityTooLarge("Failed to add item")
			}
			lines[i].Quantity += quantity
			return lines, notice("Added to cart", product.Name+" quantity updated in your cart"), nil
		}
		lines = append(lines, Line{
			ID:        uuid.NewString(),
			ProductID: productID,
			Quantity:  quantity,
			AddedAt:   m.now().UTC(),
		})
		return lines, notice("Added to cart", "Item added to your cart successfully"), nil
	})
}

// UpdateQuantity sets a line's quantity exactly; below 1 removes the line.
func (m *Manager) UpdateQuantity(ctx context.Context, sess session.Session, lineID string, quantity int) (*Result, error) {
	if quantity < 1 {
		return m.RemoveFromCart(ctx, sess, lineID)
	}
	if quantity > m.maxQty {
		return nil, m.quantityTooLarge("Failed to update cart")
	}
	return m.mutate(ctx, sess, "update", "Failed to update cart", func(lines []Line) ([]Line, *types.Notice, error) {
		for i := range lines {
			if lines[i].ID == lineID {
				lines[i].Quantity = quantity
				return lines, nil, nil
			}
		}
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found").
			WithNotice("Failed to update cart", "This item is no longer in your cart.")
	})
}

// RemoveFromCart deletes the line when present.
func (m *Manager) RemoveFromCart(ctx context.Context, sess session.Session, lineID string) (*Result, error) {
	return m.mutate(ctx, sess, "remove", "Failed to remove item", func(lines []Line) ([]Line, *types.Notice, error) {
		out := lines[:0]
		for _, line := range lines {
			if line.ID != lineID {
				out = append(out, line)
			}
		}
		return out, notice("Item removed", "Item removed from your cart"), nil
	})
}

// ClearCart empties the cart.
func (m *Manager) ClearCart(ctx context.Context, sess session.Session) (*Result, error) {
	return m.mutate(ctx, sess, "clear", "Failed to clear cart", func([]Line) ([]Line, *types.Notice, error) {
		return []Line{}, notice("Cart cleared", "All items have been removed from your cart"), nil
	})
}

// Checkout turns the signed-in cart into an order priced from the catalog
// and clears the cart once the order exists.
func (m *Manager) Checkout(ctx context.Context, sess session.Session) (*CheckoutResult, error) {
	if !sess.Authenticated() {
		err := pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to check out").
			WithNotice("Please sign in", "You need to sign in to place an order")
		m.metrics.CartOperation("checkout", sess.Mode().String(), err)
		return nil, err
	}

	store := m.remote
	owner := sess.OwnerKey()
	lease, err := m.acquire(ctx, owner)
	if err != nil {
		return nil, err
	}
	defer m.release(ctx, lease)

	lines, err := store.Load(ctx, owner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(lines) == 0 {
		err := pkgerrors.New(pkgerrors.CodeValidation, "cart is empty").
			WithNotice("Cart is empty", "Add items to your cart before checking out")
		m.metrics.CartOperation("checkout", store.Mode().String(), err)
		return nil, err
	}

	inputs := make([]orders.LineInput, 0, len(lines))
	for _, line := range lines {
		product, ok := m.catalog.ProductByID(line.ProductID)
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains an unavailable product").
				WithDetails(map[string]any{"line_id": line.ID, "product_id": line.ProductID})
		}
		inputs = append(inputs, orders.LineInput{ProductID: line.ProductID, Quantity: line.Quantity, Price: product.Price})
	}

	created, err := m.orders.CreateOrder(ctx, sess, inputs)
	m.metrics.CartOperation("checkout", store.Mode().String(), err)
	if err != nil {
		return nil, err
	}

	remaining := []Line{}
	if err := store.Clear(ctx, owner); err != nil {
		m.logg.Error(logWithOrder(ctx, m.logg, created.Order.ID), "clear cart after checkout failed", err)
		if reread, loadErr := store.Load(ctx, owner); loadErr == nil {
			remaining = reread
		} else {
			remaining = lines
		}
	}

	n := created.Notice
	return &CheckoutResult{
		Order:  created.Order,
		Cart:   m.view(store, remaining),
		Notice: &n,
	}, nil
}

type mutation func(lines []Line) ([]Line, *types.Notice, error)

// mutate runs a locked read-modify-write. When the write fails the store is
// re-read so the error carries the cart as it is actually stored.
func (m *Manager) mutate(ctx context.Context, sess session.Session, op, failureTitle string, fn mutation) (*Result, error) {
	store := m.storeFor(sess)
	owner := sess.OwnerKey()
	res, err := m.mutateLocked(ctx, store, owner, failureTitle, fn)
	m.metrics.CartOperation(op, store.Mode().String(), err)
	return res, err
}

func (m *Manager) mutateLocked(ctx context.Context, store Store, owner, failureTitle string, fn mutation) (*Result, error) {
	lease, err := m.acquire(ctx, owner)
	if err != nil {
		return nil, err
	}
	defer m.release(ctx, lease)

	lines, err := store.Load(ctx, owner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart").
			WithNotice(failureTitle, "Your cart could not be loaded. Please try again.")
	}

	next, n, err := fn(lines)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Details() == nil {
			typed.WithDetails(map[string]any{"cart": m.view(store, lines)})
		}
		return nil, err
	}

	if err := store.Save(ctx, owner, next); err != nil {
		return nil, m.writeFailed(ctx, store, owner, failureTitle, err)
	}
	return &Result{Cart: m.view(store, next), Notice: n}, nil
}

func (m *Manager) writeFailed(ctx context.Context, store Store, owner, title string, cause error) error {
	typed := pkgerrors.Wrap(pkgerrors.CodeDependency, cause, "save cart").
		WithNotice(title, "Your cart could not be updated. Please try again.")
	stored, err := store.Load(ctx, owner)
	if err != nil {
		m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), "reload cart after failed write")
		return typed
	}
	return typed.WithDetails(map[string]any{"cart": m.view(store, stored)})
}

func (m *Manager) acquire(ctx context.Context, owner string) (*redisclient.Lease, error) {
	lease, err := m.locker.Acquire(ctx, m.keys.LockKey(lockScope, owner))
	if err != nil {
		if errors.Is(err, redisclient.ErrLockHeld) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeBusy, err, "cart is being updated")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock cart")
	}
	return lease, nil
}

func (m *Manager) release(ctx context.Context, lease *redisclient.Lease) {
	if err := lease.Release(ctx); err != nil {
		m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), "release cart lock")
	}
}

func (m *Manager) quantityTooLarge(title string) error {
	msg := fmt.Sprintf("quantity must be at most %d", m.maxQty)
	return pkgerrors.New(pkgerrors.CodeValidation, msg).WithNotice(title, msg)
}

// view resolves products by id and computes the derived totals. Lines whose
// product left the catalog are omitted.
func (m *Manager) view(store Store, lines []Line) Cart {
	cart := Cart{
		Mode:  store.Mode(),
		Lines: make([]LineView, 0, len(lines)),
		Total: decimal.Zero,
	}
	for _, line := range lines {
		product, ok := m.catalog.ProductByID(line.ProductID)
		if !ok {
			continue
		}
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		cart.Lines = append(cart.Lines, LineView{
			ID:        line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			AddedAt:   line.AddedAt,
			Product:   product,
			LineTotal: lineTotal,
		})
		cart.ItemCount += line.Quantity
		cart.Total = cart.Total.Add(lineTotal)
	}
	return cart
}

func logWithOrder(ctx context.Context, logg *logger.Logger, orderID uuid.UUID) context.Context {
	return logg.WithField(ctx, "order_id", orderID.String())
}

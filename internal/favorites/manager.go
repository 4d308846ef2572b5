package favorites

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/satyam539813/farmappsample/internal/catalog"
	"github.com/satyam539813/farmappsample/internal/session"
	pkgerrors "github.com/satyam539813/farmappsample/pkg/errors"
	"github.com/satyam539813/farmappsample/pkg/logger"
	"github.com/satyam539813/farmappsample/pkg/metrics"
	redisclient "github.com/satyam539813/farmappsample/pkg/redis"
	"github.com/satyam539813/farmappsample/pkg/types"
)

const lockScope = "favorites"

type productCatalog interface {
	ProductByID(id int) (catalog.Product, bool)
}

type ownerLocker interface {
	Acquire(ctx context.Context, key string) (*redisclient.Lease, error)
}

type lockKeyer interface {
	LockKey(scope, id string) string
}

// ManagerParams groups the favorites manager dependencies.
type ManagerParams struct {
	Remote  Store
	Local   Store
	Catalog productCatalog
	Locker  ownerLocker
	Keys    lockKeyer
	Metrics *metrics.Storefront
	Logger  *logger.Logger
}

// Manager owns the favorites set for signed-in and anonymous sessions.
type Manager struct {
	remote  Store
	local   Store
	catalog productCatalog
	locker  ownerLocker
	keys    lockKeyer
	metrics *metrics.Storefront
	logg    *logger.Logger
	now     func() time.Time
}

func NewManager(params ManagerParams) (*Manager, error) {
	if params.Remote == nil || params.Local == nil {
		return nil, fmt.Errorf("remote and local favorites stores required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if params.Locker == nil || params.Keys == nil {
		return nil, fmt.Errorf("favorites locker required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Manager{
		remote:  params.Remote,
		local:   params.Local,
		catalog: params.Catalog,
		locker:  params.Locker,
		keys:    params.Keys,
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

// List returns the caller's favorites in insertion order.
func (m *Manager) List(ctx context.Context, sess session.Session) (*List, error) {
	store := m.storeFor(sess)
	entries, err := store.Load(ctx, sess.OwnerKey())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load favorites").
			WithNotice("Failed to load favorites", "Your favorites could not be loaded. Please try again.")
	}
	list := m.view(store, entries)
	return &list, nil
}

// IsFavorite reports whether the product is in the caller's favorites.
func (m *Manager) IsFavorite(ctx context.Context, sess session.Session, productID int) (bool, error) {
	entries, err := m.storeFor(sess).Load(ctx, sess.OwnerKey())
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load favorites")
	}
	for _, entry := range entries {
		if entry.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

// AddToFavorites adds the product, rejecting duplicates with a conflict.
func (m *Manager) AddToFavorites(ctx context.Context, sess session.Session, productID int) (*Result, error) {
	product, ok := m.catalog.ProductByID(productID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithNotice("Failed to add favorite", "This product is not available.")
	}
	return m.mutate(ctx, sess, "add", "Failed to add favorite", func(store Store, owner string) error {
		err := store.Add(ctx, owner, Entry{ID: uuid.NewString(), ProductID: productID, AddedAt: m.now().UTC()})
		if errors.Is(err, ErrDuplicate) {
			return pkgerrors.New(pkgerrors.CodeConflict, "This item is already in your favorites.").
				WithNotice("Already in favorites", "This item is already in your favorites.")
		}
		return err
	}, notice("Added to favorites", product.Name+" has been added to your favorites."))
}

// RemoveFromFavorites deletes the product when present.
func (m *Manager) RemoveFromFavorites(ctx context.Context, sess session.Session, productID int) (*Result, error) {
	description := "Item has been removed from your favorites."
	if product, ok := m.catalog.ProductByID(productID); ok {
		description = product.Name + " has been removed from your favorites."
	}
	return m.mutate(ctx, sess, "remove", "Failed to remove favorite", func(store Store, owner string) error {
		return store.Remove(ctx, owner, productID)
	}, notice("Removed from favorites", description))
}

// ClearFavorites empties the set.
func (m *Manager) ClearFavorites(ctx context.Context, sess session.Session) (*Result, error) {
	return m.mutate(ctx, sess, "clear", "Failed to clear favorites", func(store Store, owner string) error {
		return store.Clear(ctx, owner)
	}, notice("Favorites cleared", "All items have been removed from your favorites."))
}

type mutation func(store Store, owner string) error

// mutate runs fn under the owner lock. Store failures re-read the set so the
// error carries what is actually stored.
func (m *Manager) mutate(ctx context.Context, sess session.Session, op, failureTitle string, fn mutation, success *types.Notice) (*Result, error) {
	store := m.storeFor(sess)
	res, err := m.mutateLocked(ctx, store, sess.OwnerKey(), failureTitle, fn, success)
	m.metrics.FavoriteOperation(op, store.Mode().String(), err)
	return res, err
}

func (m *Manager) mutateLocked(ctx context.Context, store Store, owner, failureTitle string, fn mutation, success *types.Notice) (*Result, error) {
	lease, err := m.acquire(ctx, owner)
	if err != nil {
		return nil, err
	}
	defer m.release(ctx, lease)

	if err := fn(store, owner); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		typed := pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save favorites").
			WithNotice(failureTitle, "Your favorites could not be updated. Please try again.")
		if stored, loadErr := store.Load(ctx, owner); loadErr == nil {
			typed.WithDetails(map[string]any{"favorites": m.view(store, stored)})
		} else {
			m.logg.Warn(m.logg.WithField(ctx, "error", loadErr.Error()), "reload favorites after failed write")
		}
		return nil, typed
	}

	entries, err := store.Load(ctx, owner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load favorites")
	}
	return &Result{Favorites: m.view(store, entries), Notice: success}, nil
}

func (m *Manager) acquire(ctx context.Context, owner string) (*redisclient.Lease, error) {
	lease, err := m.locker.Acquire(ctx, m.keys.LockKey(lockScope, owner))
	if err != nil {
		if errors.Is(err, redisclient.ErrLockHeld) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeBusy, err, "favorites are being updated")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock favorites")
	}
	return lease, nil
}

func (m *Manager) release(ctx context.Context, lease *redisclient.Lease) {
	if err := lease.Release(ctx); err != nil {
		m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), "release favorites lock")
	}
}

func (m *Manager) view(store Store, entries []Entry) List {
	list := List{Mode: store.Mode(), Items: make([]Item, 0, len(entries))}
	for _, entry := range entries {
		product, ok := m.catalog.ProductByID(entry.ProductID)
		if !ok {
			continue
		}
		list.Items = append(list.Items, Item{ID: entry.ID, ProductID: entry.ProductID, AddedAt: entry.AddedAt, Product: product})
	}
	list.Count = len(list.Items)
	return list
}

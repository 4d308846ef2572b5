package favorites

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/satyam539813/farmappsample/pkg/db"
	"github.com/satyam539813/farmappsample/pkg/db/models"
	"github.com/satyam539813/farmappsample/pkg/enums"
	"gorm.io/gorm"
)

// RemoteStore keeps signed-in favorites in the favorites table.
type RemoteStore struct {
	db *gorm.DB
}

// NewRemoteStore binds the store to the provided DB.
func NewRemoteStore(conn *gorm.DB) *RemoteStore {
	return &RemoteStore{db: conn}
}

func (r *RemoteStore) Mode() enums.StorageMode { return enums.StorageModeRemote }

func (r *RemoteStore) Load(ctx context.Context, owner string) ([]Entry, error) {
	userID, err := parseOwner(owner)
	if err != nil {
		return nil, err
	}
	var rows []models.Favorite
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("product_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, Entry{ID: row.ID.String(), ProductID: row.ProductID, AddedAt: row.CreatedAt})
	}
	return entries, nil
}

// Add inserts the favorite and maps the unique index onto ErrDuplicate. The
// entry id becomes the row id when it is a UUID; otherwise one is generated.
func (r *RemoteStore) Add(ctx context.Context, owner string, entry Entry) error {
	userID, err := parseOwner(owner)
	if err != nil {
		return err
	}
	row := models.Favorite{UserID: userID, ProductID: entry.ProductID, CreatedAt: entry.AddedAt}
	if id, err := uuid.Parse(entry.ID); err == nil {
		row.ID = id
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *RemoteStore) Remove(ctx context.Context, owner string, productID int) error {
	userID, err := parseOwner(owner)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{}).
		Error
}

func (r *RemoteStore) Clear(ctx context.Context, owner string) error {
	userID, err := parseOwner(owner)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Favorite{}).Error
}

func parseOwner(owner string) (uuid.UUID, error) {
	id, err := uuid.Parse(owner)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid favorites owner %q", owner)
	}
	return id, nil
}

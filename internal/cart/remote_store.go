package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/satyam539813/farmappsample/pkg/db/models"
	"github.com/satyam539813/farmappsample/pkg/enums"
	"gorm.io/gorm"
)

// RemoteStore keeps signed-in carts in the cart_items table.
type RemoteStore struct {
	db *gorm.DB
}

// NewRemoteStore binds the store to the provided DB.
func NewRemoteStore(db *gorm.DB) *RemoteStore {
	return &RemoteStore{db: db}
}

func (r *RemoteStore) Mode() enums.StorageMode { return enums.StorageModeRemote }

func (r *RemoteStore) Load(ctx context.Context, owner string) ([]Line, error) {
	userID, err := parseOwner(owner)
	if err != nil {
		return nil, err
	}
	var rows []models.CartItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	lines := make([]Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, Line{
			ID:        row.ID.String(),
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
			AddedAt:   row.CreatedAt,
		})
	}
	return lines, nil
}

// Save rewrites the user's rows in one transaction, keeping line ids.
func (r *RemoteStore) Save(ctx context.Context, owner string, lines []Line) error {
	userID, err := parseOwner(owner)
	if err != nil {
		return err
	}
	rows := make([]models.CartItem, 0, len(lines))
	for _, line := range lines {
		id, err := uuid.Parse(line.ID)
		if err != nil {
			id = uuid.New()
		}
		rows = append(rows, models.CartItem{
			ID:        id,
			UserID:    userID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			CreatedAt: line.AddedAt,
		})
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *RemoteStore) Clear(ctx context.Context, owner string) error {
	userID, err := parseOwner(owner)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}

func parseOwner(owner string) (uuid.UUID, error) {
	id, err := uuid.Parse(owner)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid cart owner %q", owner)
	}
	return id, nil
}

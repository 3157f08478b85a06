package repository

import (
	"context"
	"time"

	"escaperoom/internal/domain"
	"escaperoom/internal/pkg/apperr"

	"gorm.io/gorm"
)

type LocalRepository struct {
	db *gorm.DB
}

func NewLocalRepository(db *gorm.DB) *LocalRepository {
	return &LocalRepository{db: db}
}

type localModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	OwnerID   int64     `gorm:"column:owner_id;not null;index"`
	Name      string    `gorm:"column:name;size:160;not null"`
	City      string    `gorm:"column:city;size:120"`
	Address   string    `gorm:"column:address;size:255"`
	IsDeleted bool      `gorm:"column:is_deleted;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (localModel) TableName() string { return "locals" }

func (r *LocalRepository) Create(ctx context.Context, l *domain.Local) error {
	m := localModel{
		OwnerID: l.OwnerID,
		Name:    l.Name,
		City:    l.City,
		Address: l.Address,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	l.ID = m.ID
	l.CreatedAt = m.CreatedAt
	l.UpdatedAt = m.UpdatedAt
	return nil
}

// OwnerOfRoom resolves the owner of the venue that holds roomID.
func (r *LocalRepository) OwnerOfRoom(ctx context.Context, roomID int64) (int64, error) {
	type row struct {
		OwnerID int64 `gorm:"column:owner_id"`
	}
	var out row
	tx := r.db.WithContext(ctx).
		Table("rooms").
		Select("locals.owner_id").
		Joins("JOIN locals ON locals.id = rooms.local_id").
		Where("rooms.id = ?", roomID).
		Scan(&out)
	if tx.Error != nil {
		return 0, tx.Error
	}
	if tx.RowsAffected == 0 {
		return 0, apperr.ErrNotFound
	}
	return out.OwnerID, nil
}

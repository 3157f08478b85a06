package repository

import (
	"context"
	"time"

	"escaperoom/internal/domain"
	"escaperoom/internal/pkg/apperr"

	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

type roomModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	LocalID      int64     `gorm:"column:local_id;not null;index"`
	Title        string    `gorm:"column:title;size:160;not null"`
	City         string    `gorm:"column:city;size:120"`
	PlayersMin   int       `gorm:"column:players_min;not null"`
	PlayersMax   int       `gorm:"column:players_max;not null"`
	WeekSlots    []string  `gorm:"column:week_slots;type:text;serializer:json"`
	WeekendSlots []string  `gorm:"column:weekend_slots;type:text;serializer:json"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	RatingAvg    float64   `gorm:"column:rating_avg;not null"`
	RatingCount  int       `gorm:"column:rating_count;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (roomModel) TableName() string { return "rooms" }

func toDomainRoom(m roomModel) *domain.Room {
	return &domain.Room{
		ID:           m.ID,
		LocalID:      m.LocalID,
		Title:        m.Title,
		City:         m.City,
		PlayersMin:   m.PlayersMin,
		PlayersMax:   m.PlayersMax,
		WeekSlots:    m.WeekSlots,
		WeekendSlots: m.WeekendSlots,
		IsActive:     m.IsActive,
		RatingAvg:    m.RatingAvg,
		RatingCount:  m.RatingCount,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toRoomModel(r *domain.Room) roomModel {
	return roomModel{
		ID:           r.ID,
		LocalID:      r.LocalID,
		Title:        r.Title,
		City:         r.City,
		PlayersMin:   r.PlayersMin,
		PlayersMax:   r.PlayersMax,
		WeekSlots:    r.WeekSlots,
		WeekendSlots: r.WeekendSlots,
		IsActive:     r.IsActive,
		RatingAvg:    r.RatingAvg,
		RatingCount:  r.RatingCount,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	m := toRoomModel(room)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	*room = *toDomainRoom(m)
	return nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var m roomModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainRoom(m), nil
}

// GetActive returns the room only while it is bookable.
func (r *RoomRepository) GetActive(ctx context.Context, id int64) (*domain.Room, error) {
	room, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !room.IsActive {
		return nil, apperr.ErrNotFound
	}
	return room, nil
}

// Deactivate is the soft removal of a room.
func (r *RoomRepository) Deactivate(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).
		Model(&roomModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// UpdateRating overwrites the denormalised aggregate.
func (r *RoomRepository) UpdateRating(ctx context.Context, roomID int64, avg float64, count int) error {
	tx := r.db.WithContext(ctx).
		Model(&roomModel{}).
		Where("id = ?", roomID).
		Updates(map[string]any{
			"rating_avg":   avg,
			"rating_count": count,
			"updated_at":   time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

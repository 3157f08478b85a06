package repository

import (
	"context"
	"time"

	"escaperoom/internal/domain"
	"escaperoom/internal/pkg/apperr"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewModel struct {
	ID        int64      `gorm:"column:id;primaryKey"`
	UserID    int64      `gorm:"column:user_id;not null;index"`
	RoomID    int64      `gorm:"column:room_id;not null;index:idx_reviews_room,priority:1"`
	BookingID int64      `gorm:"column:booking_id;not null;index"`
	Rating    int        `gorm:"column:rating;not null"`
	Comment   string     `gorm:"column:comment;size:1000"`
	IsDeleted bool       `gorm:"column:is_deleted;not null;default:false;index:idx_reviews_room,priority:2"`
	DeletedAt *time.Time `gorm:"column:deleted_at"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (reviewModel) TableName() string { return "reviews" }

func toDomainReview(m reviewModel) *domain.Review {
	return &domain.Review{
		ID:        m.ID,
		UserID:    m.UserID,
		RoomID:    m.RoomID,
		BookingID: m.BookingID,
		Rating:    m.Rating,
		Comment:   m.Comment,
		IsDeleted: m.IsDeleted,
		DeletedAt: m.DeletedAt,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Create inserts the review; a second live review for the booking violates
// ux_reviews_booking_active and surfaces as ErrDuplicate.
func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	m := reviewModel{
		UserID:    rv.UserID,
		RoomID:    rv.RoomID,
		BookingID: rv.BookingID,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	*rv = *toDomainReview(m)
	return nil
}

// GetByID hides soft-deleted reviews.
func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	var m reviewModel
	err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		First(&m, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return toDomainReview(m), nil
}

func (r *ReviewRepository) ExistsForBooking(ctx context.Context, bookingID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("booking_id = ? AND is_deleted = ?", bookingID, false).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *ReviewRepository) Update(ctx context.Context, id int64, rating int, comment string) (*domain.Review, error) {
	tx := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{
			"rating":     rating,
			"comment":    comment,
			"updated_at": time.Now().UTC(),
		})
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, apperr.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *ReviewRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	at = at.UTC()
	tx := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{
			"is_deleted": true,
			"deleted_at": at,
			"updated_at": at,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ActiveRatings returns every rating of live reviews for the room.
func (r *ReviewRepository) ActiveRatings(ctx context.Context, roomID int64) ([]int, error) {
	var ratings []int
	err := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("room_id = ? AND is_deleted = ?", roomID, false).
		Pluck("rating", &ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *ReviewRepository) ListByRoom(ctx context.Context, roomID int64, limit, offset int) ([]domain.Review, error) {
	return r.list(ctx, "room_id = ?", roomID, limit, offset)
}

func (r *ReviewRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Review, error) {
	return r.list(ctx, "user_id = ?", userID, limit, offset)
}

func (r *ReviewRepository) list(ctx context.Context, cond string, id int64, limit, offset int) ([]domain.Review, error) {
	limit, offset = page(limit, offset)

	var rows []reviewModel
	err := r.db.WithContext(ctx).
		Where(cond, id).
		Where("is_deleted = ?", false).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Review, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReview(m))
	}
	return out, nil
}

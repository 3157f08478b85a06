package repository

import (
	"context"
	"time"

	"escaperoom/internal/domain"
	"escaperoom/internal/pkg/apperr"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID              int64      `gorm:"column:id;primaryKey"`
	RoomID          int64      `gorm:"column:room_id;not null;index:idx_bookings_room_time,priority:1"`
	UserID          int64      `gorm:"column:user_id;not null;index"`
	ScheduledAt     time.Time  `gorm:"column:scheduled_at;not null;index:idx_bookings_room_time,priority:2"`
	Players         int        `gorm:"column:players;not null"`
	Status          string     `gorm:"column:status;size:16;not null"`
	CustomerNote    string     `gorm:"column:customer_note;size:500"`
	InternalNote    string     `gorm:"column:internal_note;size:1000"`
	CreatedByUserID int64      `gorm:"column:created_by_user_id;not null"`
	CreatedByRole   string     `gorm:"column:created_by_role;size:16;not null"`
	ConfirmedAt     *time.Time `gorm:"column:confirmed_at"`
	CompletedAt     *time.Time `gorm:"column:completed_at"`
	CancelledAt     *time.Time `gorm:"column:cancelled_at"`
	IsDeleted       bool       `gorm:"column:is_deleted;not null;default:false;index"`
	DeletedAt       *time.Time `gorm:"column:deleted_at"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		ID:              m.ID,
		RoomID:          m.RoomID,
		UserID:          m.UserID,
		ScheduledAt:     m.ScheduledAt,
		Players:         m.Players,
		Status:          domain.BookingStatus(m.Status),
		CustomerNote:    m.CustomerNote,
		InternalNote:    m.InternalNote,
		CreatedByUserID: m.CreatedByUserID,
		CreatedByRole:   domain.UserRole(m.CreatedByRole),
		ConfirmedAt:     m.ConfirmedAt,
		CompletedAt:     m.CompletedAt,
		CancelledAt:     m.CancelledAt,
		IsDeleted:       m.IsDeleted,
		DeletedAt:       m.DeletedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:              b.ID,
		RoomID:          b.RoomID,
		UserID:          b.UserID,
		ScheduledAt:     b.ScheduledAt.UTC(),
		Players:         b.Players,
		Status:          string(b.Status),
		CustomerNote:    b.CustomerNote,
		InternalNote:    b.InternalNote,
		CreatedByUserID: b.CreatedByUserID,
		CreatedByRole:   string(b.CreatedByRole),
		ConfirmedAt:     b.ConfirmedAt,
		CompletedAt:     b.CompletedAt,
		CancelledAt:     b.CancelledAt,
		IsDeleted:       b.IsDeleted,
		DeletedAt:       b.DeletedAt,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func activeStatuses() []string {
	out := make([]string, 0, len(domain.ActiveBookingStatuses))
	for _, s := range domain.ActiveBookingStatuses {
		out = append(out, string(s))
	}
	return out
}

// Create inserts the booking. A second active booking for the same room and
// timestamp is rejected by ux_bookings_active_slot and surfaces as ErrDuplicate.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	*b = *toDomainBooking(m)
	return nil
}

// GetByID hides soft-deleted bookings.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		First(&m, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return toDomainBooking(m), nil
}

// ExistsActive reports whether (roomID, at) is held by a pending or confirmed booking.
func (r *BookingRepository) ExistsActive(ctx context.Context, roomID int64, at time.Time) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("room_id = ? AND scheduled_at = ?", roomID, at.UTC()).
		Where("status IN ? AND is_deleted = ?", activeStatuses(), false).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// ActiveTimesBetween returns the held timestamps of a room in [from, to).
func (r *BookingRepository) ActiveTimesBetween(ctx context.Context, roomID int64, from, to time.Time) ([]time.Time, error) {
	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Select("scheduled_at").
		Where("room_id = ?", roomID).
		Where("scheduled_at >= ? AND scheduled_at < ?", from.UTC(), to.UTC()).
		Where("status IN ? AND is_deleted = ?", activeStatuses(), false).
		Order("scheduled_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.ScheduledAt)
	}
	return out, nil
}

// UpdateStatus moves a booking from one status to another and stamps the matching
// transition time. The WHERE on the previous status makes it a compare-and-set.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, at time.Time) (*domain.Booking, error) {
	at = at.UTC()
	updates := map[string]any{
		"status":     string(to),
		"updated_at": at,
	}
	switch to {
	case domain.BookingConfirmed:
		updates["confirmed_at"] = at
	case domain.BookingCompleted:
		updates["completed_at"] = at
	case domain.BookingCancelled:
		updates["cancelled_at"] = at
	}

	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND status = ? AND is_deleted = ?", id, string(from), false).
		Updates(updates)
	if tx.Error != nil {
		return nil, translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return nil, ErrStaleStatus
	}
	return r.GetByID(ctx, id)
}

// UpdateNotes writes both note fields in one statement.
func (r *BookingRepository) UpdateNotes(ctx context.Context, id int64, customerNote, internalNote string) (*domain.Booking, error) {
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{
			"customer_note": customerNote,
			"internal_note": internalNote,
			"updated_at":    time.Now().UTC(),
		})
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, apperr.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// SoftDelete marks an administrative removal. It frees the slot like a cancellation
// would, but keeps the status untouched.
func (r *BookingRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	at = at.UTC()
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
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

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	limit, offset = page(limit, offset)

	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

// BookingFilter narrows owner listings. OwnerID 0 means every venue.
type BookingFilter struct {
	OwnerID int64
	Status  domain.BookingStatus
	Limit   int
	Offset  int
}

func (r *BookingRepository) ListForOwner(ctx context.Context, f BookingFilter) ([]domain.Booking, error) {
	limit, offset := page(f.Limit, f.Offset)

	q := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Select("bookings.*").
		Joins("JOIN rooms ON rooms.id = bookings.room_id").
		Joins("JOIN locals ON locals.id = rooms.local_id").
		Where("bookings.is_deleted = ?", false)
	if f.OwnerID != 0 {
		q = q.Where("locals.owner_id = ?", f.OwnerID)
	}
	if f.Status != "" {
		q = q.Where("bookings.status = ?", string(f.Status))
	}

	var rows []bookingModel
	err := q.Order("bookings.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

func toDomainBookings(rows []bookingModel) []domain.Booking {
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out
}

func page(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

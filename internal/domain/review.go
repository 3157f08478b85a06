package domain

import "time"

const MaxReviewCommentLen = 1000

type Review struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	RoomID    int64      `json:"room_id"`
	BookingID int64      `json:"booking_id"`
	Rating    int        `json:"rating"`
	Comment   string     `json:"comment"`
	IsDeleted bool       `json:"-"`
	DeletedAt *time.Time `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

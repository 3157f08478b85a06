package booking

import "escaperoom/internal/domain"

type CreateBookingRequest struct {
	RoomID       int64   `json:"roomId" validate:"required,gt=0"`
	ScheduledAt  string  `json:"scheduledAt"`
	Players      int     `json:"players"`
	CustomerNote *string `json:"customerNote"`
	InternalNote *string `json:"internalNote"`
	// UserID is the customer an owner or admin books for. Ignored for customers.
	UserID int64 `json:"userId"`
}

type UpdateStatusRequest struct {
	Status domain.BookingStatus `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

type UpdateNotesRequest struct {
	CustomerNote *string `json:"customerNote"`
	InternalNote *string `json:"internalNote"`
}

type ListParams struct {
	Limit  int `form:"limit" validate:"gte=0,lte=100"`
	Offset int `form:"offset" validate:"gte=0"`
}

type OwnerListParams struct {
	ListParams
	Status domain.BookingStatus `form:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
}

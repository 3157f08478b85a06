package availability

import (
	"time"

	"escaperoom/internal/slots"
)

type Slot struct {
	Slot         string    `json:"slot"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	Available    bool      `json:"available"`
	CallRequired bool      `json:"call_required"`
}

type Result struct {
	RoomID  int64         `json:"room_id"`
	Date    string        `json:"date"`
	DayType slots.DayType `json:"day_type"`
	Slots   []Slot        `json:"slots"`
}

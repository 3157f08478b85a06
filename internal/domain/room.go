package domain

import "time"

type Room struct {
	ID           int64     `json:"id"`
	LocalID      int64     `json:"local_id"`
	Title        string    `json:"title"`
	City         string    `json:"city,omitempty"`
	PlayersMin   int       `json:"players_min"`
	PlayersMax   int       `json:"players_max"`
	WeekSlots    []string  `json:"week_slots"`
	WeekendSlots []string  `json:"weekend_slots"`
	IsActive     bool      `json:"is_active"`
	RatingAvg    float64   `json:"rating_avg"`
	RatingCount  int       `json:"rating_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

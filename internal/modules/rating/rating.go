// Package rating keeps Room.ratingAvg / ratingCount equal to the aggregate of the
// room's live reviews. The value is always recomputed from a full scan.
package rating

import (
	"context"
	"fmt"

	"escaperoom/internal/metrics"
)

type ReviewSource interface {
	ActiveRatings(ctx context.Context, roomID int64) ([]int, error)
}

type RoomWriter interface {
	UpdateRating(ctx context.Context, roomID int64, avg float64, count int) error
}

type Summary struct {
	Avg   float64 `json:"rating_avg"`
	Count int     `json:"rating_count"`
}

// Summarize returns the mean rounded half-up to one decimal and the count.
// Integer arithmetic keeps the rounding exact: tenths = floor((20*sum + n) / 2n).
func Summarize(ratings []int) Summary {
	n := len(ratings)
	if n == 0 {
		return Summary{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	tenths := (20*sum + n) / (2 * n)
	return Summary{Avg: float64(tenths) / 10, Count: n}
}

// Recompute scans the room's live reviews and overwrites the room aggregate.
func Recompute(ctx context.Context, reviews ReviewSource, rooms RoomWriter, roomID int64) (Summary, error) {
	ratings, err := reviews.ActiveRatings(ctx, roomID)
	if err != nil {
		return Summary{}, fmt.Errorf("load ratings: %w", err)
	}
	s := Summarize(ratings)
	if err := rooms.UpdateRating(ctx, roomID, s.Avg, s.Count); err != nil {
		return Summary{}, fmt.Errorf("store rating: %w", err)
	}
	metrics.IncRatingRecompute()
	return s, nil
}

package database

import (
	"fmt"

	"escaperoom/internal/repository"

	"gorm.io/gorm"
)

// Partial unique indexes are the final arbiter of the overlap and review-uniqueness
// invariants; service pre-checks only give a friendlier early answer.
var uniqueIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_bookings_active_slot
	   ON bookings (room_id, scheduled_at)
	   WHERE status IN ('pending', 'confirmed') AND is_deleted = false`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_reviews_booking_active
	   ON reviews (booking_id)
	   WHERE is_deleted = false`,
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(repository.Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	for _, stmt := range uniqueIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

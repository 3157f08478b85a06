package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories over one gorm handle, which may be a transaction.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() *UserRepository       { return &UserRepository{db: s.db} }
func (s *Store) Locals() *LocalRepository     { return &LocalRepository{db: s.db} }
func (s *Store) Rooms() *RoomRepository       { return &RoomRepository{db: s.db} }
func (s *Store) Bookings() *BookingRepository { return &BookingRepository{db: s.db} }
func (s *Store) Reviews() *ReviewRepository   { return &ReviewRepository{db: s.db} }

// Transaction runs fn against a Store bound to a single database transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

// Models lists the records handled by AutoMigrate.
func Models() []any {
	return []any{
		&userModel{},
		&localModel{},
		&roomModel{},
		&bookingModel{},
		&reviewModel{},
	}
}

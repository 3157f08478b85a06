// Package dbtest opens a migrated in-memory SQLite store for tests.
package dbtest

import (
	"context"
	"testing"

	"escaperoom/internal/database"
	"escaperoom/internal/domain"
	"escaperoom/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func NewStore(t *testing.T) *repository.Store {
	t.Helper()

	db, err := database.Connect(":memory:", zerolog.Nop())
	require.NoError(t, err, "connect test database")
	require.NoError(t, database.Migrate(db), "migrate test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repository.NewStore(db)
}

// Fixture is one venue with one room plus the users that act on it.
type Fixture struct {
	Store      *repository.Store
	Admin      *domain.User
	Owner      *domain.User
	OtherOwner *domain.User
	Customer   *domain.User
	Customer2  *domain.User
	Local      *domain.Local
	Room       *domain.Room
}

// Seed creates a room with weekSlots 10:00/14:00, weekendSlots 11:00, capacity [2,6].
func Seed(t *testing.T) *Fixture {
	t.Helper()
	ctx := context.Background()
	s := NewStore(t)

	f := &Fixture{
		Store:      s,
		Admin:      &domain.User{Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin},
		Owner:      &domain.User{Name: "Owner", Email: "owner@example.com", Role: domain.RoleOwner},
		OtherOwner: &domain.User{Name: "Other", Email: "other@example.com", Role: domain.RoleOwner},
		Customer:   &domain.User{Name: "Ana", Email: "ana@example.com", Role: domain.RoleUser},
		Customer2:  &domain.User{Name: "Luis", Email: "luis@example.com", Role: domain.RoleUser},
	}
	for _, u := range []*domain.User{f.Admin, f.Owner, f.OtherOwner, f.Customer, f.Customer2} {
		require.NoError(t, s.Users().Create(ctx, u))
	}

	f.Local = &domain.Local{OwnerID: f.Owner.ID, Name: "Enigma", City: "Madrid"}
	require.NoError(t, s.Locals().Create(ctx, f.Local))

	f.Room = &domain.Room{
		LocalID:      f.Local.ID,
		Title:        "The Vault",
		City:         "Madrid",
		PlayersMin:   2,
		PlayersMax:   6,
		WeekSlots:    []string{"10:00", "14:00"},
		WeekendSlots: []string{"11:00"},
		IsActive:     true,
	}
	require.NoError(t, s.Rooms().Create(ctx, f.Room))
	return f
}

func Requester(u *domain.User) domain.Requester {
	return domain.Requester{ID: u.ID, Role: u.Role}
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"escaperoom/internal/config"
	"escaperoom/internal/database"
	"escaperoom/internal/domain"
	"escaperoom/internal/modules/booking"
	"escaperoom/internal/modules/review"
	jwtsvc "escaperoom/internal/pkg/jwt"
	"escaperoom/internal/repository"

	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	if os.Getenv("DATABASE_URL") == "" {
		_ = os.Setenv("DATABASE_URL", "escaperoom.db")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("DB connection failed")
	}

	log.Info().Msg("running migrations")
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Info().Msg("cleaning old data")
	for _, table := range []string{"reviews", "bookings", "rooms", "locals", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatal().Err(err).Str("table", table).Msg("cleanup failed")
		}
	}

	ctx := context.Background()
	store := repository.NewStore(db)
	tokens := jwtsvc.New(cfg.JWTSecret, 30*24*time.Hour)

	// ================== USERS ==================
	admin := mustUser(ctx, store, "Admin", "admin@escaperoom.local", domain.RoleAdmin)
	owner := mustUser(ctx, store, "Marta Owner", "owner@escaperoom.local", domain.RoleOwner)
	ana := mustUser(ctx, store, "Ana", "ana@escaperoom.local", domain.RoleUser)
	luis := mustUser(ctx, store, "Luis", "luis@escaperoom.local", domain.RoleUser)

	// ================== VENUES & ROOMS ==================
	local := &domain.Local{OwnerID: owner.ID, Name: "Enigma", City: "Madrid", Address: "Calle Mayor 1"}
	if err := store.Locals().Create(ctx, local); err != nil {
		log.Fatal().Err(err).Msg("create local")
	}

	rooms := []*domain.Room{
		{Title: "The Vault", PlayersMin: 2, PlayersMax: 6, WeekSlots: []string{"10:00", "14:00"}, WeekendSlots: []string{"11:00"}},
		{Title: "Asylum", PlayersMin: 3, PlayersMax: 8, WeekSlots: []string{"18:00", "20:00"}, WeekendSlots: []string{"12:00", "16:00", "20:00"}},
		{Title: "Weekend Lab", PlayersMin: 2, PlayersMax: 4, WeekendSlots: []string{"17:30"}},
	}
	for _, r := range rooms {
		r.LocalID = local.ID
		r.City = local.City
		r.IsActive = true
		if err := store.Rooms().Create(ctx, r); err != nil {
			log.Fatal().Err(err).Str("room", r.Title).Msg("create room")
		}
	}

	// ================== BOOKINGS ==================
	bookings := booking.NewService(store.Bookings(), store.Rooms(), store.Users(), store.Locals(), nil,
		booking.Config{Location: cfg.Location, CallRequiredWindow: cfg.CallRequiredWindow}, log)
	reviews := review.NewService(store, nil, log)

	now := time.Now().In(cfg.Location)
	adminReq := domain.Requester{ID: admin.ID, Role: admin.Role}
	ownerReq := domain.Requester{ID: owner.ID, Role: owner.Role}

	nextTuesday := next(now.AddDate(0, 0, 2), time.Tuesday)
	lastSaturday := next(now, time.Saturday).AddDate(0, 0, -7)

	pending, err := bookings.CreateBooking(ctx, domain.Requester{ID: ana.ID, Role: ana.Role}, booking.CreateBookingRequest{
		RoomID:      rooms[0].ID,
		ScheduledAt: nextTuesday.Format("2006-01-02") + "T14:00",
		Players:     4,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create pending booking")
	}

	played, err := bookings.CreateBooking(ctx, adminReq, booking.CreateBookingRequest{
		RoomID:      rooms[0].ID,
		ScheduledAt: lastSaturday.Format("2006-01-02") + "T11:00",
		Players:     3,
		UserID:      luis.ID,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create past booking")
	}
	if _, err := bookings.Confirm(ctx, ownerReq, played.ID); err != nil {
		log.Fatal().Err(err).Msg("confirm")
	}
	if _, err := bookings.Complete(ctx, ownerReq, played.ID); err != nil {
		log.Fatal().Err(err).Msg("complete")
	}

	comment := "Loved the final puzzle"
	if _, err := reviews.Create(ctx, domain.Requester{ID: luis.ID, Role: luis.Role}, review.CreateReviewRequest{
		BookingID: played.ID,
		Rating:    5,
		Comment:   &comment,
	}); err != nil {
		log.Fatal().Err(err).Msg("create review")
	}

	log.Info().Int64("pending_booking", pending.ID).Int64("completed_booking", played.ID).Msg("bookings created")

	// ================== TOKENS ==================
	for _, u := range []*domain.User{admin, owner, ana, luis} {
		tok, err := tokens.GenerateToken(u.ID, u.Role)
		if err != nil {
			log.Fatal().Err(err).Msg("token")
		}
		fmt.Printf("%-6s %-24s Bearer %s\n", u.Role, u.Email, tok)
	}

	log.Info().Msg("seed completed")
}

func mustUser(ctx context.Context, store *repository.Store, name, email string, role domain.UserRole) *domain.User {
	u := &domain.User{Name: name, Email: email, Role: role}
	if err := store.Users().Create(ctx, u); err != nil {
		fmt.Fprintf(os.Stderr, "create user %s: %v\n", email, err)
		os.Exit(1)
	}
	return u
}

// next returns the first date on or after t that falls on wd, at midnight.
func next(t time.Time, wd time.Weekday) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, (int(wd)-int(day.Weekday())+7)%7)
}

package main

import (
	"net/http"
	"time"

	"escaperoom/internal/events"
	"escaperoom/internal/middleware"
	"escaperoom/internal/modules/availability"
	"escaperoom/internal/modules/booking"
	"escaperoom/internal/modules/review"
	jwtsvc "escaperoom/internal/pkg/jwt"
	"escaperoom/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type routerDeps struct {
	Store     *repository.Store
	Tokens    *jwtsvc.Service
	Hub       *events.Hub
	Publisher events.Publisher
	Log       zerolog.Logger

	Location           *time.Location
	CallRequiredWindow time.Duration
	AllowedOrigins     map[string]bool

	// ServeMetrics mounts /metrics on the API router.
	ServeMetrics bool
	// Now overrides the service clocks; nil means time.Now.
	Now func() time.Time
}

func newRouter(d routerDeps) *gin.Engine {
	now := d.Now
	if now == nil {
		now = time.Now
	}

	availabilityService := availability.NewService(d.Store.Rooms(), d.Store.Bookings(), d.Location, d.CallRequiredWindow).
		WithClock(now)
	availabilityHandler := availability.NewHandler(availabilityService)

	bookingService := booking.NewService(
		d.Store.Bookings(),
		d.Store.Rooms(),
		d.Store.Users(),
		d.Store.Locals(),
		d.Publisher,
		booking.Config{Location: d.Location, CallRequiredWindow: d.CallRequiredWindow},
		d.Log.With().Str("component", "booking").Logger(),
	).WithClock(now)
	bookingHandler := booking.NewHandler(bookingService)

	reviewService := review.NewService(d.Store, d.Publisher, d.Log.With().Str("component", "review").Logger())
	reviewHandler := review.NewHandler(reviewService)

	eventsHandler := events.NewHandler(d.Hub, func(origin string) bool { return d.AllowedOrigins[origin] }, d.Log)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORS(d.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.ServeMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	v1 := r.Group("/api/v1")
	{
		// public
		availabilityHandler.RegisterRoutes(v1)
		eventsHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(d.Tokens))
		{
			bookingHandler.RegisterRoutes(protected)
		}

		reviewHandler.RegisterRoutes(v1, protected)
	}

	return r
}

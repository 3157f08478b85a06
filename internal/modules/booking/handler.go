package booking

import (
	"net/http"
	"strconv"

	"escaperoom/internal/domain"
	"escaperoom/internal/middleware"
	"escaperoom/internal/pkg/response"
	"escaperoom/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects rg to run JWTAuth already.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("/mine", h.ListMine)
		bookings.GET("/owner", middleware.StaffOnly(), h.ListOwner)
		bookings.PATCH("/:id/status", h.UpdateStatus)
		bookings.PATCH("/:id/cancel", h.CancelMine)
		bookings.PATCH("/:id/confirm", middleware.StaffOnly(), h.Confirm)
		bookings.PATCH("/:id/complete", middleware.StaffOnly(), h.Complete)
		bookings.PATCH("/:id/owner-cancel", middleware.StaffOnly(), h.OwnerCancel)
		bookings.PATCH("/:id/notes", h.UpdateNotes)
		bookings.DELETE("/:id", middleware.AdminOnly(), h.Delete)
	}
}

func (h *Handler) CreateBooking(c *gin.Context) {
	req, ok := middleware.MustRequester(c)
	if !ok {
		return
	}

	var in CreateBookingRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if err := validator.Struct(in); err != nil {
		response.FromError(c, err)
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), req, in)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) ListMine(c *gin.Context) {
	req, ok := middleware.MustRequester(c)
	if !ok {
		return
	}

	var p ListParams
	if !bindQuery(c, &p) {
		return
	}

	list, err := h.service.ListMine(c.Request.Context(), req, p)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) ListOwner(c *gin.Context) {
	req, ok := middleware.MustRequester(c)
	if !ok {
		return
	}

	var p OwnerListParams
	if !bindQuery(c, &p) {
		return
	}

	list, err := h.service.ListOwner(c.Request.Context(), req, p)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var in UpdateStatusRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if err := validator.Struct(in); err != nil {
		response.FromError(c, err)
		return
	}

	h.changeStatus(c, func(s *Service, c *gin.Context, req domain.Requester, id int64) (*domain.Booking, error) {
		return s.Transition(c.Request.Context(), req, id, in.Status)
	})
}

func (h *Handler) CancelMine(c *gin.Context) {
	h.changeStatus(c, func(s *Service, c *gin.Context, req domain.Requester, id int64) (*domain.Booking, error) {
		return s.CancelMine(c.Request.Context(), req, id)
	})
}

func (h *Handler) Confirm(c *gin.Context) {
	h.changeStatus(c, func(s *Service, c *gin.Context, req domain.Requester, id int64) (*domain.Booking, error) {
		return s.Confirm(c.Request.Context(), req, id)
	})
}

func (h *Handler) Complete(c *gin.Context) {
	h.changeStatus(c, func(s *Service, c *gin.Context, req domain.Requester, id int64) (*domain.Booking, error) {
		return s.Complete(c.Request.Context(), req, id)
	})
}

func (h *Handler) OwnerCancel(c *gin.Context) {
	h.changeStatus(c, func(s *Service, c *gin.Context, req domain.Requester, id int64) (*domain.Booking, error) {
		return s.OwnerCancel(c.Request.Context(), req, id)
	})
}

type statusFunc func(s *Service, c *gin.Context, req domain.Requester, id int64) (*domain.Booking, error)

func (h *Handler) changeStatus(c *gin.Context, fn statusFunc) {
	req, ok := middleware.MustRequester(c)
	if !ok {
		return
	}
	id, ok := bookingID(c)
	if !ok {
		return
	}

	b, err := fn(h.service, c, req, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) UpdateNotes(c *gin.Context) {
	req, ok := middleware.MustRequester(c)
	if !ok {
		return
	}
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var in UpdateNotesRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.UpdateNotes(c.Request.Context(), req, id, in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) Delete(c *gin.Context) {
	req, ok := middleware.MustRequester(c)
	if !ok {
		return
	}
	id, ok := bookingID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), req, id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return 0, false
	}
	return id, true
}

func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return false
	}
	if err := validator.Struct(dst); err != nil {
		response.FromError(c, err)
		return false
	}
	return true
}

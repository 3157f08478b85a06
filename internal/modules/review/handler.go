package review

import (
	"net/http"
	"strconv"

	"escaperoom/internal/middleware"
	"escaperoom/internal/pkg/response"
	"escaperoom/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	// Public routes (no auth required)
	if public != nil {
		public.GET("/rooms/:id/reviews", h.ListByRoom)
	}

	// Protected routes (auth required)
	if protected != nil {
		protected.POST("/reviews", h.Create)
		protected.GET("/reviews/mine", h.ListMine)
		protected.PUT("/reviews/:id", h.Update)
		protected.DELETE("/reviews/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	req, ok := middleware.MustRequester(c)
	if !ok {
		return
	}

	var in CreateReviewRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if err := validator.Struct(in); err != nil {
		response.FromError(c, err)
		return
	}

	rv, err := h.svc.Create(c.Request.Context(), req, in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"review": rv})
}

func (h *Handler) Update(c *gin.Context) {
	req, ok := middleware.MustRequester(c)
	if !ok {
		return
	}
	id, ok := reviewID(c)
	if !ok {
		return
	}

	var in UpdateReviewRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	rv, err := h.svc.Update(c.Request.Context(), req, id, in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"review": rv})
}

func (h *Handler) Delete(c *gin.Context) {
	req, ok := middleware.MustRequester(c)
	if !ok {
		return
	}
	id, ok := reviewID(c)
	if !ok {
		return
	}

	rv, err := h.svc.Delete(c.Request.Context(), req, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"review": rv})
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

	items, err := h.svc.ListMine(c.Request.Context(), req, p)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reviews": items})
}

func (h *Handler) ListByRoom(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || roomID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
		return
	}
	var p ListParams
	if !bindQuery(c, &p) {
		return
	}

	items, err := h.svc.ListByRoom(c.Request.Context(), roomID, p)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reviews": items})
}

func reviewID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid review ID")
		return 0, false
	}
	return id, true
}

func bindQuery(c *gin.Context, dst *ListParams) bool {
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

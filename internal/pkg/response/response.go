package response

import (
	"errors"
	"strings"
	"net/http"

	"escaperoom/internal/pkg/apperr"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// FromError writes the envelope for an error returned by a service. Unknown errors become
// a 500 with a fixed message; their text never reaches the client.
func FromError(c *gin.Context, err error) {
	var te *apperr.TransitionError
	switch {
	case errors.As(err, &te):
		ErrorWithDetails(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", te.Error(),
			gin.H{"from": te.From, "to": te.To})
	case errors.Is(err, apperr.ErrNoSlotsConfigured):
		Error(c, http.StatusBadRequest, "NO_SLOTS_CONFIGURED", "Room has no slots configured for this day")
	case errors.Is(err, apperr.ErrSlotNotOffered):
		Error(c, http.StatusBadRequest, "SLOT_NOT_OFFERED", "Requested time is not an offered slot")
	case errors.Is(err, apperr.ErrCapacityOutOfRange):
		Error(c, http.StatusBadRequest, "CAPACITY_OUT_OF_RANGE", "Number of players is outside the room capacity")
	case errors.Is(err, apperr.ErrInvalidInput):
		Error(c, http.StatusBadRequest, "VALIDATION_ERROR", detail(err, apperr.ErrInvalidInput, "Invalid request"))
	case errors.Is(err, apperr.ErrNotFound):
		Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, apperr.ErrForbidden):
		Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	case errors.Is(err, apperr.ErrCallRequired):
		Error(c, http.StatusConflict, "CALL_REQUIRED", "This slot is too close to book online, please call the venue")
	case errors.Is(err, apperr.ErrConflict):
		Error(c, http.StatusConflict, "CONFLICT", detail(err, apperr.ErrConflict, "Request conflicts with the current state"))
	default:
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}

// detail returns the text added after kind in err, without the wrap prefixes and the
// sentinel itself, or fallback when there is none.
func detail(err, kind error, fallback string) string {
	msg := err.Error()
	marker := kind.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		if d := strings.TrimSpace(msg[i+len(marker):]); d != "" {
			return d
		}
	}
	return fallback
}

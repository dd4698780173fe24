package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/uniedit/uploader/internal/model"
	"github.com/uniedit/uploader/internal/utils/middleware"
)

// GetUserIDFromContext extracts user ID from gin context.
// Writes a 401 and returns false when no user is authenticated.
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{
			Code:    "unauthorized",
			Message: "Authentication required",
		})
		return uuid.Nil, false
	}
	return userID, true
}

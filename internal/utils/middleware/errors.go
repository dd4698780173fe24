package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/uniedit/uploader/internal/model"
)

// abortWithError writes the standard error body and stops the chain.
func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, model.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

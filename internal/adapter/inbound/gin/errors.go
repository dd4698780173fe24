package gin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniedit/uploader/internal/domain/credential"
	"github.com/uniedit/uploader/internal/model"
)

// handleUploadError maps credential domain errors to HTTP responses.
func handleUploadError(c *gin.Context, err error) {
	var statusCode int
	var errorCode string
	var message string

	switch {
	case errors.Is(err, credential.ErrAppNotAllowed):
		statusCode = http.StatusUnprocessableEntity
		errorCode = "app_not_allowed"
		message = "Application is not allowed to upload"

	case errors.Is(err, credential.ErrInvalidFolder):
		statusCode = http.StatusBadRequest
		errorCode = "invalid_folder"
		message = "Invalid folder"

	case errors.Is(err, credential.ErrInvalidRequest):
		statusCode = http.StatusBadRequest
		errorCode = "invalid_request"
		message = "fileName and fileType are required"

	case errors.Is(err, credential.ErrPresignFailed):
		statusCode = http.StatusBadGateway
		errorCode = "presign_failed"
		message = "Failed to generate upload URL"

	default:
		statusCode = http.StatusInternalServerError
		errorCode = "internal_error"
		message = "Internal server error"
	}

	c.JSON(statusCode, model.ErrorResponse{
		Code:    errorCode,
		Message: message,
	})
}

package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniedit/uploader/internal/domain/credential"
	"github.com/uniedit/uploader/internal/model"
	"github.com/uniedit/uploader/internal/port/inbound"
)

// AppsResponse lists the application namespaces that accept uploads.
type AppsResponse struct {
	Apps []string `json:"apps"`
}

// uploadHandler implements inbound.UploadHttpPort.
type uploadHandler struct {
	credentialDomain credential.CredentialDomain
}

// NewUploadHandler creates a new upload HTTP handler.
func NewUploadHandler(credentialDomain credential.CredentialDomain) inbound.UploadHttpPort {
	return &uploadHandler{credentialDomain: credentialDomain}
}

// RegisterRoutes registers upload routes.
func (h *uploadHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/generate-upload-url", h.GenerateUploadURL)
	r.GET("/apps", h.ListApps)
}

// GenerateUploadURL issues a presigned PUT for one object.
//
//	@Summary		Generate upload URL
//	@Description	Issue a short-lived presigned PUT URL for a single object
//	@Tags			Upload
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		model.UploadCredentialRequest	true	"Upload request"
//	@Success		200		{object}	model.UploadCredential
//	@Failure		400		{object}	model.ErrorResponse
//	@Failure		401		{object}	model.ErrorResponse
//	@Failure		422		{object}	model.ErrorResponse
//	@Failure		429		{object}	model.ErrorResponse
//	@Failure		502		{object}	model.ErrorResponse
//	@Router			/generate-upload-url [post]
func (h *uploadHandler) GenerateUploadURL(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req model.UploadCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Code:    "invalid_request",
			Message: err.Error(),
		})
		return
	}

	cred, err := h.credentialDomain.Issue(c.Request.Context(), userID, &req)
	if err != nil {
		handleUploadError(c, err)
		return
	}

	c.JSON(http.StatusOK, cred)
}

// ListApps returns the application namespaces.
//
//	@Summary		List upload applications
//	@Tags			Upload
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	AppsResponse
//	@Router			/apps [get]
func (h *uploadHandler) ListApps(c *gin.Context) {
	c.JSON(http.StatusOK, AppsResponse{Apps: h.credentialDomain.AllowedApps()})
}

// Compile-time check
var _ inbound.UploadHttpPort = (*uploadHandler)(nil)

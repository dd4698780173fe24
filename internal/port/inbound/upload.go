package inbound

import "github.com/gin-gonic/gin"

// UploadHttpPort defines HTTP handler interface for upload credential issuance.
type UploadHttpPort interface {
	// RegisterRoutes mounts the handlers on r.
	RegisterRoutes(r gin.IRoutes)

	// GenerateUploadURL handles POST /generate-upload-url
	GenerateUploadURL(c *gin.Context)

	// ListApps handles GET /apps
	ListApps(c *gin.Context)
}

package response

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-adp-console/internal/models"
	appErrors "github.com/noah-isme/sma-adp-console/pkg/errors"
)

// Envelope represents the common response contract.
type Envelope struct {
	Data       interface{}             `json:"data,omitempty"`
	Error      *appErrors.Error        `json:"error,omitempty"`
	Pagination *models.PaginationState `json:"pagination,omitempty"`
	Notices    []models.Notice         `json:"notices,omitempty"`
	Meta       map[string]interface{}  `json:"meta,omitempty"`
}

// JSON sends a success response with optional pagination metadata.
func JSON(c *gin.Context, status int, data interface{}, pagination *models.PaginationState, meta ...map[string]interface{}) {
	noStore(c)
	envelope := Envelope{Data: data, Pagination: pagination}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// WithNotices sends a success response carrying operator feedback.
func WithNotices(c *gin.Context, status int, data interface{}, notices []models.Notice) {
	Page(c, status, data, nil, notices, nil)
}

// Page sends a list screen: items, pagination, feedback and metadata.
func Page(c *gin.Context, status int, data interface{}, pagination *models.PaginationState, notices []models.Notice, meta map[string]interface{}) {
	noStore(c)
	envelope := Envelope{Data: data, Pagination: pagination, Notices: notices}
	if len(meta) > 0 {
		envelope.Meta = meta
	}
	c.JSON(status, envelope)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	noStore(c)
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}

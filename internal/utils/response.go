// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/price-compare/internal/i18n"
)

// Bodies are written as-is: arrays for listings, objects for single
// records and {"error": "..."} for failures.

type ErrorBody struct {
	Error   string            `json:"error"`
	Details []ValidationError `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func ListResponse(c *gin.Context, items interface{}, total int64, params PaginationParams) {
	SetPaginationHeaders(c, total, params)
	c.JSON(http.StatusOK, items)
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorBody{Error: message})
}

func BadRequestResponse(c *gin.Context, message string) {
	if message == "" {
		message = i18n.T(i18n.KeyValidationInvalid, "solicitud")
	}
	ErrorResponse(c, http.StatusBadRequest, message)
}

func NotFoundResponse(c *gin.Context, key string) {
	ErrorResponse(c, http.StatusNotFound, i18n.T(key))
}

func ConflictResponse(c *gin.Context, key string) {
	ErrorResponse(c, http.StatusConflict, i18n.T(key))
}

// InternalErrorResponse logs err and answers with the generic message
// stored under key.
func InternalErrorResponse(c *gin.Context, key string, err error) {
	entry := logrus.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
	})
	if requestID, ok := c.Get(RequestIDKey); ok {
		entry = entry.WithField("request_id", requestID)
	}
	entry.WithError(err).Error(i18n.T(key))

	ErrorResponse(c, http.StatusInternalServerError, i18n.T(key))
}

func ValidationErrorResponse(c *gin.Context, errors []ValidationError) {
	message := i18n.T(i18n.KeyValidationInvalid, "entrada")
	if len(errors) > 0 {
		message = errors[0].Message
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{Error: message, Details: errors})
}

const RequestIDKey = "request_id"

func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDKey); exists {
		if idStr, ok := id.(string); ok {
			return idStr
		}
	}
	return ""
}

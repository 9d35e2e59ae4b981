// internal/handlers/common.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"

	"github.com/javajoker/price-compare/internal/i18n"
	"github.com/javajoker/price-compare/internal/services"
	"github.com/javajoker/price-compare/internal/utils"
)

// parseID reads a UUID path parameter. A malformed id can never resolve, so
// it is answered with the resource's not-found message.
func parseID(c *gin.Context, param, notFoundKey string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		utils.NotFoundResponse(c, notFoundKey)
		return uuid.Nil, false
	}
	return id, true
}

// parseOptionalID reads an optional UUID query filter.
func parseOptionalID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(i18n.KeyInvalidParam, name))
		return nil, false
	}
	return &id, true
}

// availabilityFilter accepts both isAvailable and available.
func availabilityFilter(c *gin.Context) *bool {
	if v, ok := c.GetQuery("isAvailable"); ok {
		return utils.ParseOptionalBool(v)
	}
	return utils.ParseOptionalBool(c.Query("available"))
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), binding.MIMEMultipartPOSTForm)
}

// bindBody binds a JSON or multipart body into req.
func bindBody(c *gin.Context, req interface{}) bool {
	var err error
	if isMultipart(c) {
		err = c.ShouldBindWith(req, binding.FormMultipart)
	} else {
		err = c.ShouldBindJSON(req)
	}
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(i18n.KeyValidationInvalid, "cuerpo"))
		return false
	}
	return true
}

// ImageReceiver uploads the optional "image" file of a multipart request.
type ImageReceiver struct {
	uploader services.ImageUploader
	maxBytes int64
}

func NewImageReceiver(uploader services.ImageUploader, maxBytes int64) *ImageReceiver {
	return &ImageReceiver{uploader: uploader, maxBytes: maxBytes}
}

var errNoImage = errors.New("no image in request")

// Receive returns the URL of the uploaded image, or nil when the request
// carries none.
func (r *ImageReceiver) Receive(c *gin.Context) (*string, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	result, err := r.upload(c)
	if errors.Is(err, errNoImage) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result.URL, nil
}

func (r *ImageReceiver) upload(c *gin.Context) (*services.UploadResult, error) {
	header, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, errNoImage
		}
		return nil, fmt.Errorf("%w: %w", services.ErrInvalidImage, err)
	}
	if r.maxBytes > 0 && header.Size > r.maxBytes {
		return nil, services.ErrImageTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", services.ErrUploadFailed, err)
	}
	defer file.Close()

	var reader io.Reader = file
	if r.maxBytes > 0 {
		reader = io.LimitReader(file, r.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", services.ErrUploadFailed, err)
	}

	return r.uploader.UploadImage(c.Request.Context(), data, header.Filename)
}

// respondError maps service errors to status codes. failKey names the
// message used for unexpected failures.
func respondError(c *gin.Context, err error, failKey string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	case errors.Is(err, services.ErrProductNotFound):
		utils.NotFoundResponse(c, i18n.KeyProductNotFound)
	case errors.Is(err, services.ErrStoreNotFound):
		utils.NotFoundResponse(c, i18n.KeyStoreNotFound)
	case errors.Is(err, services.ErrPriceNotFound):
		utils.NotFoundResponse(c, i18n.KeyPriceNotFound)
	case errors.Is(err, services.ErrPriceConflict):
		utils.ConflictResponse(c, i18n.KeyPriceConflict)
	case errors.Is(err, services.ErrInvalidImage):
		utils.BadRequestResponse(c, i18n.T(i18n.KeyFileInvalidType))
	case errors.Is(err, services.ErrImageTooLarge):
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, i18n.T(i18n.KeyFileTooLarge))
	case errors.Is(err, services.ErrUploadFailed):
		utils.InternalErrorResponse(c, i18n.KeyFileUploadFailed, err)
	default:
		utils.InternalErrorResponse(c, failKey, err)
	}
}

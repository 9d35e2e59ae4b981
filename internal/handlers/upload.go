// internal/handlers/upload.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/price-compare/internal/i18n"
	"github.com/javajoker/price-compare/internal/utils"
)

type UploadHandler struct {
	images *ImageReceiver
}

func NewUploadHandler(images *ImageReceiver) *UploadHandler {
	return &UploadHandler{images: images}
}

// POST /api/uploads
func (h *UploadHandler) UploadImage(c *gin.Context) {
	if !isMultipart(c) {
		utils.BadRequestResponse(c, i18n.T(i18n.KeyFileMissing))
		return
	}

	result, err := h.images.upload(c)
	if err != nil {
		if errors.Is(err, errNoImage) {
			utils.BadRequestResponse(c, i18n.T(i18n.KeyFileMissing))
			return
		}
		respondError(c, err, i18n.KeyFileUploadFailed)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(i18n.KeyFileUploadSuccess),
		"url":      result.URL,
		"key":      result.Key,
		"size":     result.Size,
		"mimeType": result.MimeType,
	})
}

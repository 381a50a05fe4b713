package handlers

import (
	"errors"
	"net/http"

	"github.com/developia-II/catalog-backend/internal/media"
	"github.com/developia-II/catalog-backend/utils"
	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	media *media.Resolver
}

func NewUploadHandler(resolver *media.Resolver) *UploadHandler {
	return &UploadHandler{media: resolver}
}

// UploadImage stores a single "image" part and returns its URL, so a client
// can upload first and send the URL in a later create or update.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	if h.media == nil {
		c.JSON(http.StatusServiceUnavailable, utils.ErrorResponse("file uploads are not configured"))
		return
	}

	header, err := c.FormFile("image")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(c, "upload", tooLarge)
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.FieldErrorResponse("No file provided in field image", []string{"image"}))
		return
	}

	url, err := h.media.Store(c.Request.Context(), "upload", "image", fileUpload(header))
	if err != nil {
		respondError(c, "upload", err)
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Image uploaded successfully", gin.H{
		"url":  url,
		"size": header.Size,
	}))
}

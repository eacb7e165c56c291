package handlers

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"lucentphoto.com/app/internal/http/middleware"
	"lucentphoto.com/app/internal/shared/apperr"
	"lucentphoto.com/app/internal/storage"
)

var galleryNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

type GalleryHandler struct {
	store  storage.Storage
	logger *slog.Logger
}

func NewGalleryHandler(store storage.Storage, logger *slog.Logger) *GalleryHandler {
	return &GalleryHandler{store: store, logger: logger}
}

// GET /api/gallery/:gallery
func (h *GalleryHandler) List(c *gin.Context) {
	gallery := c.Param("gallery")
	if !galleryNamePattern.MatchString(gallery) {
		middleware.Fail(c, apperr.InvalidErr("Gallery name is invalid.", nil))
		return
	}

	objects, err := h.store.List(c.Request.Context(), gallery)
	if err != nil {
		h.logger.Error("gallery listing failed", "gallery", gallery, "err", err)
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	urls := make([]string, 0, len(objects))
	for _, o := range objects {
		urls = append(urls, o.URL)
	}

	c.JSON(http.StatusOK, gin.H{"gallery": gallery, "images": urls})
}

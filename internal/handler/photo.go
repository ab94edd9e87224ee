package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gatheringhouse/event-signup/internal/storage"
)

// maxPhotoBytes caps a single uploaded image.
const maxPhotoBytes = 5 << 20

// PhotoHandler accepts multipart image uploads and returns the durable
// URL the client then places into its profile photo list.
type PhotoHandler struct {
	Store *storage.PhotoStore
	Log   *zerolog.Logger
}

func NewPhotoHandler(store *storage.PhotoStore, log *zerolog.Logger) *PhotoHandler {
	return &PhotoHandler{Store: store, Log: log}
}

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Upload stores the "photo" form file and returns {"url": ...}.
func (h *PhotoHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("photo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "photo file required"})
	}
	if fh.Size > maxPhotoBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "photo exceeds 5MB"})
	}
	contentType := fh.Header.Get("Content-Type")
	if !allowedPhotoTypes[contentType] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "photo must be jpeg, png or webp"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable file"})
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	url, err := h.Store.Upload(ctx, src, contentType)
	if err != nil {
		if err == storage.ErrNotConfigured {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "photo uploads are disabled"})
		}
		h.Log.Error().Err(err).Msg("photo upload failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"url": url})
}

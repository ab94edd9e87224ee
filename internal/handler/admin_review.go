package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gatheringhouse/event-signup/internal/model"
	"github.com/gatheringhouse/event-signup/internal/repository"
)

// AdminReviewHandler is the admin review browser: list with rating filter
// and sort, plus aggregate stats over the returned scope.
type AdminReviewHandler struct {
	Reviews *repository.ReviewRepo
	Log     *zerolog.Logger
}

func NewAdminReviewHandler(r *repository.ReviewRepo, log *zerolog.Logger) *AdminReviewHandler {
	return &AdminReviewHandler{Reviews: r, Log: log}
}

// List supports ?rating=1..5 and ?sort=newest|oldest|rating_desc|rating_asc.
func (h *AdminReviewHandler) List(c echo.Context) error {
	rating := 0
	if raw := c.QueryParam("rating"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < model.ReviewMinRating || n > model.ReviewMaxRating {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
		}
		rating = n
	}
	sort := c.QueryParam("sort")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	reviews, err := h.Reviews.ListAll(ctx, rating, sort)
	if err != nil {
		h.Log.Error().Err(err).Msg("list reviews failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reviews failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reviews": reviews,
		"stats":   model.ComputeReviewStats(reviews),
	})
}

package handler

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gatheringhouse/event-signup/internal/model"
	"github.com/gatheringhouse/event-signup/internal/repository"
)

// ReviewHandler covers member-side reviews. Writing one requires a
// completed application for the event; one review per (event, user) is
// backed by the schema and surfaced as a conflict.
type ReviewHandler struct {
	Reviews      *repository.ReviewRepo
	Applications *repository.ApplicationRepo
	Log          *zerolog.Logger
}

func NewReviewHandler(r *repository.ReviewRepo, a *repository.ApplicationRepo, log *zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{Reviews: r, Applications: a, Log: log}
}

type reviewReq struct {
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}

// Create writes the caller's review for an event.
func (h *ReviewHandler) Create(c echo.Context) error {
	uid := userID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID := pathID(c, "id")
	if eventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := model.ValidateReviewFields(req.Rating, req.Content); err != nil {
		return validationJSON(c, err.(*model.ValidationError))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	eligible, err := h.Applications.HasCompletedForEvent(ctx, eventID, uid)
	if err != nil {
		h.Log.Error().Err(err).Uint64("event_id", eventID).Msg("eligibility check failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create review failed"})
	}
	if !eligible {
		return c.JSON(http.StatusConflict, echo.Map{"error": repository.ErrNotEligible.Error()})
	}

	rev := model.Review{EventID: eventID, UserID: uid, Rating: req.Rating, Content: req.Content}
	if err := h.Reviews.Create(ctx, &rev); err != nil {
		if err == repository.ErrDuplicateReview {
			return c.JSON(http.StatusConflict, echo.Map{"error": repository.ErrDuplicateReview.Error()})
		}
		h.Log.Error().Err(err).Uint64("event_id", eventID).Msg("insert review failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create review failed"})
	}
	return c.JSON(http.StatusCreated, rev)
}

// Update rewrites the caller's own review; created_at never changes.
func (h *ReviewHandler) Update(c echo.Context) error {
	uid := userID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	reviewID := pathID(c, "id")
	if reviewID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := model.ValidateReviewFields(req.Rating, req.Content); err != nil {
		return validationJSON(c, err.(*model.ValidationError))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rev, err := h.Reviews.Update(ctx, reviewID, uid, req.Rating, req.Content)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		h.Log.Error().Err(err).Uint64("review_id", reviewID).Msg("update review failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update review failed"})
	}
	return c.JSON(http.StatusOK, rev)
}

// Mine returns the caller's review for an event, 404 when absent. The
// client uses this to decide between the write and edit forms.
func (h *ReviewHandler) Mine(c echo.Context) error {
	uid := userID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID := pathID(c, "id")
	if eventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rev, err := h.Reviews.GetByEventAndUser(ctx, eventID, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		h.Log.Error().Err(err).Uint64("event_id", eventID).Msg("load review failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load review failed"})
	}
	return c.JSON(http.StatusOK, rev)
}

// ListForEvent returns all reviews of one event, newest first.
func (h *ReviewHandler) ListForEvent(c echo.Context) error {
	eventID := pathID(c, "id")
	if eventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	reviews, err := h.Reviews.ListByEvent(ctx, eventID)
	if err != nil {
		h.Log.Error().Err(err).Uint64("event_id", eventID).Msg("list reviews failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reviews failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reviews": reviews,
		"stats":   model.ComputeReviewStats(reviews),
	})
}

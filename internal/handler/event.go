package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gatheringhouse/event-signup/internal/model"
	"github.com/gatheringhouse/event-signup/internal/repository"
)

// EventHandler serves the member-facing catalog. Availability is derived
// on every request from fresh confirmed counts, never stored.
type EventHandler struct {
	Events       *repository.EventRepo
	Applications *repository.ApplicationRepo
	Log          *zerolog.Logger
}

func NewEventHandler(e *repository.EventRepo, a *repository.ApplicationRepo, log *zerolog.Logger) *EventHandler {
	return &EventHandler{Events: e, Applications: a, Log: log}
}

type eventListItem struct {
	*model.EventWithCounts
	AvailabilityLabel string `json:"availability_label"`
}

// List returns upcoming active events, oldest first, with derived
// availability. The venue location never appears in list responses.
func (h *EventHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	events, err := h.Events.ListUpcoming(ctx, time.Now().UTC())
	if err != nil {
		h.Log.Error().Err(err).Msg("list events failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list events failed"})
	}
	now := time.Now().UTC()
	items := make([]eventListItem, 0, len(events))
	for _, ev := range events {
		ev.Resolve(now)
		ev.Location = nil
		items = append(items, eventListItem{EventWithCounts: ev, AvailabilityLabel: ev.Availability.Label()})
	}
	return c.JSON(http.StatusOK, echo.Map{"events": items})
}

// Detail returns one event. The location is withheld unless the caller
// holds a confirmed or completed application for it.
func (h *EventHandler) Detail(c echo.Context) error {
	eventID := pathID(c, "id")
	if eventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, eventID)
	if err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		h.Log.Error().Err(err).Uint64("event_id", eventID).Msg("load event failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	ev.Resolve(time.Now().UTC())

	showLocation := false
	if uid := userID(c); uid != 0 {
		showLocation, err = h.Applications.HasConfirmedForEvent(ctx, eventID, uid)
		if err != nil {
			h.Log.Error().Err(err).Uint64("event_id", eventID).Msg("location gate check failed")
			showLocation = false
		}
	}
	if !showLocation {
		ev.Location = nil
	}
	return c.JSON(http.StatusOK, eventListItem{EventWithCounts: ev, AvailabilityLabel: ev.Availability.Label()})
}

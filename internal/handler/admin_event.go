package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gatheringhouse/event-signup/internal/model"
	"github.com/gatheringhouse/event-signup/internal/repository"
	"github.com/gatheringhouse/event-signup/pkg/validator"
)

// AdminEventHandler covers event CRUD for admins. Routes run behind
// RequireRole("ADMIN").
type AdminEventHandler struct {
	Events *repository.EventRepo
	Log    *zerolog.Logger
}

func NewAdminEventHandler(e *repository.EventRepo, log *zerolog.Logger) *AdminEventHandler {
	return &AdminEventHandler{Events: e, Log: log}
}

type eventPartReq struct {
	Label     string `json:"label" validate:"required,max=50"`
	TimeRange string `json:"time" validate:"required,max=30"`
}

type eventReq struct {
	Title               string         `json:"title" validate:"required,max=100"`
	Description         string         `json:"description" validate:"omitempty,max=2000"`
	EventDate           string         `json:"event_date" validate:"required"`
	StartTime           string         `json:"start_time" validate:"required"`
	EndTime             string         `json:"end_time" validate:"required"`
	Location            string         `json:"location" validate:"omitempty,max=200"`
	CapacityMale        uint32         `json:"capacity_male" validate:"required,min=1"`
	CapacityFemale      uint32         `json:"capacity_female" validate:"required,min=1"`
	PriceMaleStandard   uint32         `json:"price_male_standard"`
	PriceMalePremium    uint32         `json:"price_male_premium"`
	PriceFemaleStandard uint32         `json:"price_female_standard"`
	PriceFemalePremium  uint32         `json:"price_female_premium"`
	Deadline            string         `json:"application_deadline" validate:"required"`
	Parts               []eventPartReq `json:"parts" validate:"omitempty,max=10,dive"`
}

// parseEvent turns the request into a model.Event, collecting format and
// cross-field failures into a ValidationError.
func parseEvent(req eventReq) (model.Event, error) {
	ve := model.NewValidationError()

	date, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		ve.Add("event_date", "must be a date in YYYY-MM-DD form")
	}
	if _, err := time.Parse("15:04", req.StartTime); err != nil {
		ve.Add("start_time", "must be a time in HH:MM form")
	}
	if _, err := time.Parse("15:04", req.EndTime); err != nil {
		ve.Add("end_time", "must be a time in HH:MM form")
	}
	deadline, err := time.Parse(time.RFC3339, req.Deadline)
	if err != nil {
		ve.Add("application_deadline", "must be an RFC3339 timestamp")
	}

	ev := model.Event{
		Title:               req.Title,
		Description:         req.Description,
		EventDate:           date,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		CapacityMale:        req.CapacityMale,
		CapacityFemale:      req.CapacityFemale,
		PriceMaleStandard:   req.PriceMaleStandard,
		PriceMalePremium:    req.PriceMalePremium,
		PriceFemaleStandard: req.PriceFemaleStandard,
		PriceFemalePremium:  req.PriceFemalePremium,
		Deadline:            deadline.UTC(),
	}
	if req.Location != "" {
		loc := req.Location
		ev.Location = &loc
	}
	for _, p := range req.Parts {
		ev.Parts = append(ev.Parts, model.EventPart{Label: p.Label, TimeRange: p.TimeRange})
	}

	// Cross-field rule: applications must close no later than the event
	// starts.
	if len(ve.Fields) == 0 && ev.Deadline.After(ev.StartsAt()) {
		ve.Add("application_deadline", "deadline must not be after the event start")
	}
	if err := ve.OrNil(); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

// List returns every active event with counts, including past ones and
// the venue location. Availability is resolved the same way members see
// it so the console matches the catalog.
func (h *AdminEventHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	events, err := h.Events.ListUpcoming(ctx, time.Time{})
	if err != nil {
		h.Log.Error().Err(err).Msg("list events failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list events failed"})
	}
	now := time.Now().UTC()
	for _, ev := range events {
		ev.Resolve(now)
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// Create registers a new event with its parts.
func (h *AdminEventHandler) Create(c echo.Context) error {
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if fields := validator.Validate(req); fields != nil {
		return fieldsJSON(c, fields)
	}
	ev, err := parseEvent(req)
	if err != nil {
		return validationJSON(c, err.(*model.ValidationError))
	}
	ev.CreatedBy = userID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Events.Create(ctx, &ev); err != nil {
		h.Log.Error().Err(err).Msg("create event failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	return c.JSON(http.StatusCreated, ev)
}

// Update rewrites an event and replaces its parts.
func (h *AdminEventHandler) Update(c echo.Context) error {
	eventID := pathID(c, "id")
	if eventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if fields := validator.Validate(req); fields != nil {
		return fieldsJSON(c, fields)
	}
	ev, err := parseEvent(req)
	if err != nil {
		return validationJSON(c, err.(*model.ValidationError))
	}
	ev.ID = eventID

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Events.Update(ctx, &ev); err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		h.Log.Error().Err(err).Uint64("event_id", eventID).Msg("update event failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update event failed"})
	}
	return c.JSON(http.StatusOK, ev)
}

// Cancel soft-cancels an event; existing applications keep their history.
func (h *AdminEventHandler) Cancel(c echo.Context) error {
	eventID := pathID(c, "id")
	if eventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Events.Cancel(ctx, eventID); err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		h.Log.Error().Err(err).Uint64("event_id", eventID).Msg("cancel event failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel event failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

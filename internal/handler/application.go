package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gatheringhouse/event-signup/internal/model"
	"github.com/gatheringhouse/event-signup/internal/repository"
	"github.com/gatheringhouse/event-signup/pkg/validator"
)

// ApplicationHandler covers the member side of the application lifecycle:
// submit, list own, cancel. All capacity and duplicate rules are enforced
// inside the submitting transaction against locked rows; client-side
// pre-checks are advisory only.
type ApplicationHandler struct {
	Events       *repository.EventRepo
	Applications *repository.ApplicationRepo
	Log          *zerolog.Logger
}

func NewApplicationHandler(e *repository.EventRepo, a *repository.ApplicationRepo, log *zerolog.Logger) *ApplicationHandler {
	return &ApplicationHandler{Events: e, Applications: a, Log: log}
}

type submitReq struct {
	Name         string   `json:"name" validate:"required,max=50"`
	Gender       string   `json:"gender" validate:"required,oneof=male female"`
	BirthYear    int      `json:"birth_year" validate:"required,min=1950,max=2010"`
	Phone        string   `json:"phone" validate:"required,max=20"`
	HeightCM     int      `json:"height" validate:"required,min=100,max=250"`
	WeightKG     int      `json:"weight" validate:"required,min=30,max=200"`
	IdealType    string   `json:"ideal_type" validate:"required,max=300"`
	TicketOption string   `json:"ticket_option" validate:"omitempty,oneof=standard premium"`
	Consent      bool     `json:"consent" validate:"eq=true"`
	Photos       []string `json:"photos" validate:"required,min=1,max=3,dive,url"`
}

// Submit applies the caller to an event. The event row is locked and
// availability re-derived inside the transaction so two concurrent
// submissions for the last spot serialize.
func (h *ApplicationHandler) Submit(c echo.Context) error {
	uid := userID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID := pathID(c, "id")
	if eventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req submitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if fields := validator.Validate(req); fields != nil {
		return fieldsJSON(c, fields)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	tx, err := h.Applications.DB().BeginTx(ctx, nil)
	if err != nil {
		h.Log.Error().Err(err).Msg("begin tx failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	ev, err := h.Events.GetForUpdateTx(ctx, tx, eventID)
	if err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		h.Log.Error().Err(err).Uint64("event_id", eventID).Msg("lock event failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit failed"})
	}
	if ev.Resolve(time.Now().UTC()) == model.EventClosed {
		return c.JSON(http.StatusConflict, echo.Map{"error": repository.ErrCapacityClosed.Error()})
	}

	now := time.Now().UTC()
	snapshot := model.FormSnapshot{
		Name:         req.Name,
		Gender:       model.Gender(req.Gender),
		BirthYear:    req.BirthYear,
		Age:          now.Year() - req.BirthYear,
		Phone:        req.Phone,
		HeightCM:     req.HeightCM,
		WeightKG:     req.WeightKG,
		Photos:       req.Photos,
		IdealType:    req.IdealType,
		TicketOption: req.TicketOption,
	}
	app := model.Application{
		EventID:  eventID,
		UserID:   uid,
		Gender:   snapshot.Gender,
		Snapshot: snapshot.Clone(),
	}
	if err := h.Applications.CreateTx(ctx, tx, &app); err != nil {
		if err == repository.ErrDuplicateApplication {
			return c.JSON(http.StatusConflict, echo.Map{"error": repository.ErrDuplicateApplication.Error()})
		}
		h.Log.Error().Err(err).Uint64("event_id", eventID).Msg("insert application failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit failed"})
	}
	if err := tx.Commit(); err != nil {
		h.Log.Error().Err(err).Msg("commit failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit failed"})
	}
	committed = true

	return c.JSON(http.StatusCreated, app)
}

// ListMine returns the caller's applications partitioned into the
// "current" and "completed" tabs.
func (h *ApplicationHandler) ListMine(c echo.Context) error {
	uid := userID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	apps, err := h.Applications.ListByUser(ctx, uid)
	if err != nil {
		h.Log.Error().Err(err).Uint64("user_id", uid).Msg("list applications failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list applications failed"})
	}
	current := make([]model.ApplicationWithEvent, 0)
	completed := make([]model.ApplicationWithEvent, 0)
	for _, a := range apps {
		if a.Status.Current() {
			current = append(current, a)
		} else {
			completed = append(completed, a)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"current":   current,
		"completed": completed,
	})
}

// Cancel lets the owner cancel a non-terminal application.
func (h *ApplicationHandler) Cancel(c echo.Context) error {
	uid := userID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	appID := pathID(c, "id")
	if appID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid application id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	tx, err := h.Applications.DB().BeginTx(ctx, nil)
	if err != nil {
		h.Log.Error().Err(err).Msg("begin tx failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	_, ownerID, status, err := h.Applications.GetForUpdateTx(ctx, tx, appID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "application not found"})
		}
		h.Log.Error().Err(err).Uint64("application_id", appID).Msg("lock application failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if ownerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if !model.CanTransition(status, model.ApplicationCancelled) {
		return c.JSON(http.StatusConflict, echo.Map{"error": repository.ErrInvalidTransition.Error()})
	}
	if err := h.Applications.SetStatusTx(ctx, tx, appID, model.ApplicationCancelled); err != nil {
		h.Log.Error().Err(err).Uint64("application_id", appID).Msg("update status failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if err := tx.Commit(); err != nil {
		h.Log.Error().Err(err).Msg("commit failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	committed = true

	return c.JSON(http.StatusOK, echo.Map{"id": appID, "status": model.ApplicationCancelled})
}

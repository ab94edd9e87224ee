package handler

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gatheringhouse/event-signup/internal/model"
	"github.com/gatheringhouse/event-signup/internal/queue"
	"github.com/gatheringhouse/event-signup/internal/repository"
)

// AdminApplicationHandler covers the admin side of the lifecycle: event
// rosters, status transitions and the CSV export. Transitions publish a
// broker event on success; publish failures are logged, never surfaced.
type AdminApplicationHandler struct {
	Events       *repository.EventRepo
	Applications *repository.ApplicationRepo
	Users        *repository.UserRepo
	Publisher    *queue.Publisher
	Log          *zerolog.Logger
}

func NewAdminApplicationHandler(e *repository.EventRepo, a *repository.ApplicationRepo, u *repository.UserRepo, p *queue.Publisher, log *zerolog.Logger) *AdminApplicationHandler {
	return &AdminApplicationHandler{Events: e, Applications: a, Users: u, Publisher: p, Log: log}
}

type eventSummary struct {
	MaleConfirmed   uint32 `json:"male_confirmed"`
	FemaleConfirmed uint32 `json:"female_confirmed"`
	MaleTotal       uint32 `json:"male_total"`
	FemaleTotal     uint32 `json:"female_total"`
	CapacityMale    uint32 `json:"capacity_male"`
	CapacityFemale  uint32 `json:"capacity_female"`
}

func summaryOf(ev *model.EventWithCounts) eventSummary {
	return eventSummary{
		MaleConfirmed:   ev.MaleConfirmed,
		FemaleConfirmed: ev.FemaleConfirmed,
		MaleTotal:       ev.MaleTotal,
		FemaleTotal:     ev.FemaleTotal,
		CapacityMale:    ev.CapacityMale,
		CapacityFemale:  ev.CapacityFemale,
	}
}

// ListForEvent returns every application for one event plus the
// per-gender summary counts.
func (h *AdminApplicationHandler) ListForEvent(c echo.Context) error {
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
	apps, err := h.Applications.ListByEvent(ctx, eventID)
	if err != nil {
		h.Log.Error().Err(err).Uint64("event_id", eventID).Msg("list applications failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list applications failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"applications": apps,
		"summary":      summaryOf(ev),
	})
}

type transitionReq struct {
	Status string `json:"status"`
}

// adminTargets are the statuses an admin may move an application to.
// completed is reserved for the sweep, pending is never re-entered.
var adminTargets = map[model.ApplicationStatus]bool{
	model.ApplicationConfirmed: true,
	model.ApplicationWaitlist:  true,
	model.ApplicationCancelled: true,
}

// Transition moves one application to a new status. The row is locked so
// concurrent admin actions serialize; reapplying the current status is an
// idempotent success. There is no hard capacity block: the response
// carries fresh counts so the admin can see the effect.
func (h *AdminApplicationHandler) Transition(c echo.Context) error {
	appID := pathID(c, "id")
	if appID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid application id"})
	}
	var req transitionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	target := model.ApplicationStatus(req.Status)
	if !adminTargets[target] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be confirmed, waitlist or cancelled"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	tx, err := h.Applications.DB().BeginTx(ctx, nil)
	if err != nil {
		h.Log.Error().Err(err).Msg("begin tx failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transition failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	eventID, ownerID, current, err := h.Applications.GetForUpdateTx(ctx, tx, appID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "application not found"})
		}
		h.Log.Error().Err(err).Uint64("application_id", appID).Msg("lock application failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transition failed"})
	}
	if !model.CanTransition(current, target) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": fmt.Sprintf("cannot move a %s application to %s", current, target),
		})
	}
	changed := current != target
	if changed {
		if err := h.Applications.SetStatusTx(ctx, tx, appID, target); err != nil {
			h.Log.Error().Err(err).Uint64("application_id", appID).Msg("update status failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transition failed"})
		}
	}
	if err := tx.Commit(); err != nil {
		h.Log.Error().Err(err).Msg("commit failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transition failed"})
	}
	committed = true

	if changed {
		h.publishStatusChange(ctx, appID, eventID, ownerID, current, target)
	}

	resp := echo.Map{"id": appID, "status": target}
	if ev, err := h.Events.GetByID(ctx, eventID); err == nil {
		resp["summary"] = summaryOf(ev)
	} else {
		h.Log.Warn().Err(err).Uint64("event_id", eventID).Msg("summary after transition unavailable")
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AdminApplicationHandler) publishStatusChange(ctx context.Context, appID, eventID, ownerID uint64, from, to model.ApplicationStatus) {
	payload := queue.ApplicationStatusEvent{
		ApplicationID: appID,
		EventID:       eventID,
		UserID:        ownerID,
		OldStatus:     string(from),
		NewStatus:     string(to),
		ChangedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if u, err := h.Users.GetByID(ctx, ownerID); err == nil {
		payload.Email = u.Email
	}
	if ev, err := h.Events.GetByID(ctx, eventID); err == nil {
		payload.EventTitle = ev.Title
		payload.EventDate = ev.EventDate.Format("2006-01-02")
	}
	if err := h.Publisher.Publish(ctx, payload); err != nil {
		h.Log.Warn().Err(err).Uint64("application_id", appID).Msg("status event not published")
	}
}

// csvHeader and applicationCSVRecord define the export projection.
var csvHeader = []string{"name", "gender", "age", "phone", "height", "weight", "status", "applied_at"}

func applicationCSVRecord(app model.Application) []string {
	return []string{
		app.Snapshot.Name,
		string(app.Snapshot.Gender),
		strconv.Itoa(app.Snapshot.Age),
		app.Snapshot.Phone,
		strconv.Itoa(app.Snapshot.HeightCM),
		strconv.Itoa(app.Snapshot.WeightKG),
		string(app.Status),
		app.AppliedAt.UTC().Format(time.RFC3339),
	}
}

// ExportCSV streams the event's applications as a CSV download.
func (h *AdminApplicationHandler) ExportCSV(c echo.Context) error {
	eventID := pathID(c, "id")
	if eventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Events.GetByID(ctx, eventID); err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		h.Log.Error().Err(err).Uint64("event_id", eventID).Msg("load event failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export failed"})
	}
	apps, err := h.Applications.ListByEvent(ctx, eventID)
	if err != nil {
		h.Log.Error().Err(err).Uint64("event_id", eventID).Msg("list applications failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export failed"})
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="applications-%d.csv"`, eventID))
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, app := range apps {
		if err := w.Write(applicationCSVRecord(app)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

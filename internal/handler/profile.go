package handler

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gatheringhouse/event-signup/internal/model"
	"github.com/gatheringhouse/event-signup/internal/repository"
	"github.com/gatheringhouse/event-signup/pkg/validator"
)

// ProfileHandler serves the member's own profile. Profiles prefill the
// application form; editing one never touches already submitted
// applications, which carry their own frozen snapshot.
type ProfileHandler struct {
	Profiles *repository.ProfileRepo
	Log      *zerolog.Logger
}

func NewProfileHandler(p *repository.ProfileRepo, log *zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{Profiles: p, Log: log}
}

type profileUpdateReq struct {
	Name      string               `json:"name" validate:"required,max=50"`
	Gender    string               `json:"gender" validate:"omitempty,oneof=male female"`
	BirthYear int                  `json:"birth_year" validate:"omitempty,min=1950,max=2010"`
	Phone     string               `json:"phone" validate:"omitempty,max=20"`
	HeightCM  int                  `json:"height" validate:"omitempty,min=100,max=250"`
	WeightKG  int                  `json:"weight" validate:"omitempty,min=30,max=200"`
	IdealType string               `json:"ideal_type" validate:"omitempty,max=300"`
	Photos    []model.ProfilePhoto `json:"photos" validate:"omitempty,max=4"`
}

// Get returns the caller's profile.
func (h *ProfileHandler) Get(c echo.Context) error {
	uid := userID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := h.Profiles.GetByUserID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		h.Log.Error().Err(err).Uint64("user_id", uid).Msg("load profile failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Update overwrites the caller's editable profile fields. Email and role
// are not accepted here by construction.
func (h *ProfileHandler) Update(c echo.Context) error {
	uid := userID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req profileUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if fields := validator.Validate(req); fields != nil {
		return fieldsJSON(c, fields)
	}
	if req.Photos == nil {
		req.Photos = []model.ProfilePhoto{}
	}
	if err := model.ValidatePhotos(req.Photos); err != nil {
		return validationJSON(c, err.(*model.ValidationError))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p := model.Profile{
		UserID:    uid,
		Name:      req.Name,
		Gender:    model.Gender(req.Gender),
		BirthYear: req.BirthYear,
		Phone:     req.Phone,
		HeightCM:  req.HeightCM,
		WeightKG:  req.WeightKG,
		IdealType: req.IdealType,
		Photos:    req.Photos,
	}
	if err := h.Profiles.Update(ctx, p); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		h.Log.Error().Err(err).Uint64("user_id", uid).Msg("update profile failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update profile failed"})
	}

	out, err := h.Profiles.GetByUserID(ctx, uid)
	if err != nil {
		h.Log.Error().Err(err).Uint64("user_id", uid).Msg("reload profile failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	return c.JSON(http.StatusOK, out)
}

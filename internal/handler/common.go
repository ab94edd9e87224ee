// Package handler contains the HTTP endpoints. Handlers bind and validate
// input, orchestrate repository calls (opening transactions where writes
// depend on current state) and map domain errors onto HTTP responses.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gatheringhouse/event-signup/internal/model"
)

// dbTimeout bounds every repository call made from a handler.
const dbTimeout = 5 * time.Second

// userID returns the authenticated user's ID set by the JWT middleware.
// Zero means the middleware did not run; treat as unauthenticated.
func userID(c echo.Context) uint64 {
	if v, ok := c.Get("user_id").(uint64); ok {
		return v
	}
	return 0
}

// pathID parses a numeric path parameter, 0 on failure.
func pathID(c echo.Context, name string) uint64 {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// validationJSON renders a ValidationError as a 400 with per-field messages.
func validationJSON(c echo.Context, ve *model.ValidationError) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"error":  "validation failed",
		"fields": ve.Fields,
	})
}

// fieldsJSON renders a flat field->message map the same way the validator
// wrapper produces it.
func fieldsJSON(c echo.Context, fields map[string]string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"error":  "validation failed",
		"fields": fields,
	})
}

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gatheringhouse/event-signup/internal/handler"
	"github.com/gatheringhouse/event-signup/internal/utils"
)

// Submitting and cancelling applications move the confirmed counts the
// cached catalog list is derived from, so both member routes must run
// through the cache invalidator.
func TestMemberApplicationRoutesCarryInvalidator(t *testing.T) {
	const secret = "router-test-secret"

	log := zerolog.Nop()
	e := echo.New()

	flushes := 0
	// Stands in for the invalidator and stops before the handler, which
	// has no repositories wired in this test.
	invalidate := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			flushes++
			return c.NoContent(http.StatusNoContent)
		}
	}

	RegisterMember(e,
		handler.NewProfileHandler(nil, &log),
		handler.NewPhotoHandler(nil, &log),
		handler.NewApplicationHandler(nil, nil, &log),
		handler.NewReviewHandler(nil, nil, &log),
		secret, invalidate)

	tok, err := utils.NewAccessToken(secret, 7, "MEMBER", 5)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	do := func(method, target string) int {
		req := httptest.NewRequest(method, target, nil)
		req.Header.Set("Authorization", "Bearer "+tok.Token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do(http.MethodDelete, "/v1/applications/12"); code != http.StatusNoContent {
		t.Fatalf("cancel: got status %d, want %d", code, http.StatusNoContent)
	}
	if flushes != 1 {
		t.Fatalf("cancel bypassed the invalidator (flushes = %d)", flushes)
	}

	if code := do(http.MethodPost, "/v1/events/3/applications"); code != http.StatusNoContent {
		t.Fatalf("submit: got status %d, want %d", code, http.StatusNoContent)
	}
	if flushes != 2 {
		t.Fatalf("submit bypassed the invalidator (flushes = %d)", flushes)
	}
}

// Without a bearer token the group's auth middleware answers first; the
// invalidator must never run for rejected requests.
func TestMemberRoutesRejectMissingToken(t *testing.T) {
	log := zerolog.Nop()
	e := echo.New()

	flushes := 0
	invalidate := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			flushes++
			return c.NoContent(http.StatusNoContent)
		}
	}

	RegisterMember(e,
		handler.NewProfileHandler(nil, &log),
		handler.NewPhotoHandler(nil, &log),
		handler.NewApplicationHandler(nil, nil, &log),
		handler.NewReviewHandler(nil, nil, &log),
		"router-test-secret", invalidate)

	req := httptest.NewRequest(http.MethodDelete, "/v1/applications/12", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if flushes != 0 {
		t.Fatalf("invalidator ran for an unauthorized request (flushes = %d)", flushes)
	}
}

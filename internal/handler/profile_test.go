package handler

import (
	"strings"
	"testing"

	"github.com/gatheringhouse/event-signup/pkg/validator"
)

// The profile form prefills the application form, and both end up in the
// same VARCHAR(300) column. The profile cap must accept everything the
// submission form accepts.
func TestProfileUpdateIdealTypeCap(t *testing.T) {
	req := profileUpdateReq{Name: "Test User"}

	req.IdealType = strings.Repeat("a", 300)
	if fields := validator.Validate(req); fields != nil {
		t.Fatalf("300-char ideal_type rejected: %v", fields)
	}

	req.IdealType = strings.Repeat("a", 301)
	fields := validator.Validate(req)
	if fields == nil {
		t.Fatal("301-char ideal_type accepted")
	}
	if _, ok := fields["ideal_type"]; !ok {
		t.Fatalf("expected a message for ideal_type, got %v", fields)
	}
}

package handler

import (
	"testing"

	"github.com/gatheringhouse/event-signup/internal/model"
)

func validEventReq() eventReq {
	return eventReq{
		Title:          "Rooftop Social",
		EventDate:      "2026-09-12",
		StartTime:      "19:00",
		EndTime:        "23:00",
		CapacityMale:   10,
		CapacityFemale: 10,
		Deadline:       "2026-09-12T18:00:00Z",
		Parts: []eventPartReq{
			{Label: "Part 1", TimeRange: "19:00-21:00"},
			{Label: "Part 2", TimeRange: "21:00-23:00"},
		},
	}
}

func TestParseEventOK(t *testing.T) {
	ev, err := parseEvent(validEventReq())
	if err != nil {
		t.Fatalf("parseEvent: %v", err)
	}
	if len(ev.Parts) != 2 {
		t.Errorf("parts = %d, want 2", len(ev.Parts))
	}
	if got := ev.StartsAt().Format("2006-01-02 15:04"); got != "2026-09-12 19:00" {
		t.Errorf("StartsAt = %s", got)
	}
}

func TestParseEventRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*eventReq)
		field  string
	}{
		{"bad date", func(r *eventReq) { r.EventDate = "12.09.2026" }, "event_date"},
		{"bad start time", func(r *eventReq) { r.StartTime = "7pm" }, "start_time"},
		{"bad end time", func(r *eventReq) { r.EndTime = "25:00" }, "end_time"},
		{"bad deadline", func(r *eventReq) { r.Deadline = "tomorrow" }, "application_deadline"},
		{"deadline after start", func(r *eventReq) { r.Deadline = "2026-09-12T19:30:00Z" }, "application_deadline"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validEventReq()
			tt.mutate(&req)
			_, err := parseEvent(req)
			if err == nil {
				t.Fatal("expected error")
			}
			ve, ok := err.(*model.ValidationError)
			if !ok {
				t.Fatalf("error type %T", err)
			}
			if _, present := ve.Fields[tt.field]; !present {
				t.Errorf("fields = %v, want %s flagged", ve.Fields, tt.field)
			}
		})
	}
}

func TestParseEventDeadlineAtStartAllowed(t *testing.T) {
	req := validEventReq()
	req.Deadline = "2026-09-12T19:00:00Z"
	if _, err := parseEvent(req); err != nil {
		t.Fatalf("deadline equal to start should pass: %v", err)
	}
}

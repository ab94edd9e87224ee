package handler

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/gatheringhouse/event-signup/internal/model"
)

func TestApplicationCSVRecord(t *testing.T) {
	app := model.Application{
		Status:    model.ApplicationConfirmed,
		AppliedAt: time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
		Snapshot: model.FormSnapshot{
			Name:     "김민수",
			Gender:   model.GenderMale,
			Age:      31,
			Phone:    "010-1234-5678",
			HeightCM: 178,
			WeightKG: 72,
		},
	}

	got := applicationCSVRecord(app)
	want := []string{"김민수", "male", "31", "010-1234-5678", "178", "72", "confirmed", "2026-03-01T12:30:00Z"}
	if len(got) != len(want) {
		t.Fatalf("record length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d (%s) = %q, want %q", i, csvHeader[i], got[i], want[i])
		}
	}
	if len(got) != len(csvHeader) {
		t.Errorf("record has %d columns but header has %d", len(got), len(csvHeader))
	}
}

func TestCSVOutputParsesBack(t *testing.T) {
	apps := []model.Application{
		{Status: model.ApplicationPending, Snapshot: model.FormSnapshot{Name: "Lee, Jiyeon", Gender: model.GenderFemale, Age: 28, Phone: "010-9999-0000", HeightCM: 163, WeightKG: 50}},
		{Status: model.ApplicationWaitlist, Snapshot: model.FormSnapshot{Name: `quote "name"`, Gender: model.GenderMale, Age: 35, Phone: "010-1111-2222", HeightCM: 182, WeightKG: 80}},
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		t.Fatal(err)
	}
	for _, app := range apps {
		if err := w.Write(applicationCSVRecord(app)); err != nil {
			t.Fatal(err)
		}
	}
	w.Flush()

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output does not parse back as CSV: %v", err)
	}
	if len(records) != len(apps)+1 {
		t.Fatalf("got %d rows, want %d", len(records), len(apps)+1)
	}
	// Names with commas and quotes must round-trip intact.
	if records[1][0] != "Lee, Jiyeon" {
		t.Errorf("comma name round-trip = %q", records[1][0])
	}
	if records[2][0] != `quote "name"` {
		t.Errorf("quoted name round-trip = %q", records[2][0])
	}
}

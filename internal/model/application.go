package model

import "time"

// Gender is the applicant gender used for capacity accounting.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is a known gender value.
func (g Gender) Valid() bool { return g == GenderMale || g == GenderFemale }

// FormSnapshot is the applicant's submitted details, frozen at submission
// time. It is serialized to JSON into the applications row and never
// updated afterwards; later profile edits must not leak into it.
type FormSnapshot struct {
	Name         string   `json:"name"`
	Gender       Gender   `json:"gender"`
	BirthYear    int      `json:"birth_year"`
	Age          int      `json:"age"`
	Phone        string   `json:"phone"`
	HeightCM     int      `json:"height"`
	WeightKG     int      `json:"weight"`
	Photos       []string `json:"photos"`
	IdealType    string   `json:"ideal_type"`
	TicketOption string   `json:"ticket_option,omitempty"`
}

// Clone returns a deep copy of the snapshot so stored snapshots cannot be
// mutated through slices shared with the submitting form.
func (s FormSnapshot) Clone() FormSnapshot {
	out := s
	out.Photos = make([]string, len(s.Photos))
	copy(out.Photos, s.Photos)
	return out
}

// Application mirrors the `applications` table. Gender is duplicated out of
// the snapshot into its own column so per-gender counts stay a plain
// aggregate query.
type Application struct {
	ID        uint64            `json:"id"`
	EventID   uint64            `json:"event_id"`
	UserID    uint64            `json:"user_id"`
	Status    ApplicationStatus `json:"status"`
	Gender    Gender            `json:"-"`
	Snapshot  FormSnapshot      `json:"form_snapshot"`
	AppliedAt time.Time         `json:"applied_at"`
	UpdatedAt time.Time         `json:"-"`
}

// ApplicationWithEvent joins an application with the summary of its event,
// for the member's own application list.
type ApplicationWithEvent struct {
	Application
	EventTitle string    `json:"event_title"`
	EventDate  time.Time `json:"event_date"`
	StartTime  string    `json:"event_start_time"`
	EndTime    string    `json:"event_end_time"`
}

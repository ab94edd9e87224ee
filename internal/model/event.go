package model

import "time"

// Event represents a scheduled mixer instance as stored in the `events`
// table. The date and time-of-day parts are kept separate because events
// regularly run past midnight (a 20:00-02:00 party ends the following
// calendar day); EndsAt resolves that.
//
// Fields:
//
//	ID                  – primary key identifier.
//	Title               – event name shown on the calendar.
//	Description         – optional long description.
//	EventDate           – calendar date the event starts on (midnight UTC).
//	StartTime, EndTime  – time of day in "HH:MM" form.
//	Location            – venue; nil means withheld from applicants until
//	                      their application is confirmed.
//	CapacityMale/Female – maximum confirmed applicants per gender (>= 1).
//	Price*              – ticket prices per gender and tier, currency
//	                      minor-unit free (KRW has no minor unit).
//	Deadline            – application deadline; never after event start.
//	Status              – ACTIVE or CANCELLED (admin soft-cancel).
type Event struct {
	ID                   uint64      `json:"id"`
	Title                string      `json:"title"`
	Description          string      `json:"description,omitempty"`
	EventDate            time.Time   `json:"event_date"`
	StartTime            string      `json:"start_time"`
	EndTime              string      `json:"end_time"`
	Location             *string     `json:"location,omitempty"`
	CapacityMale         uint32      `json:"capacity_male"`
	CapacityFemale       uint32      `json:"capacity_female"`
	PriceMaleStandard    uint32      `json:"price_male_standard"`
	PriceMalePremium     uint32      `json:"price_male_premium"`
	PriceFemaleStandard  uint32      `json:"price_female_standard"`
	PriceFemalePremium   uint32      `json:"price_female_premium"`
	Deadline             time.Time   `json:"application_deadline"`
	Status               string      `json:"status"`
	Parts                []EventPart `json:"parts,omitempty"`
	CreatedBy            uint64      `json:"created_by,omitempty"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// EventPart is one named segment of an event ("1부 20:00-23:00"). Parts are
// stored in the event_parts child table and returned in insertion order.
type EventPart struct {
	Label     string `json:"label"`
	TimeRange string `json:"time"`
}

// EventWithCounts decorates an event with per-gender confirmed counts and
// the availability derived from them. Counts cover confirmed applications
// only; totals include every non-cancelled application.
type EventWithCounts struct {
	Event
	MaleConfirmed   uint32      `json:"male_confirmed"`
	FemaleConfirmed uint32      `json:"female_confirmed"`
	MaleTotal       uint32      `json:"male_total"`
	FemaleTotal     uint32      `json:"female_total"`
	Availability    EventStatus `json:"availability"`
}

// StartsAt combines EventDate and StartTime into a point in time.
func (e *Event) StartsAt() time.Time {
	return atTimeOfDay(e.EventDate, e.StartTime)
}

// EndsAt combines EventDate and EndTime. An end time at or before the start
// time rolls over to the next day.
func (e *Event) EndsAt() time.Time {
	end := atTimeOfDay(e.EventDate, e.EndTime)
	if !end.After(e.StartsAt()) {
		end = end.Add(24 * time.Hour)
	}
	return end
}

func atTimeOfDay(date time.Time, hhmm string) time.Time {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0, time.UTC)
}

// ResolveStatus derives the availability of an event at the given instant.
// The rules are evaluated in order:
//
//  1. past the deadline -> CLOSED, regardless of capacity;
//  2. both genders out of remaining capacity -> WAIT;
//  3. otherwise OPEN.
//
// A single exhausted gender still yields OPEN while the other has room.
// The function is pure; callers must re-evaluate it against fresh counts
// rather than caching the result across capacity changes.
func ResolveStatus(deadline time.Time, capMale, confMale, capFemale, confFemale uint32, now time.Time) EventStatus {
	if now.After(deadline) {
		return EventClosed
	}
	maleLeft := int64(capMale) - int64(confMale)
	femaleLeft := int64(capFemale) - int64(confFemale)
	if maleLeft <= 0 && femaleLeft <= 0 {
		return EventWait
	}
	return EventOpen
}

// Resolve computes and stores the availability of the decorated event.
func (e *EventWithCounts) Resolve(now time.Time) EventStatus {
	e.Availability = ResolveStatus(e.Deadline, e.CapacityMale, e.MaleConfirmed,
		e.CapacityFemale, e.FemaleConfirmed, now)
	return e.Availability
}

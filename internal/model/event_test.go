package model

import (
	"testing"
	"time"
)

func TestResolveStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)
	past := now.Add(-time.Hour)

	testCases := []struct {
		name     string
		deadline time.Time
		capM     uint32
		confM    uint32
		capF     uint32
		confF    uint32
		expected EventStatus
	}{
		{
			name:     "open with room on both sides",
			deadline: future,
			capM:     80, confM: 40,
			capF: 80, confF: 45,
			expected: EventOpen,
		},
		{
			name:     "male full but female open stays OPEN",
			deadline: future,
			capM:     2, confM: 2,
			capF: 2, confF: 0,
			expected: EventOpen,
		},
		{
			name:     "both genders exhausted",
			deadline: future,
			capM:     2, confM: 2,
			capF: 2, confF: 2,
			expected: EventWait,
		},
		{
			name:     "overbooked counts still WAIT before deadline",
			deadline: future,
			capM:     10, confM: 12,
			capF: 10, confF: 11,
			expected: EventWait,
		},
		{
			name:     "deadline one hour in the past closes regardless of capacity",
			deadline: past,
			capM:     80, confM: 0,
			capF: 80, confF: 0,
			expected: EventClosed,
		},
		{
			name:     "deadline in the past beats exhausted capacity",
			deadline: past,
			capM:     2, confM: 2,
			capF: 2, confF: 2,
			expected: EventClosed,
		},
		{
			name:     "exactly at the deadline is still open",
			deadline: now,
			capM:     10, confM: 0,
			capF: 10, confF: 0,
			expected: EventOpen,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveStatus(tc.deadline, tc.capM, tc.confM, tc.capF, tc.confF, now)
			if got != tc.expected {
				t.Errorf("ResolveStatus() = %s, expected %s", got, tc.expected)
			}
		})
	}
}

func TestEventWithCountsResolve(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ev := EventWithCounts{
		Event: Event{
			CapacityMale:   2,
			CapacityFemale: 2,
			Deadline:       now.Add(24 * time.Hour),
		},
		MaleConfirmed:   2,
		FemaleConfirmed: 0,
	}
	if got := ev.Resolve(now); got != EventOpen {
		t.Fatalf("Resolve() = %s, expected OPEN", got)
	}
	ev.FemaleConfirmed = 2
	if got := ev.Resolve(now); got != EventWait {
		t.Fatalf("Resolve() = %s, expected WAIT", got)
	}
	if got := ev.Resolve(now.Add(25 * time.Hour)); got != EventClosed {
		t.Fatalf("Resolve() = %s, expected CLOSED", got)
	}
}

func TestEventEndsAtRollsOverMidnight(t *testing.T) {
	ev := Event{
		EventDate: time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC),
		StartTime: "20:00",
		EndTime:   "02:00",
	}
	if !ev.EndsAt().After(ev.StartsAt()) {
		t.Fatalf("EndsAt %v not after StartsAt %v", ev.EndsAt(), ev.StartsAt())
	}
	if ev.EndsAt().Day() != 7 {
		t.Errorf("EndsAt day = %d, expected rollover to 7", ev.EndsAt().Day())
	}

	same := Event{
		EventDate: time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC),
		StartTime: "18:00",
		EndTime:   "22:00",
	}
	if same.EndsAt().Day() != 6 {
		t.Errorf("EndsAt day = %d, expected same day 6", same.EndsAt().Day())
	}
}

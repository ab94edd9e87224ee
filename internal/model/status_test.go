package model

import "testing"

func TestCanTransition(t *testing.T) {
	testCases := []struct {
		name    string
		from    ApplicationStatus
		to      ApplicationStatus
		allowed bool
	}{
		{"pending to confirmed", ApplicationPending, ApplicationConfirmed, true},
		{"pending to waitlist", ApplicationPending, ApplicationWaitlist, true},
		{"pending to cancelled", ApplicationPending, ApplicationCancelled, true},
		{"pending straight to completed", ApplicationPending, ApplicationCompleted, false},
		{"waitlist to confirmed", ApplicationWaitlist, ApplicationConfirmed, true},
		{"waitlist to cancelled", ApplicationWaitlist, ApplicationCancelled, true},
		{"waitlist to completed", ApplicationWaitlist, ApplicationCompleted, false},
		{"confirmed to completed", ApplicationConfirmed, ApplicationCompleted, true},
		{"confirmed to cancelled", ApplicationConfirmed, ApplicationCancelled, true},
		{"confirmed back to waitlist", ApplicationConfirmed, ApplicationWaitlist, false},
		{"cancelled is terminal", ApplicationCancelled, ApplicationConfirmed, false},
		{"cancelled to cancelled fails", ApplicationCancelled, ApplicationCancelled, false},
		{"completed is terminal", ApplicationCompleted, ApplicationConfirmed, false},
		{"completed to completed fails", ApplicationCompleted, ApplicationCompleted, false},
		{"same status reapply is idempotent", ApplicationConfirmed, ApplicationConfirmed, true},
		{"waitlist reapply is idempotent", ApplicationWaitlist, ApplicationWaitlist, true},
		{"unknown source", ApplicationStatus("held"), ApplicationConfirmed, false},
		{"unknown target", ApplicationPending, ApplicationStatus("approved"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTransition(tc.from, tc.to); got != tc.allowed {
				t.Errorf("CanTransition(%s, %s) = %v, expected %v", tc.from, tc.to, got, tc.allowed)
			}
		})
	}
}

func TestStatusLabelsExhaustive(t *testing.T) {
	for _, s := range []ApplicationStatus{
		ApplicationPending, ApplicationConfirmed, ApplicationWaitlist,
		ApplicationCancelled, ApplicationCompleted,
	} {
		if !s.Valid() {
			t.Errorf("status %s not registered as valid", s)
		}
		if s.Label() == string(s) {
			t.Errorf("status %s is missing a display label", s)
		}
	}
	for _, s := range []EventStatus{EventOpen, EventWait, EventClosed} {
		if _, ok := eventStatusLabels[s]; !ok {
			t.Errorf("event status %s is missing a display label", s)
		}
	}
}

func TestCurrentPartition(t *testing.T) {
	current := []ApplicationStatus{ApplicationPending, ApplicationWaitlist, ApplicationConfirmed}
	for _, s := range current {
		if !s.Current() {
			t.Errorf("%s should be in the current tab", s)
		}
	}
	for _, s := range []ApplicationStatus{ApplicationCancelled, ApplicationCompleted} {
		if s.Current() {
			t.Errorf("%s should not be in the current tab", s)
		}
	}
}

package model

// EventStatus is the derived availability of an event. It is computed on
// every read from the deadline and the per-gender confirmed counts and is
// never stored.
type EventStatus string

const (
	EventOpen   EventStatus = "OPEN"
	EventWait   EventStatus = "WAIT"
	EventClosed EventStatus = "CLOSED"
)

// eventStatusLabels maps every availability status to its display label.
// The map is exhaustive; adding a status without a label is caught by
// TestStatusLabelsExhaustive.
var eventStatusLabels = map[EventStatus]string{
	EventOpen:   "Available",
	EventWait:   "Waitlist",
	EventClosed: "Sold Out",
}

// Label returns the user-facing label for the status, or the raw value for
// an unknown status.
func (s EventStatus) Label() string {
	if l, ok := eventStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

// ApplicationStatus is the stored lifecycle state of an application.
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationConfirmed ApplicationStatus = "confirmed"
	ApplicationWaitlist  ApplicationStatus = "waitlist"
	ApplicationCancelled ApplicationStatus = "cancelled"
	ApplicationCompleted ApplicationStatus = "completed"
)

// applicationTransitions is the closed transition table of the lifecycle.
// cancelled and completed are terminal and therefore absent as keys.
var applicationTransitions = map[ApplicationStatus]map[ApplicationStatus]bool{
	ApplicationPending: {
		ApplicationConfirmed: true,
		ApplicationWaitlist:  true,
		ApplicationCancelled: true,
	},
	ApplicationConfirmed: {
		ApplicationCompleted: true,
		ApplicationCancelled: true,
	},
	ApplicationWaitlist: {
		ApplicationConfirmed: true,
		ApplicationCancelled: true,
	},
}

var applicationStatusLabels = map[ApplicationStatus]string{
	ApplicationPending:   "Pending",
	ApplicationConfirmed: "Confirmed",
	ApplicationWaitlist:  "Waitlist",
	ApplicationCancelled: "Cancelled",
	ApplicationCompleted: "Completed",
}

// Valid reports whether s is one of the five known lifecycle states.
func (s ApplicationStatus) Valid() bool {
	_, ok := applicationStatusLabels[s]
	return ok
}

// Terminal reports whether no further transition is possible from s.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationCancelled || s == ApplicationCompleted
}

// Label returns the user-facing label for the status.
func (s ApplicationStatus) Label() string {
	if l, ok := applicationStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Current reports whether the status belongs to the "current" tab of a
// member's application list (as opposed to the "completed" tab).
func (s ApplicationStatus) Current() bool {
	return s == ApplicationPending || s == ApplicationWaitlist || s == ApplicationConfirmed
}

// CanTransition reports whether an application may move from -> to.
// Reapplying the current status is treated as an allowed no-op so that
// repeated admin actions stay idempotent. Transitions out of a terminal
// state are never allowed.
func CanTransition(from, to ApplicationStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return !from.Terminal()
	}
	return applicationTransitions[from][to]
}

// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into audit records and mail.
package queue

// ApplicationStatusEvent is published whenever an admin moves an
// application to a new status. It carries enough context for downstream
// consumers to log and notify without querying the primary database.
type ApplicationStatusEvent struct {
	ApplicationID uint64 `json:"application_id"`
	EventID       uint64 `json:"event_id"`
	UserID        uint64 `json:"user_id"`
	Email         string `json:"email"`
	EventTitle    string `json:"event_title"`
	EventDate     string `json:"event_date"`
	OldStatus     string `json:"old_status"`
	NewStatus     string `json:"new_status"`
	ChangedAt     string `json:"changed_at"`
}

package model

import "time"

const (
	ResponseAccepted    = "accepted"
	ResponseNeedsAction = "needsAction"
)

// Attendee links a session to a known user or to an external email address
type Attendee struct {
	ID             string
	SessionID      string
	UserID         string
	Email          string
	External       bool
	ResponseStatus string

	CreatedAt time.Time
}

package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a meeting or collaboration session
type Status int

const (
	StatusLive Status = iota
	StatusActive
	StatusPaused
	StatusEnded
	StatusStopped
)

var statusNames = []string{
	"LIVE",
	"ACTIVE",
	"PAUSED",
	"ENDED",
	"STOPPED",
}

func (s Status) String() string {
	if s < StatusLive || s > StatusStopped {
		return "UNKNOWN"
	}

	return statusNames[s]
}

// ParseStatus converts a status name, case-insensitive, into a Status.
func ParseStatus(name string) (Status, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i, n := range statusNames {
		if n == name {
			return Status(i), nil
		}
	}

	return 0, fmt.Errorf("invalid session status '%s'", name)
}

// Terminal reports whether no transition may leave the status.
func (s Status) Terminal() bool {
	return s == StatusEnded || s == StatusStopped
}

var transitions = map[Status][]Status{
	StatusLive:   {StatusActive, StatusEnded, StatusStopped},
	StatusActive: {StatusPaused, StatusEnded, StatusStopped},
	StatusPaused: {StatusActive, StatusEnded, StatusStopped},
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// Type distinguishes a calendar meeting from an ad-hoc collaboration
type Type int

const (
	TypeMeeting Type = iota
	TypeCollab
)

var typeToString = map[Type]string{
	TypeMeeting: "MEETING",
	TypeCollab:  "COLLAB",
}

func (t Type) String() string {
	if s, ok := typeToString[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseType converts a type name, case-insensitive, into a Type. An empty
// name defaults to TypeMeeting.
func ParseType(name string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "MEETING":
		return TypeMeeting, nil
	case "COLLAB":
		return TypeCollab, nil
	}
	return 0, fmt.Errorf("invalid session type '%s'", name)
}

// Session is a model of the persistency layer
type Session struct {
	ID              string
	MeetingID       string
	Type            Type
	Status          Status
	OrganizationID  string
	PulseID         string
	UserID          string
	Name            string
	Description     string
	MeetingURL      string
	CalendarEventID string
	Passcode        string
	MeetingType     string
	StartAt         time.Time
	EndAt           time.Time

	Attendees []Attendee

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResolvedUserIDs returns the user IDs of all attendees matched to a known
// user, in attendee order.
func (s *Session) ResolvedUserIDs() []string {
	ids := make([]string, 0, len(s.Attendees))
	for _, a := range s.Attendees {
		if !a.External && a.UserID != "" {
			ids = append(ids, a.UserID)
		}
	}
	return ids
}

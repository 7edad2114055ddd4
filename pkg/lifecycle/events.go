package lifecycle

import (
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
)

// Broadcast event names
const (
	EventSessionStarted       = "meeting-session-started"
	EventSessionStatusChanged = "meeting-session-status-changed"
	EventCollabToggled        = "collab-toggled"
	EventCollabEnded          = "collab-ended"
)

// SessionPayload is the broadcast body of a session event
type SessionPayload struct {
	ID             string    `json:"id"`
	MeetingID      string    `json:"meetingId"`
	Type           string    `json:"type"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previousStatus,omitempty"`
	OrganizationID string    `json:"organizationId"`
	PulseID        string    `json:"pulseId"`
	UserID         string    `json:"userId"`
	Name           string    `json:"name"`
	MeetingURL     string    `json:"meetingUrl"`
	StartAt        time.Time `json:"startAt"`
	EndAt          time.Time `json:"endAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func newSessionPayload(s *model.Session) SessionPayload {
	return SessionPayload{
		ID:             s.ID,
		MeetingID:      s.MeetingID,
		Type:           s.Type.String(),
		Status:         s.Status.String(),
		OrganizationID: s.OrganizationID,
		PulseID:        s.PulseID,
		UserID:         s.UserID,
		Name:           s.Name,
		MeetingURL:     s.MeetingURL,
		StartAt:        s.StartAt,
		EndAt:          s.EndAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

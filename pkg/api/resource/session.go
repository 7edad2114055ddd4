package resource

import (
	"sort"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/lifecycle"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
)

type SessionResource struct {
	ID              string              `json:"id"`
	MeetingID       string              `json:"meetingId"`
	Type            string              `json:"type"`
	Status          string              `json:"status"`
	OrganizationID  string              `json:"organizationId"`
	PulseID         string              `json:"pulseId"`
	UserID          string              `json:"userId"`
	Name            string              `json:"name"`
	Description     string              `json:"description,omitempty"`
	MeetingURL      string              `json:"meetingUrl"`
	CalendarEventID string              `json:"calendarEventId,omitempty"`
	MeetingType     string              `json:"meetingType,omitempty"`
	StartAt         time.Time           `json:"startAt"`
	EndAt           time.Time           `json:"endAt"`
	Attendees       []*AttendeeResource `json:"attendees,omitempty"`
	CreatedAt       *time.Time          `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time          `json:"updatedAt,omitempty"`
}

type SessionListResource struct {
	Members []*SessionResource `json:"members"`
}

// SessionCreateResource is the body of a create request
type SessionCreateResource struct {
	OrganizationID string    `json:"organizationId"`
	PulseID        string    `json:"pulseId"`
	UserID         string    `json:"userId"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Type           string    `json:"type"`
	StartAt        time.Time `json:"startAt"`
	EndAt          time.Time `json:"endAt"`
	TimeZone       string    `json:"timeZone"`
	Passcode       string    `json:"passcode"`
	MeetingType    string    `json:"meetingType"`
	Attendees      []string  `json:"attendees"`
}

// SessionStatusResource is the body of a status update
type SessionStatusResource struct {
	Status string `json:"status"`
}

func NewSession(m *model.Session) (out *SessionResource) {
	out = &SessionResource{
		ID:              m.ID,
		MeetingID:       m.MeetingID,
		Type:            m.Type.String(),
		Status:          m.Status.String(),
		OrganizationID:  m.OrganizationID,
		PulseID:         m.PulseID,
		UserID:          m.UserID,
		Name:            m.Name,
		Description:     m.Description,
		MeetingURL:      m.MeetingURL,
		CalendarEventID: m.CalendarEventID,
		MeetingType:     m.MeetingType,
		StartAt:         m.StartAt,
		EndAt:           m.EndAt,
	}

	if len(m.Attendees) > 0 {
		out.Attendees = NewAttendeeList(m.Attendees).Members
	}
	if !m.CreatedAt.IsZero() {
		out.CreatedAt = &time.Time{}
		*out.CreatedAt = m.CreatedAt.Round(time.Second)
	}
	if !m.UpdatedAt.IsZero() {
		out.UpdatedAt = &time.Time{}
		*out.UpdatedAt = m.UpdatedAt.Round(time.Second)
	}

	return // out
}

func NewSessionList(m []model.Session) (out *SessionListResource) {
	out = &SessionListResource{
		Members: make([]*SessionResource, 0, len(m)),
	}

	for i := range m {
		out.Members = append(out.Members, NewSession(&m[i]))
	}

	// Default sort by creation, then ID
	sort.SliceStable(out.Members, func(i, j int) bool {
		a, b := out.Members[i], out.Members[j]
		if a.CreatedAt != nil && b.CreatedAt != nil && !a.CreatedAt.Equal(*b.CreatedAt) {
			return a.CreatedAt.Before(*b.CreatedAt)
		}
		return a.ID < b.ID
	})

	return // out
}

func (r *SessionCreateResource) CreateRequest() lifecycle.CreateRequest {
	return lifecycle.CreateRequest{
		OrganizationID: r.OrganizationID,
		PulseID:        r.PulseID,
		UserID:         r.UserID,
		Name:           r.Name,
		Description:    r.Description,
		Type:           r.Type,
		StartAt:        r.StartAt,
		EndAt:          r.EndAt,
		TimeZone:       r.TimeZone,
		Passcode:       r.Passcode,
		MeetingType:    r.MeetingType,
		Attendees:      r.Attendees,
	}
}

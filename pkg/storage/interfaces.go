package storage

import (
	"context"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
)

// Interface is implemented by the storage
type Interface interface {
	Sessions() SessionStore
	Attendees() AttendeeStore
	Events() EventStore
	Directory() DirectoryStore

	// Transaction runs fn against a store whose writes are committed only if
	// fn returns nil.
	Transaction(ctx context.Context, fn func(tx Interface) error) error
}

// SessionStore is responsible for managing the Session model
type SessionStore interface {
	FetchAll(ctx context.Context) (map[string]model.Session, error)
	FetchByStatus(ctx context.Context, statuses ...model.Status) (map[string]model.Session, error)
	FindByID(ctx context.Context, id string) (*model.Session, error)
	FindByMeetingID(ctx context.Context, meetingID string) (*model.Session, error)
	Create(ctx context.Context, m *model.Session) error

	// UpdateStatus moves a session from status from to status to and sets
	// UpdatedAt to at. It returns ErrConflict when the stored status is no
	// longer from.
	UpdateStatus(ctx context.Context, id string, from, to model.Status, at time.Time) error
}

// AttendeeStore is responsible for managing the Attendee model
type AttendeeStore interface {
	FetchBySession(ctx context.Context, sessionID string) ([]model.Attendee, error)

	// AddAll stores the attendees of a session. An attendee whose email is
	// already stored for the session is not inserted again; the stored row is
	// returned in its place.
	AddAll(ctx context.Context, sessionID string, attendees []model.Attendee) ([]model.Attendee, error)
}

// EventStore is responsible for managing the Event model
type EventStore interface {
	FetchAll(ctx context.Context) (map[string]model.Event, error)
	FetchByChannel(ctx context.Context, channel string) (map[string]model.Event, error)
	Create(ctx context.Context, m *model.Event) error
}

// DirectoryStore gives read access to the tenant directory. The create
// methods exist for seeding.
type DirectoryStore interface {
	FindUserByID(ctx context.Context, id string) (*model.User, error)
	FindUsersByEmails(ctx context.Context, emails []string) (map[string]model.User, error)
	FindOrganizationByID(ctx context.Context, id string) (*model.Organization, error)
	FindPulseByID(ctx context.Context, id string) (*model.Pulse, error)
	IsOrganizationMember(ctx context.Context, organizationID, userID string) (bool, error)
	IsPulseMember(ctx context.Context, pulseID, userID string) (bool, error)
	PulseOwner(ctx context.Context, pulseID string) (*model.User, error)

	CreateUser(ctx context.Context, m *model.User) error
	CreateOrganization(ctx context.Context, m *model.Organization) error
	CreatePulse(ctx context.Context, m *model.Pulse) error
	AddMembership(ctx context.Context, m model.Membership) error
}

package model

import "time"

// Pulse categories
const (
	PulseCategoryPersonal = "PERSONAL"
	PulseCategoryTeam     = "TEAM"
	PulseCategoryOneToOne = "ONETOONE"
)

// Membership roles
const (
	RoleOwner  = "OWNER"
	RoleMember = "MEMBER"
)

// User is a member of the tenant directory
type User struct {
	ID                   string
	Email                string
	Name                 string
	Timezone             string
	CalendarRefreshToken string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Organization is the top level tenant
type Organization struct {
	ID   string
	Name string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Pulse is a workspace inside an organization
type Pulse struct {
	ID             string
	OrganizationID string
	Name           string
	Category       string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Membership grants a user access to an organization and optionally to one
// of its pulses.
type Membership struct {
	UserID         string
	OrganizationID string
	PulseID        string
	Role           string
}

package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/storage"
	"github.com/google/uuid"
)

type directoryStore struct {
	users         map[string]model.User
	organizations map[string]model.Organization
	pulses        map[string]model.Pulse
	memberships   []model.Membership
	sync.RWMutex
}

func newDirectoryStore() *directoryStore {
	return &directoryStore{
		users:         make(map[string]model.User),
		organizations: make(map[string]model.Organization),
		pulses:        make(map[string]model.Pulse),
	}
}

func (s *directoryStore) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	s.RLock()
	defer s.RUnlock()
	if m, ok := s.users[id]; ok {
		return &m, nil
	}

	return nil, storage.ErrNotFound
}

func (s *directoryStore) FindUsersByEmails(ctx context.Context, emails []string) (map[string]model.User, error) {
	s.RLock()
	defer s.RUnlock()

	wanted := make(map[string]bool, len(emails))
	for _, e := range emails {
		wanted[strings.ToLower(strings.TrimSpace(e))] = true
	}

	models := make(map[string]model.User)
	for _, u := range s.users {
		email := strings.ToLower(u.Email)
		if wanted[email] {
			models[email] = u
		}
	}

	return models, nil
}

func (s *directoryStore) FindOrganizationByID(ctx context.Context, id string) (*model.Organization, error) {
	s.RLock()
	defer s.RUnlock()
	if m, ok := s.organizations[id]; ok {
		return &m, nil
	}

	return nil, storage.ErrNotFound
}

func (s *directoryStore) FindPulseByID(ctx context.Context, id string) (*model.Pulse, error) {
	s.RLock()
	defer s.RUnlock()
	if m, ok := s.pulses[id]; ok {
		return &m, nil
	}

	return nil, storage.ErrNotFound
}

func (s *directoryStore) IsOrganizationMember(ctx context.Context, organizationID, userID string) (bool, error) {
	s.RLock()
	defer s.RUnlock()

	for _, m := range s.memberships {
		if m.OrganizationID == organizationID && m.UserID == userID {
			return true, nil
		}
	}

	return false, nil
}

func (s *directoryStore) IsPulseMember(ctx context.Context, pulseID, userID string) (bool, error) {
	s.RLock()
	defer s.RUnlock()

	for _, m := range s.memberships {
		if m.PulseID != "" && m.PulseID == pulseID && m.UserID == userID {
			return true, nil
		}
	}

	return false, nil
}

func (s *directoryStore) PulseOwner(ctx context.Context, pulseID string) (*model.User, error) {
	s.RLock()
	defer s.RUnlock()

	for _, m := range s.memberships {
		if m.PulseID == pulseID && m.Role == model.RoleOwner {
			if u, ok := s.users[m.UserID]; ok {
				return &u, nil
			}
		}
	}

	return nil, storage.ErrNotFound
}

func (s *directoryStore) CreateUser(ctx context.Context, m *model.User) error {
	s.Lock()
	defer s.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if _, ok := s.users[m.ID]; ok {
		return storage.ErrConflict
	}
	m.CreatedAt = time.Now().Round(time.Second).UTC()
	m.UpdatedAt = m.CreatedAt
	s.users[m.ID] = *m

	return nil
}

func (s *directoryStore) CreateOrganization(ctx context.Context, m *model.Organization) error {
	s.Lock()
	defer s.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if _, ok := s.organizations[m.ID]; ok {
		return storage.ErrConflict
	}
	m.CreatedAt = time.Now().Round(time.Second).UTC()
	m.UpdatedAt = m.CreatedAt
	s.organizations[m.ID] = *m

	return nil
}

func (s *directoryStore) CreatePulse(ctx context.Context, m *model.Pulse) error {
	s.Lock()
	defer s.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if _, ok := s.pulses[m.ID]; ok {
		return storage.ErrConflict
	}
	m.CreatedAt = time.Now().Round(time.Second).UTC()
	m.UpdatedAt = m.CreatedAt
	s.pulses[m.ID] = *m

	return nil
}

func (s *directoryStore) AddMembership(ctx context.Context, m model.Membership) error {
	s.addMembership(m)
	return nil
}

// addMembership reports whether m was new.
func (s *directoryStore) addMembership(m model.Membership) bool {
	s.Lock()
	defer s.Unlock()

	for _, existing := range s.memberships {
		if existing == m {
			return false
		}
	}
	s.memberships = append(s.memberships, m)

	return true
}

func (s *directoryStore) removeUser(id string) {
	s.Lock()
	delete(s.users, id)
	s.Unlock()
}

func (s *directoryStore) removeOrganization(id string) {
	s.Lock()
	delete(s.organizations, id)
	s.Unlock()
}

func (s *directoryStore) removePulse(id string) {
	s.Lock()
	delete(s.pulses, id)
	s.Unlock()
}

func (s *directoryStore) removeMembership(m model.Membership) {
	s.Lock()
	defer s.Unlock()

	for i, existing := range s.memberships {
		if existing == m {
			s.memberships = append(s.memberships[:i:i], s.memberships[i+1:]...)
			return
		}
	}
}

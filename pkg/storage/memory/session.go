package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/storage"
	"github.com/google/uuid"
)

type sessionStore struct {
	store map[string]model.Session
	sync.RWMutex
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		store: make(map[string]model.Session),
	}
}

func (s *sessionStore) FetchAll(ctx context.Context) (map[string]model.Session, error) {
	s.RLock()
	defer s.RUnlock()
	models := make(map[string]model.Session, len(s.store))

	for id, m := range s.store {
		models[id] = m
	}

	return models, nil
}

func (s *sessionStore) FetchByStatus(ctx context.Context, statuses ...model.Status) (map[string]model.Session, error) {
	s.RLock()
	defer s.RUnlock()
	models := make(map[string]model.Session)

	for id, m := range s.store {
		for _, status := range statuses {
			if m.Status == status {
				models[id] = m
				break
			}
		}
	}

	return models, nil
}

func (s *sessionStore) FindByID(ctx context.Context, id string) (*model.Session, error) {
	s.RLock()
	defer s.RUnlock()
	if m, ok := s.store[id]; ok {
		return &m, nil
	}

	return nil, storage.ErrNotFound
}

func (s *sessionStore) FindByMeetingID(ctx context.Context, meetingID string) (*model.Session, error) {
	s.RLock()
	defer s.RUnlock()

	for _, m := range s.store {
		if m.MeetingID == meetingID {
			return &m, nil
		}
	}

	return nil, storage.ErrNotFound
}

func (s *sessionStore) Create(ctx context.Context, m *model.Session) error {
	s.Lock()
	defer s.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if _, ok := s.store[m.ID]; ok {
		return storage.ErrConflict
	}
	for _, existing := range s.store {
		if m.MeetingID != "" && existing.MeetingID == m.MeetingID {
			return storage.ErrConflict
		}
	}

	m.CreatedAt = time.Now().Round(time.Second).UTC()
	m.UpdatedAt = m.CreatedAt

	stored := *m
	stored.Attendees = nil
	s.store[m.ID] = stored

	return nil
}

func (s *sessionStore) UpdateStatus(ctx context.Context, id string, from, to model.Status, at time.Time) error {
	_, err := s.updateStatus(id, from, to, at)
	return err
}

// updateStatus returns the row as it was before the update.
func (s *sessionStore) updateStatus(id string, from, to model.Status, at time.Time) (model.Session, error) {
	s.Lock()
	defer s.Unlock()

	m, ok := s.store[id]
	if !ok {
		return model.Session{}, storage.ErrNotFound
	}
	if m.Status != from {
		return model.Session{}, storage.ErrConflict
	}

	prev := m
	m.Status = to
	m.UpdatedAt = at.UTC()
	s.store[id] = m

	return prev, nil
}

func (s *sessionStore) remove(id string) {
	s.Lock()
	delete(s.store, id)
	s.Unlock()
}

// revert puts prev back unless the row was written again after the update
// being reverted.
func (s *sessionStore) revert(prev model.Session, to model.Status, at time.Time) {
	s.Lock()
	defer s.Unlock()

	cur, ok := s.store[prev.ID]
	if ok && cur.Status == to && cur.UpdatedAt.Equal(at.UTC()) {
		s.store[prev.ID] = prev
	}
}

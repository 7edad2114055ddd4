package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/storage"
)

// txStore passes writes through to the store and keeps an undo entry for
// each of them.
type txStore struct {
	s *store

	mu   sync.Mutex
	undo []func()
}

func (t *txStore) Sessions() storage.SessionStore {
	return &txSessionStore{sessionStore: t.s.sessions, tx: t}
}

func (t *txStore) Attendees() storage.AttendeeStore {
	return &txAttendeeStore{attendeeStore: t.s.attendees, tx: t}
}

func (t *txStore) Events() storage.EventStore {
	return t.s.events
}

func (t *txStore) Directory() storage.DirectoryStore {
	return &txDirectoryStore{directoryStore: t.s.directory, tx: t}
}

// Transaction nests: a failing fn undoes only its own writes.
func (t *txStore) Transaction(ctx context.Context, fn func(tx storage.Interface) error) error {
	mark := t.mark()
	err := fn(t)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		t.rollback(mark)
	}
	return err
}

func (t *txStore) record(undo func()) {
	t.mu.Lock()
	t.undo = append(t.undo, undo)
	t.mu.Unlock()
}

func (t *txStore) mark() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.undo)
}

// rollback runs the undo entries after mark, newest first.
func (t *txStore) rollback(mark int) {
	t.mu.Lock()
	pending := t.undo[mark:]
	t.undo = t.undo[:mark]
	t.mu.Unlock()

	for i := len(pending) - 1; i >= 0; i-- {
		pending[i]()
	}
}

type txSessionStore struct {
	*sessionStore
	tx *txStore
}

func (s *txSessionStore) Create(ctx context.Context, m *model.Session) error {
	if err := s.sessionStore.Create(ctx, m); err != nil {
		return err
	}
	id := m.ID
	s.tx.record(func() { s.sessionStore.remove(id) })
	return nil
}

func (s *txSessionStore) UpdateStatus(ctx context.Context, id string, from, to model.Status, at time.Time) error {
	prev, err := s.sessionStore.updateStatus(id, from, to, at)
	if err != nil {
		return err
	}
	s.tx.record(func() { s.sessionStore.revert(prev, to, at) })
	return nil
}

type txAttendeeStore struct {
	*attendeeStore
	tx *txStore
}

func (s *txAttendeeStore) AddAll(ctx context.Context, sessionID string, attendees []model.Attendee) ([]model.Attendee, error) {
	out, added := s.attendeeStore.addAll(sessionID, attendees)
	if len(added) > 0 {
		s.tx.record(func() { s.attendeeStore.remove(sessionID, added) })
	}
	return out, nil
}

type txDirectoryStore struct {
	*directoryStore
	tx *txStore
}

func (s *txDirectoryStore) CreateUser(ctx context.Context, m *model.User) error {
	if err := s.directoryStore.CreateUser(ctx, m); err != nil {
		return err
	}
	id := m.ID
	s.tx.record(func() { s.directoryStore.removeUser(id) })
	return nil
}

func (s *txDirectoryStore) CreateOrganization(ctx context.Context, m *model.Organization) error {
	if err := s.directoryStore.CreateOrganization(ctx, m); err != nil {
		return err
	}
	id := m.ID
	s.tx.record(func() { s.directoryStore.removeOrganization(id) })
	return nil
}

func (s *txDirectoryStore) CreatePulse(ctx context.Context, m *model.Pulse) error {
	if err := s.directoryStore.CreatePulse(ctx, m); err != nil {
		return err
	}
	id := m.ID
	s.tx.record(func() { s.directoryStore.removePulse(id) })
	return nil
}

func (s *txDirectoryStore) AddMembership(ctx context.Context, m model.Membership) error {
	if s.directoryStore.addMembership(m) {
		s.tx.record(func() { s.directoryStore.removeMembership(m) })
	}
	return nil
}

package memory

import (
	"context"
	"sync"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/storage"
)

// Store contains all memory-based sub-stores for managing the persistent models
type store struct {
	sessions  *sessionStore
	attendees *attendeeStore
	events    *eventStore
	directory *directoryStore

	txMu sync.Mutex
}

// NewStore creates a new memory-based Storage interface
func NewStore() storage.Interface {
	return &store{
		sessions:  newSessionStore(),
		attendees: newAttendeeStore(),
		events:    newEventStore(),
		directory: newDirectoryStore(),
	}
}

// Sessions returns a sub-store for managing the Session model
func (s *store) Sessions() storage.SessionStore {
	return s.sessions
}

// Attendees returns a sub-store for managing the Attendee model
func (s *store) Attendees() storage.AttendeeStore {
	return s.attendees
}

// Events returns a sub-store for managing the event model
func (s *store) Events() storage.EventStore {
	return s.events
}

// Directory returns a sub-store for reading the tenant directory
func (s *store) Directory() storage.DirectoryStore {
	return s.directory
}

// Transaction serializes transactions. When fn fails the writes fn made are
// undone; writes made outside the transaction are kept. The event log is
// not rolled back.
func (s *store) Transaction(ctx context.Context, fn func(tx storage.Interface) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &txStore{s: s}
	err := fn(tx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		tx.rollback(0)
	}

	return err
}

package postgres

import (
	"context"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/storage"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // registers the postgres driver
	"github.com/pkg/errors"
)

// store contains all PostgreSQL based sub-stores for managing the models
type store struct {
	db *sqlx.DB
	tx *sqlx.Tx

	sessions  *sessionStore
	attendees *attendeeStore
	events    *eventStore
	directory *directoryStore
}

// Open connects to the database behind url and checks the connection.
func Open(url string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	return db, nil
}

// NewStore creates a new PostgreSQL based Storage interface
func NewStore(db *sqlx.DB) storage.Interface {
	return newStore(db, nil, db)
}

func newStore(db *sqlx.DB, tx *sqlx.Tx, ext sqlx.ExtContext) *store {
	return &store{
		db:        db,
		tx:        tx,
		sessions:  newSessionStore(ext),
		attendees: newAttendeeStore(ext),
		events:    newEventStore(ext),
		directory: newDirectoryStore(ext),
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

// Events returns a sub-store for managing the Event model
func (s *store) Events() storage.EventStore {
	return s.events
}

// Directory returns a sub-store for reading the tenant directory
func (s *store) Directory() storage.DirectoryStore {
	return s.directory
}

// Transaction runs fn inside a database transaction. Nested calls join the
// outer transaction.
func (s *store) Transaction(ctx context.Context, fn func(tx storage.Interface) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	if err := fn(newStore(s.db, tx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Wrapf(err, "rollback failed: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

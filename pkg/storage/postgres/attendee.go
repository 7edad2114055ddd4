package postgres

import (
	"context"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

func newAttendeeStore(db sqlx.ExtContext) *attendeeStore {
	return &attendeeStore{
		db: db,
	}
}

type attendeeStore struct {
	db sqlx.ExtContext
}

type sqlDataAttendee struct {
	ID             string    `db:"id"`
	SessionID      string    `db:"session_id"`
	UserID         string    `db:"user_id"`
	Email          string    `db:"email"`
	External       bool      `db:"external"`
	ResponseStatus string    `db:"response_status"`
	CreatedAt      time.Time `db:"created_at"`
}

func (d *sqlDataAttendee) Scan(m *model.Attendee) error {
	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().Round(time.Second).UTC()
	}

	d.ID = m.ID
	d.SessionID = m.SessionID
	d.UserID = m.UserID
	d.Email = m.Email
	d.External = m.External
	d.ResponseStatus = m.ResponseStatus
	d.CreatedAt = createdAt

	return nil
}

func (d *sqlDataAttendee) Model() model.Attendee {
	return model.Attendee{
		ID:             d.ID,
		SessionID:      d.SessionID,
		UserID:         d.UserID,
		Email:          d.Email,
		External:       d.External,
		ResponseStatus: d.ResponseStatus,
		CreatedAt:      d.CreatedAt,
	}
}

func (s *attendeeStore) FetchBySession(ctx context.Context, sessionID string) ([]model.Attendee, error) {
	rows := make([]sqlDataAttendee, 0)
	query := "SELECT * FROM attendees WHERE session_id=$1 ORDER BY created_at, email"
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, sessionID); err != nil {
		return nil, errors.Wrap(err, "failed to fetch attendees")
	}

	out := make([]model.Attendee, 0, len(rows))
	for _, d := range rows {
		out = append(out, d.Model())
	}
	return out, nil
}

func (s *attendeeStore) AddAll(ctx context.Context, sessionID string, attendees []model.Attendee) ([]model.Attendee, error) {
	insert := `INSERT INTO attendees (id, session_id, user_id, email, external, response_status, created_at)
		VALUES (:id, :session_id, :user_id, :email, :external, :response_status, :created_at)
		ON CONFLICT (session_id, email) DO NOTHING`
	lookup := "SELECT * FROM attendees WHERE session_id=$1 AND email=$2"

	out := make([]model.Attendee, 0, len(attendees))
	for _, a := range attendees {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		a.SessionID = sessionID

		d := sqlDataAttendee{}
		if err := d.Scan(&a); err != nil {
			return nil, errors.Wrap(err, "failed to convert attendee model to SQL data")
		}
		if _, err := sqlx.NamedExecContext(ctx, s.db, insert, d); err != nil {
			return nil, errors.Wrap(err, "failed to create attendee")
		}

		stored := sqlDataAttendee{}
		if err := sqlx.GetContext(ctx, s.db, &stored, lookup, sessionID, a.Email); err != nil {
			return nil, errors.Wrap(err, "failed to read attendee")
		}
		out = append(out, stored.Model())
	}

	return out, nil
}

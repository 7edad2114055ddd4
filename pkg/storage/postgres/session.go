package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/storage"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

func newSessionStore(db sqlx.ExtContext) *sessionStore {
	return &sessionStore{
		db: db,
	}
}

type sessionStore struct {
	db sqlx.ExtContext
}

type sqlDataSession struct {
	ID              string    `db:"id"`
	MeetingID       string    `db:"meeting_id"`
	Type            string    `db:"type"`
	Status          string    `db:"status"`
	OrganizationID  string    `db:"organization_id"`
	PulseID         string    `db:"pulse_id"`
	UserID          string    `db:"user_id"`
	Name            string    `db:"name"`
	Description     string    `db:"description"`
	MeetingURL      string    `db:"meeting_url"`
	CalendarEventID string    `db:"calendar_event_id"`
	Passcode        string    `db:"passcode"`
	MeetingType     string    `db:"meeting_type"`
	StartAt         time.Time `db:"start_at"`
	EndAt           time.Time `db:"end_at"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

var sqlParamsSession = []string{
	"id",
	"meeting_id",
	"type",
	"status",
	"organization_id",
	"pulse_id",
	"user_id",
	"name",
	"description",
	"meeting_url",
	"calendar_event_id",
	"passcode",
	"meeting_type",
	"start_at",
	"end_at",
	"created_at",
	"updated_at",
}

func (d *sqlDataSession) Scan(m *model.Session) error {
	var createdAt, updatedAt = m.CreatedAt, m.UpdatedAt

	if m.CreatedAt.IsZero() {
		createdAt = time.Now().Round(time.Second).UTC()
	}

	if m.UpdatedAt.IsZero() {
		updatedAt = time.Now().Round(time.Second).UTC()
	}

	d.ID = m.ID
	d.MeetingID = m.MeetingID
	d.Type = m.Type.String()
	d.Status = m.Status.String()
	d.OrganizationID = m.OrganizationID
	d.PulseID = m.PulseID
	d.UserID = m.UserID
	d.Name = m.Name
	d.Description = m.Description
	d.MeetingURL = m.MeetingURL
	d.CalendarEventID = m.CalendarEventID
	d.Passcode = m.Passcode
	d.MeetingType = m.MeetingType
	d.StartAt = m.StartAt.UTC()
	d.EndAt = m.EndAt.UTC()
	d.CreatedAt = createdAt
	d.UpdatedAt = updatedAt

	return nil
}

func (d *sqlDataSession) Model() (*model.Session, error) {
	status, err := model.ParseStatus(d.Status)
	if err != nil {
		return nil, err
	}
	typ, err := model.ParseType(d.Type)
	if err != nil {
		return nil, err
	}

	m := &model.Session{
		ID:              d.ID,
		MeetingID:       d.MeetingID,
		Type:            typ,
		Status:          status,
		OrganizationID:  d.OrganizationID,
		PulseID:         d.PulseID,
		UserID:          d.UserID,
		Name:            d.Name,
		Description:     d.Description,
		MeetingURL:      d.MeetingURL,
		CalendarEventID: d.CalendarEventID,
		Passcode:        d.Passcode,
		MeetingType:     d.MeetingType,
		StartAt:         d.StartAt,
		EndAt:           d.EndAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}

	return m, nil
}

func (s *sessionStore) FetchAll(ctx context.Context) (map[string]model.Session, error) {
	return selectSessions(ctx, s.db, "SELECT * FROM sessions")
}

func (s *sessionStore) FetchByStatus(ctx context.Context, statuses ...model.Status) (map[string]model.Session, error) {
	names := make([]string, 0, len(statuses))
	for _, st := range statuses {
		names = append(names, st.String())
	}
	return selectSessions(ctx, s.db, "SELECT * FROM sessions WHERE status = ANY($1)", pq.Array(names))
}

func (s *sessionStore) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return getSession(ctx, s.db, "SELECT * FROM sessions WHERE id=$1", id)
}

func (s *sessionStore) FindByMeetingID(ctx context.Context, meetingID string) (*model.Session, error) {
	return getSession(ctx, s.db, "SELECT * FROM sessions WHERE meeting_id=$1", meetingID)
}

func (s *sessionStore) Create(ctx context.Context, m *model.Session) error {
	return createSession(ctx, s.db, m)
}

func (s *sessionStore) UpdateStatus(ctx context.Context, id string, from, to model.Status, at time.Time) error {
	return updateSessionStatus(ctx, s.db, id, from, to, at)
}

func selectSessions(ctx context.Context, db sqlx.ExtContext, query string, args ...interface{}) (map[string]model.Session, error) {
	rows := make([]sqlDataSession, 0)
	models := make(map[string]model.Session)

	if err := sqlx.SelectContext(ctx, db, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "failed to fetch sessions")
	}

	for _, d := range rows {
		m, err := d.Model()
		if err != nil {
			return nil, errors.Wrap(err, "failed to convert SQL data to session model")
		}

		models[d.ID] = *m
	}

	return models, nil
}

func getSession(ctx context.Context, db sqlx.ExtContext, query string, args ...interface{}) (*model.Session, error) {
	d := sqlDataSession{}
	if err := sqlx.GetContext(ctx, db, &d, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find session")
	}

	return d.Model()
}

func createSession(ctx context.Context, db sqlx.ExtContext, m *model.Session) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	d := sqlDataSession{}
	if err := d.Scan(m); err != nil {
		return errors.Wrap(err, "failed to convert session model to SQL data")
	}

	query := fmt.Sprintf(
		"INSERT INTO sessions (%s) VALUES (%s)",
		strings.Join(sqlParamsSession, ", "),
		":"+strings.Join(sqlParamsSession, ", :"),
	)
	if _, err := sqlx.NamedExecContext(ctx, db, query, d); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		return errors.Wrap(err, "failed to create session")
	}

	m.CreatedAt = d.CreatedAt
	m.UpdatedAt = d.UpdatedAt

	return nil
}

// meeting_url is never part of an update statement.
func updateSessionStatus(ctx context.Context, db sqlx.ExtContext, id string, from, to model.Status, at time.Time) error {
	query := "UPDATE sessions SET status=$1, updated_at=$2 WHERE id=$3 AND status=$4"
	res, err := db.ExecContext(ctx, query, to.String(), at.UTC(), id, from.String())
	if err != nil {
		return errors.Wrap(err, "failed to update session status")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to update session status")
	}
	if n > 0 {
		return nil
	}

	// Nothing matched: either the row is gone or another writer moved it.
	var exists bool
	if err := sqlx.GetContext(ctx, db, &exists, "SELECT EXISTS(SELECT 1 FROM sessions WHERE id=$1)", id); err != nil {
		return errors.Wrap(err, "failed to update session status")
	}
	if !exists {
		return storage.ErrNotFound
	}
	return storage.ErrConflict
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}

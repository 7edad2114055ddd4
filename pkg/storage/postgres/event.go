package postgres

import (
	"context"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

func newEventStore(db sqlx.ExtContext) *eventStore {
	return &eventStore{
		db: db,
	}
}

type eventStore struct {
	db sqlx.ExtContext
}

type sqlDataEvent struct {
	ID         string    `db:"id"`
	Channel    string    `db:"channel"`
	Name       string    `db:"name"`
	SourceType string    `db:"source_type"`
	SourceID   string    `db:"source_id"`
	OccurredAt time.Time `db:"occurred_at"`
	Details    string    `db:"details"`
	CreatedAt  time.Time `db:"created_at"`
}

func (d *sqlDataEvent) Scan(m *model.Event) error {
	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().Round(time.Second).UTC()
	}

	d.ID = m.ID
	d.Channel = m.Channel
	d.Name = m.Name
	d.SourceType = m.SourceType
	d.SourceID = m.SourceID
	d.OccurredAt = m.Timestamp.UTC()
	d.Details = m.Details
	d.CreatedAt = createdAt

	return nil
}

func (d *sqlDataEvent) Model() model.Event {
	return model.Event{
		ID:         d.ID,
		Channel:    d.Channel,
		Name:       d.Name,
		SourceType: d.SourceType,
		SourceID:   d.SourceID,
		Timestamp:  d.OccurredAt,
		Details:    d.Details,
		CreatedAt:  d.CreatedAt,
	}
}

func (s *eventStore) FetchAll(ctx context.Context) (map[string]model.Event, error) {
	return selectEvents(ctx, s.db, "SELECT * FROM events")
}

func (s *eventStore) FetchByChannel(ctx context.Context, channel string) (map[string]model.Event, error) {
	return selectEvents(ctx, s.db, "SELECT * FROM events WHERE channel=$1", channel)
}

func (s *eventStore) Create(ctx context.Context, m *model.Event) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	d := sqlDataEvent{}
	if err := d.Scan(m); err != nil {
		return errors.Wrap(err, "failed to convert event model to SQL data")
	}

	query := `INSERT INTO events (id, channel, name, source_type, source_id, occurred_at, details, created_at)
		VALUES (:id, :channel, :name, :source_type, :source_id, :occurred_at, :details, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, s.db, query, d); err != nil {
		return errors.Wrap(err, "failed to create event")
	}
	m.CreatedAt = d.CreatedAt

	return nil
}

func selectEvents(ctx context.Context, db sqlx.ExtContext, query string, args ...interface{}) (map[string]model.Event, error) {
	rows := make([]sqlDataEvent, 0)
	if err := sqlx.SelectContext(ctx, db, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "failed to fetch events")
	}

	models := make(map[string]model.Event, len(rows))
	for _, d := range rows {
		models[d.ID] = d.Model()
	}
	return models, nil
}

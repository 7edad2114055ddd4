package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/storage"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRowConversion(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	m := &model.Session{
		ID:         "s1",
		MeetingID:  "m1",
		Type:       model.TypeCollab,
		Status:     model.StatusPaused,
		MeetingURL: "https://meet.example.com/xyz",
		StartAt:    start,
		EndAt:      start.Add(time.Hour),
	}

	d := sqlDataSession{}
	require.NoError(t, d.Scan(m))
	assert.Equal(t, "PAUSED", d.Status)
	assert.Equal(t, "COLLAB", d.Type)
	assert.False(t, d.CreatedAt.IsZero())

	out, err := d.Model()
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaused, out.Status)
	assert.Equal(t, model.TypeCollab, out.Type)
	assert.Equal(t, m.MeetingURL, out.MeetingURL)

	d.Status = "INACTIVE"
	_, err = d.Model()
	assert.Error(t, err)
}

// openTestDB connects to TEST_DATABASE_URL and applies the migrations. The
// test is skipped when no database is configured.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := Open(url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	migrations := &migrate.FileMigrationSource{Dir: "../../../db/migrations"}
	_, err = migrate.Exec(db.DB, "postgres", migrations, migrate.Up)
	require.NoError(t, err)

	return db
}

func TestStoreAgainstDatabase(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	s := NewStore(db)

	org := &model.Organization{Name: "Acme"}
	require.NoError(t, s.Directory().CreateOrganization(ctx, org))
	pulse := &model.Pulse{OrganizationID: org.ID, Name: "Eng", Category: model.PulseCategoryTeam}
	require.NoError(t, s.Directory().CreatePulse(ctx, pulse))

	sess := &model.Session{
		MeetingID:      time.Now().Format(time.RFC3339Nano),
		OrganizationID: org.ID,
		PulseID:        pulse.ID,
		UserID:         "u1",
		Name:           "Standup",
		MeetingURL:     "https://meet.example.com/abc",
		StartAt:        time.Now().UTC(),
		EndAt:          time.Now().UTC().Add(time.Hour),
	}

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx storage.Interface) error {
		if err := tx.Sessions().Create(ctx, sess); err != nil {
			return err
		}
		return boom
	})
	require.Equal(t, boom, err)
	_, err = s.Sessions().FindByID(ctx, sess.ID)
	require.Equal(t, storage.ErrNotFound, err)

	sess.ID = ""
	require.NoError(t, s.Transaction(ctx, func(tx storage.Interface) error {
		if err := tx.Sessions().Create(ctx, sess); err != nil {
			return err
		}
		_, err := tx.Attendees().AddAll(ctx, sess.ID, []model.Attendee{{Email: "guest@example.com", External: true}})
		return err
	}))

	again, err := s.Attendees().AddAll(ctx, sess.ID, []model.Attendee{{Email: "guest@example.com", External: true}})
	require.NoError(t, err)
	require.Len(t, again, 1)

	attendees, err := s.Attendees().FetchBySession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, attendees, 1)

	at := time.Now().Round(time.Second).UTC()
	require.NoError(t, s.Sessions().UpdateStatus(ctx, sess.ID, model.StatusLive, model.StatusActive, at))
	got, err := s.Sessions().FindByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)
	assert.Equal(t, sess.MeetingURL, got.MeetingURL)
	assert.True(t, at.Equal(got.UpdatedAt))

	// stale writer still expects LIVE
	err = s.Sessions().UpdateStatus(ctx, sess.ID, model.StatusLive, model.StatusEnded, at)
	assert.Equal(t, storage.ErrConflict, err)
	err = s.Sessions().UpdateStatus(ctx, "missing", model.StatusLive, model.StatusEnded, at)
	assert.Equal(t, storage.ErrNotFound, err)
}

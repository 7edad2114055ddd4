package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCreateAndUpdateStatus(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	sess := &model.Session{MeetingID: "m-1", Name: "Weekly", MeetingURL: "https://meet.example.com/abc"}
	require.NoError(t, s.Sessions().Create(ctx, sess))
	require.NotEmpty(t, sess.ID)

	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.Sessions().UpdateStatus(ctx, sess.ID, model.StatusLive, model.StatusActive, at))

	got, err := s.Sessions().FindByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)
	assert.Equal(t, at, got.UpdatedAt)
	assert.Equal(t, "https://meet.example.com/abc", got.MeetingURL)

	byMeeting, err := s.Sessions().FindByMeetingID(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, sess.ID, byMeeting.ID)

	assert.Equal(t, storage.ErrConflict, s.Sessions().Create(ctx, &model.Session{MeetingID: "m-1"}))
	assert.Equal(t, storage.ErrNotFound, s.Sessions().UpdateStatus(ctx, "missing", model.StatusLive, model.StatusEnded, at))

	_, err = s.Sessions().FindByID(ctx, "missing")
	assert.Equal(t, storage.ErrNotFound, err)
}

func TestFetchByStatus(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	for _, st := range []model.Status{model.StatusLive, model.StatusActive, model.StatusPaused, model.StatusEnded} {
		require.NoError(t, s.Sessions().Create(ctx, &model.Session{Status: st}))
	}

	got, err := s.Sessions().FetchByStatus(ctx, model.StatusActive, model.StatusPaused)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestAttendeesAddAllIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	list := []model.Attendee{
		{UserID: "u1", Email: "ann@example.com"},
		{Email: "guest@example.com", External: true},
	}

	first, err := s.Attendees().AddAll(ctx, "s1", list)
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := s.Attendees().AddAll(ctx, "s1", list)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stored, err := s.Attendees().FetchBySession(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestTransactionRollback(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx storage.Interface) error {
		sess := &model.Session{ID: "s1"}
		if err := tx.Sessions().Create(ctx, sess); err != nil {
			return err
		}
		if _, err := tx.Attendees().AddAll(ctx, sess.ID, []model.Attendee{{Email: "a@example.com"}}); err != nil {
			return err
		}
		return boom
	})
	require.Equal(t, boom, err)

	_, err = s.Sessions().FindByID(ctx, "s1")
	assert.Equal(t, storage.ErrNotFound, err)

	attendees, err := s.Attendees().FetchBySession(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, attendees)
}

func TestUpdateStatusRejectsStaleStatus(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	at := time.Now().UTC()

	sess := &model.Session{Status: model.StatusPaused}
	require.NoError(t, s.Sessions().Create(ctx, sess))
	require.NoError(t, s.Sessions().UpdateStatus(ctx, sess.ID, model.StatusPaused, model.StatusEnded, at))

	// a second writer still holding the PAUSED row
	err := s.Sessions().UpdateStatus(ctx, sess.ID, model.StatusPaused, model.StatusActive, at)
	assert.Equal(t, storage.ErrConflict, err)

	got, err := s.Sessions().FindByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusEnded, got.Status)
}

func TestTransactionRollbackKeepsOutsideWrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	boom := errors.New("boom")

	other := &model.Session{ID: "x"}
	require.NoError(t, s.Sessions().Create(ctx, other))

	inside := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.Transaction(ctx, func(tx storage.Interface) error {
			if err := tx.Sessions().Create(ctx, &model.Session{ID: "y"}); err != nil {
				return err
			}
			if err := tx.Directory().CreateUser(ctx, &model.User{ID: "u-tx", Email: "tx@example.com"}); err != nil {
				return err
			}
			close(inside)
			<-release
			return boom
		})
	}()

	<-inside
	require.NoError(t, s.Sessions().UpdateStatus(ctx, "x", model.StatusLive, model.StatusActive, time.Now()))
	require.NoError(t, s.Directory().CreateUser(ctx, &model.User{ID: "u-out", Email: "out@example.com"}))
	_, err := s.Attendees().AddAll(ctx, "x", []model.Attendee{{Email: "ann@example.com"}})
	require.NoError(t, err)
	close(release)
	require.Equal(t, boom, <-done)

	got, err := s.Sessions().FindByID(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)

	attendees, err := s.Attendees().FetchBySession(ctx, "x")
	require.NoError(t, err)
	assert.Len(t, attendees, 1)

	_, err = s.Directory().FindUserByID(ctx, "u-out")
	assert.NoError(t, err)

	_, err = s.Sessions().FindByID(ctx, "y")
	assert.Equal(t, storage.ErrNotFound, err)
	_, err = s.Directory().FindUserByID(ctx, "u-tx")
	assert.Equal(t, storage.ErrNotFound, err)
}

func TestTransactionRollbackRevertsStatus(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	boom := errors.New("boom")

	sess := &model.Session{ID: "s1"}
	require.NoError(t, s.Sessions().Create(ctx, sess))

	err := s.Transaction(ctx, func(tx storage.Interface) error {
		if err := tx.Sessions().UpdateStatus(ctx, "s1", model.StatusLive, model.StatusActive, time.Now()); err != nil {
			return err
		}
		return boom
	})
	require.Equal(t, boom, err)

	got, err := s.Sessions().FindByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusLive, got.Status)
}

func TestDirectory(t *testing.T) {
	ctx := context.Background()
	d := NewStore().Directory()

	u := &model.User{Email: "Ann@Example.com", Name: "Ann"}
	require.NoError(t, d.CreateUser(ctx, u))
	p := &model.Pulse{OrganizationID: "o1", Name: "Eng"}
	require.NoError(t, d.CreatePulse(ctx, p))
	require.NoError(t, d.AddMembership(ctx, model.Membership{UserID: u.ID, OrganizationID: "o1", PulseID: p.ID, Role: model.RoleOwner}))

	users, err := d.FindUsersByEmails(ctx, []string{" ann@example.com", "nobody@example.com"})
	require.NoError(t, err)
	require.Contains(t, users, "ann@example.com")
	assert.Equal(t, u.ID, users["ann@example.com"].ID)

	ok, err := d.IsPulseMember(ctx, p.ID, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.IsOrganizationMember(ctx, "o1", u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.IsPulseMember(ctx, "other", u.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	owner, err := d.PulseOwner(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, owner.ID)
}

package watcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/gateway/companion"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/lifecycle"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	recordings []companion.Recording
	err        error
	calls      int32
}

func (s *staticSource) Recordings(ctx context.Context) ([]companion.Recording, error) {
	atomic.AddInt32(&s.calls, 1)
	return s.recordings, s.err
}

type fakeSessions struct {
	mu         sync.Mutex
	open       []model.Session
	reconciled []string
	err        error
}

func (f *fakeSessions) List(ctx context.Context, statuses ...model.Status) ([]model.Session, error) {
	return f.open, nil
}

func (f *fakeSessions) Reconcile(ctx context.Context, id string, next model.Status) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.reconciled = append(f.reconciled, id)
	return &model.Session{ID: id, Status: next}, nil
}

func TestCheckEndsFinishedSessions(t *testing.T) {
	src := &staticSource{recordings: []companion.Recording{
		{MeetingID: "m-1", Status: "completed"},
		{MeetingID: "m-2", Status: "recording"},
		{MeetingID: "m-9", Status: "finished"},
	}}
	sessions := &fakeSessions{open: []model.Session{
		{ID: "s-1", MeetingID: "m-1", Status: model.StatusActive},
		{ID: "s-2", MeetingID: "m-2", Status: model.StatusPaused},
		{ID: "s-3", MeetingID: "m-3", Status: model.StatusActive},
	}}

	n, err := New(src, sessions, time.Minute).Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"s-1"}, sessions.reconciled)
}

func TestCheckSkipsPollWithoutOpenSessions(t *testing.T) {
	src := &staticSource{}
	n, err := New(src, &fakeSessions{}, time.Minute).Check(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, atomic.LoadInt32(&src.calls))
}

func TestCheckIgnoresRacingTransitions(t *testing.T) {
	src := &staticSource{recordings: []companion.Recording{{MeetingID: "m-1", Status: "ended"}}}
	sessions := &fakeSessions{
		open: []model.Session{{ID: "s-1", MeetingID: "m-1", Status: model.StatusActive}},
		err:  &lifecycle.TransitionError{From: model.StatusStopped, To: model.StatusEnded},
	}

	n, err := New(src, sessions, time.Minute).Check(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCheckSourceFailure(t *testing.T) {
	src := &staticSource{err: errors.New("companion down")}
	sessions := &fakeSessions{open: []model.Session{{ID: "s-1", MeetingID: "m-1"}}}

	_, err := New(src, sessions, time.Minute).Check(context.Background())
	assert.Error(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	src := &staticSource{recordings: []companion.Recording{{MeetingID: "m-1", Status: "stopped"}}}
	sessions := &fakeSessions{open: []model.Session{{ID: "s-1", MeetingID: "m-1", Status: model.StatusActive}}}
	w := New(src, sessions, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&src.calls) > 0 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestDefaultInterval(t *testing.T) {
	assert.Equal(t, DefaultInterval, New(nil, nil, 0).interval)
}

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	"github.com/google/uuid"
)

type attendeeStore struct {
	store map[string][]model.Attendee
	sync.RWMutex
}

func newAttendeeStore() *attendeeStore {
	return &attendeeStore{
		store: make(map[string][]model.Attendee),
	}
}

func (s *attendeeStore) FetchBySession(ctx context.Context, sessionID string) ([]model.Attendee, error) {
	s.RLock()
	defer s.RUnlock()

	out := make([]model.Attendee, len(s.store[sessionID]))
	copy(out, s.store[sessionID])
	return out, nil
}

func (s *attendeeStore) AddAll(ctx context.Context, sessionID string, attendees []model.Attendee) ([]model.Attendee, error) {
	out, _ := s.addAll(sessionID, attendees)
	return out, nil
}

// addAll also returns the ids of the rows it inserted.
func (s *attendeeStore) addAll(sessionID string, attendees []model.Attendee) ([]model.Attendee, []string) {
	s.Lock()
	defer s.Unlock()

	existing := s.store[sessionID]
	out := make([]model.Attendee, 0, len(attendees))
	var added []string

	for _, a := range attendees {
		if stored, ok := findAttendeeByEmail(existing, a.Email); ok {
			out = append(out, stored)
			continue
		}

		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		a.SessionID = sessionID
		a.CreatedAt = time.Now().Round(time.Second).UTC()

		existing = append(existing, a)
		out = append(out, a)
		added = append(added, a.ID)
	}

	s.store[sessionID] = existing
	return out, added
}

func (s *attendeeStore) remove(sessionID string, ids []string) {
	s.Lock()
	defer s.Unlock()

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	kept := make([]model.Attendee, 0, len(s.store[sessionID]))
	for _, a := range s.store[sessionID] {
		if !drop[a.ID] {
			kept = append(kept, a)
		}
	}
	if len(kept) == 0 {
		delete(s.store, sessionID)
		return
	}
	s.store[sessionID] = kept
}

func findAttendeeByEmail(attendees []model.Attendee, email string) (model.Attendee, bool) {
	for _, a := range attendees {
		if a.Email == email {
			return a, true
		}
	}
	return model.Attendee{}, false
}

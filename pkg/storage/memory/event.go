package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	"github.com/google/uuid"
)

type eventStore struct {
	store map[string]model.Event
	sync.RWMutex
}

func newEventStore() *eventStore {
	return &eventStore{
		store: make(map[string]model.Event),
	}
}

func (s *eventStore) FetchAll(ctx context.Context) (models map[string]model.Event, err error) {
	s.RLock()
	defer s.RUnlock()
	models = make(map[string]model.Event, len(s.store))

	for id, m := range s.store {
		models[id] = m
	}

	return models, nil
}

func (s *eventStore) FetchByChannel(ctx context.Context, channel string) (map[string]model.Event, error) {
	s.RLock()
	defer s.RUnlock()
	models := make(map[string]model.Event)

	for id, m := range s.store {
		if m.Channel == channel {
			models[id] = m
		}
	}

	return models, nil
}

func (s *eventStore) Create(ctx context.Context, m *model.Event) error {
	s.Lock()
	defer s.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = time.Now().Round(time.Second).UTC()

	s.store[m.ID] = *m

	return nil
}

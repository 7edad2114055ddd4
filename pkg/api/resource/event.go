package resource

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
)

type EventResource struct {
	ID         string      `json:"id"`
	Channel    string      `json:"channel"`
	Name       string      `json:"name"`
	SourceType string      `json:"sourceType"`
	SourceID   string      `json:"sourceId"`
	Timestamp  time.Time   `json:"timestamp"`
	Details    interface{} `json:"details"`
}

type EventListResource struct {
	Members []*EventResource `json:"members"`
}

func NewEvent(m *model.Event) (out *EventResource) {
	out = &EventResource{
		ID:         m.ID,
		Channel:    m.Channel,
		Name:       m.Name,
		SourceType: m.SourceType,
		SourceID:   m.SourceID,
		Timestamp:  m.Timestamp,
	}

	var details interface{}
	if err := json.Unmarshal([]byte(m.Details), &details); err == nil {
		out.Details = details
	}

	return // out
}

func NewEventList(m map[string]model.Event) (out *EventListResource) {
	out = &EventListResource{
		Members: make([]*EventResource, 0, len(m)),
	}

	for _, elem := range m {
		out.Members = append(out.Members, NewEvent(&elem))
	}

	// Default sort by timestamp, then ID
	sort.Slice(out.Members, func(i, j int) bool {
		a, b := out.Members[i], out.Members[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		return a.ID < b.ID
	})

	return // out
}

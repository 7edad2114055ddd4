package resource

import (
	"sort"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
)

type AttendeeResource struct {
	ID             string `json:"id"`
	UserID         string `json:"userId,omitempty"`
	Email          string `json:"email"`
	External       bool   `json:"external"`
	ResponseStatus string `json:"responseStatus"`
}

type AttendeeListResource struct {
	Members []*AttendeeResource `json:"members"`
}

func NewAttendee(m *model.Attendee) *AttendeeResource {
	return &AttendeeResource{
		ID:             m.ID,
		UserID:         m.UserID,
		Email:          m.Email,
		External:       m.External,
		ResponseStatus: m.ResponseStatus,
	}
}

func NewAttendeeList(m []model.Attendee) (out *AttendeeListResource) {
	out = &AttendeeListResource{
		Members: make([]*AttendeeResource, 0, len(m)),
	}

	for i := range m {
		out.Members = append(out.Members, NewAttendee(&m[i]))
	}

	// Default sort by email
	sort.Slice(out.Members, func(i, j int) bool {
		return out.Members[i].Email < out.Members[j].Email
	})

	return // out
}

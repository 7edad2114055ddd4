package channels

import (
	"context"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/storage"
	"github.com/pkg/errors"
)

// Authorizer decides whether a user may subscribe to a channel
type Authorizer interface {
	Authorize(ctx context.Context, userID string, ch Channel) (bool, error)
}

// StoreAuthorizer authorizes subscriptions against the session store and
// tenant directory
type StoreAuthorizer struct {
	store storage.Interface
}

// NewStoreAuthorizer creates an authorizer backed by store.
func NewStoreAuthorizer(store storage.Interface) *StoreAuthorizer {
	return &StoreAuthorizer{store: store}
}

// Authorize implements Authorizer.
func (a *StoreAuthorizer) Authorize(ctx context.Context, userID string, ch Channel) (bool, error) {
	if userID == "" {
		return false, nil
	}

	switch ch.Resource {
	case ResourceUser:
		return ch.ID == userID, nil
	case ResourcePulse:
		return a.store.Directory().IsPulseMember(ctx, ch.ID, userID)
	case ResourceOrganization:
		return a.store.Directory().IsOrganizationMember(ctx, ch.ID, userID)
	case ResourceSession:
		return a.authorizeSession(ctx, userID, ch.ID)
	}

	return false, &InvalidChannelError{Name: ch.String()}
}

func (a *StoreAuthorizer) authorizeSession(ctx context.Context, userID, sessionID string) (bool, error) {
	s, err := a.store.Sessions().FindByID(ctx, sessionID)
	if err == storage.ErrNotFound {
		return false, nil
	} else if err != nil {
		return false, errors.Wrap(err, "failed to load session")
	}
	if s.UserID == userID {
		return true, nil
	}

	attendees, err := a.store.Attendees().FetchBySession(ctx, sessionID)
	if err != nil {
		return false, errors.Wrap(err, "failed to load attendees")
	}
	for _, att := range attendees {
		if !att.External && att.UserID == userID {
			return true, nil
		}
	}

	if s.PulseID == "" {
		return false, nil
	}
	return a.store.Directory().IsPulseMember(ctx, s.PulseID, userID)
}

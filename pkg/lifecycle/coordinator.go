// Package lifecycle moves meeting and collaboration sessions through their
// states. Every transition runs its side effects in a fixed order: the
// external call first, then persistence, then fanout.
package lifecycle

import (
	"context"
	"hash/fnv"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/channels"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/gateway/calendar"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/gateway/companion"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/metrics"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/storage"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CalendarGateway creates the calendar event that carries the meeting link
type CalendarGateway interface {
	CreateEvent(ctx context.Context, owner model.User, req calendar.EventRequest) (*calendar.Event, error)
}

// CompanionGateway controls the meeting companion bot
type CompanionGateway interface {
	Start(ctx context.Context, req companion.StartRequest) error
	Stop(ctx context.Context, meetingID string) error
	Pause(ctx context.Context, meetingID string) error
	Resume(ctx context.Context, meetingID string) error
}

// Broadcaster fans out session events
type Broadcaster interface {
	Broadcast(ctx context.Context, event, sourceID string, data interface{}, chs ...channels.Channel) error
}

const lockStripes = 64

// Coordinator owns every session state change
type Coordinator struct {
	store     storage.Interface
	calendar  CalendarGateway
	companion CompanionGateway
	broadcast Broadcaster
	now       func() time.Time

	locks [lockStripes]sync.Mutex
}

// NewCoordinator creates a coordinator. A nil clock uses time.Now in UTC.
func NewCoordinator(store storage.Interface, cal CalendarGateway, comp CompanionGateway, bc Broadcaster, clock func() time.Time) *Coordinator {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &Coordinator{
		store:     store,
		calendar:  cal,
		companion: comp,
		broadcast: bc,
		now:       clock,
	}
}

// lock serializes transitions of one session.
func (c *Coordinator) lock(id string) func() {
	h := fnv.New32a()
	h.Write([]byte(id))
	m := &c.locks[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}

// Create validates the request, creates the calendar event and persists the
// session with its attendees. Nothing is stored when the calendar call fails.
func (c *Coordinator) Create(ctx context.Context, req CreateRequest) (*model.Session, error) {
	typ, err := req.validate()
	if err != nil {
		return nil, err
	}

	dir := c.store.Directory()
	creator, err := dir.FindUserByID(ctx, req.UserID)
	if err == storage.ErrNotFound {
		return nil, errors.Wrapf(ErrNotFound, "user %s", req.UserID)
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to load creator")
	}

	pulse, err := dir.FindPulseByID(ctx, req.PulseID)
	if err == storage.ErrNotFound {
		return nil, errors.Wrapf(ErrNotFound, "pulse %s", req.PulseID)
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to load pulse")
	}
	if pulse.OrganizationID != req.OrganizationID {
		return nil, &ValidationError{Fields: map[string]string{
			"pulseId": "does not belong to the organization",
		}}
	}

	invited := calendar.PrepareAttendees(req.Attendees, creator.Email)

	ev, err := c.calendar.CreateEvent(ctx, *creator, calendar.EventRequest{
		Summary:           req.Name,
		Description:       req.Description,
		StartAt:           req.StartAt,
		EndAt:             req.EndAt,
		TimeZone:          req.TimeZone,
		Attendees:         invited,
		VideoConferencing: true,
	})
	if err != nil {
		log.WithFields(log.Fields{
			"user_id":  creator.ID,
			"pulse_id": pulse.ID,
		}).Errorf("calendar event creation failed: %v", err)
		return nil, &GatewayError{Gateway: "calendar", Err: err}
	}

	emails := make([]string, 0, len(invited))
	for _, a := range invited {
		emails = append(emails, a.Email)
	}
	known, err := dir.FindUsersByEmails(ctx, emails)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve attendees")
	}

	rows := make([]model.Attendee, 0, len(invited))
	var unresolved []string
	for _, a := range invited {
		row := model.Attendee{Email: a.Email, ResponseStatus: a.ResponseStatus}
		if u, ok := known[a.Email]; ok {
			row.UserID = u.ID
		} else {
			row.External = true
			unresolved = append(unresolved, a.Email)
		}
		rows = append(rows, row)
	}

	s := &model.Session{
		ID:              uuid.NewString(),
		MeetingID:       uuid.NewString(),
		Type:            typ,
		Status:          model.StatusLive,
		OrganizationID:  req.OrganizationID,
		PulseID:         req.PulseID,
		UserID:          creator.ID,
		Name:            req.Name,
		Description:     req.Description,
		MeetingURL:      ev.Link,
		CalendarEventID: ev.ID,
		Passcode:        req.Passcode,
		MeetingType:     req.MeetingType,
		StartAt:         req.StartAt.UTC(),
		EndAt:           req.EndAt.UTC(),
	}

	err = c.store.Transaction(ctx, func(tx storage.Interface) error {
		if err := tx.Sessions().Create(ctx, s); err != nil {
			return errors.Wrap(err, "failed to store session")
		}
		stored, err := tx.Attendees().AddAll(ctx, s.ID, rows)
		if err != nil {
			return errors.Wrap(err, "failed to store attendees")
		}
		s.Attendees = stored
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(unresolved) > 0 {
		log.WithFields(log.Fields{
			"session_id": s.ID,
			"emails":     unresolved,
		}).Warn("attendees without a matching user are not notified")
	}

	log.WithFields(log.Fields{
		"session_id": s.ID,
		"meeting_id": s.MeetingID,
		"type":       s.Type.String(),
		"attendees":  len(s.Attendees),
	}).Info("session created")
	metrics.RecordTransition("NONE", s.Status.String())

	chs := userChannels(s)
	chs = append(chs, channels.Pulse(s.PulseID))
	c.fanout(ctx, EventSessionStarted, s, newSessionPayload(s), chs...)

	return s, nil
}

// UpdateStatus propagates a status change to the companion, persists it and
// fans it out. Nothing is persisted or broadcast when the companion call
// fails.
func (c *Coordinator) UpdateStatus(ctx context.Context, id string, next model.Status) (*model.Session, error) {
	defer c.lock(id)()

	s, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.Status.CanTransitionTo(next) {
		return nil, &TransitionError{From: s.Status, To: next}
	}

	if err := c.propagate(ctx, s, next); err != nil {
		if companion.IsNotFound(err) {
			log.WithFields(log.Fields{
				"session_id": s.ID,
				"meeting_id": s.MeetingID,
			}).Warn("companion has no live resource for session")
			return nil, errors.Wrapf(ErrSessionNotFound, "no live companion for meeting %s", s.MeetingID)
		}
		return nil, &GatewayError{Gateway: "companion", Err: err}
	}

	return c.apply(ctx, s, next)
}

// Reconcile records a status the companion has already reached, e.g. a
// recording that finished on its own. The companion is not called.
func (c *Coordinator) Reconcile(ctx context.Context, id string, next model.Status) (*model.Session, error) {
	defer c.lock(id)()

	s, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.Status.CanTransitionTo(next) {
		return nil, &TransitionError{From: s.Status, To: next}
	}

	return c.apply(ctx, s, next)
}

// Get returns a session with its attendees.
func (c *Coordinator) Get(ctx context.Context, id string) (*model.Session, error) {
	return c.load(ctx, id)
}

// List returns the sessions in the given statuses, all sessions if none are
// given, oldest first.
func (c *Coordinator) List(ctx context.Context, statuses ...model.Status) ([]model.Session, error) {
	var (
		found map[string]model.Session
		err   error
	)
	if len(statuses) == 0 {
		found, err = c.store.Sessions().FetchAll(ctx)
	} else {
		found, err = c.store.Sessions().FetchByStatus(ctx, statuses...)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sessions")
	}

	list := make([]model.Session, 0, len(found))
	for _, s := range found {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (c *Coordinator) load(ctx context.Context, id string) (*model.Session, error) {
	s, err := c.store.Sessions().FindByID(ctx, id)
	if err == storage.ErrNotFound {
		return nil, errors.Wrapf(ErrSessionNotFound, "session %s", id)
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to load session")
	}

	s.Attendees, err = c.store.Attendees().FetchBySession(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load attendees")
	}
	return s, nil
}

func (c *Coordinator) propagate(ctx context.Context, s *model.Session, next model.Status) error {
	switch {
	case next == model.StatusActive && s.Status == model.StatusLive:
		req, err := c.startRequest(ctx, s)
		if err != nil {
			return err
		}
		return c.companion.Start(ctx, req)
	case next == model.StatusActive && s.Status == model.StatusPaused:
		return c.companion.Resume(ctx, s.MeetingID)
	case next == model.StatusPaused:
		return c.companion.Pause(ctx, s.MeetingID)
	case next.Terminal():
		return c.companion.Stop(ctx, s.MeetingID)
	}
	return errors.Errorf("no companion operation for %s to %s", s.Status, next)
}

func (c *Coordinator) apply(ctx context.Context, s *model.Session, next model.Status) (*model.Session, error) {
	prev := s.Status
	at := c.now().Round(time.Second).UTC()

	switch err := c.store.Sessions().UpdateStatus(ctx, s.ID, prev, next, at); err {
	case nil:
	case storage.ErrNotFound:
		return nil, errors.Wrapf(ErrSessionNotFound, "session %s", s.ID)
	case storage.ErrConflict:
		// another node moved the session since it was loaded
		cur, lerr := c.store.Sessions().FindByID(ctx, s.ID)
		if lerr != nil {
			return nil, errors.Wrap(lerr, "failed to reload session")
		}
		log.WithFields(log.Fields{
			"session_id": s.ID,
			"expected":   prev.String(),
			"actual":     cur.Status.String(),
		}).Warn("session status changed concurrently")
		return nil, &TransitionError{From: cur.Status, To: next}
	default:
		return nil, errors.Wrap(err, "failed to persist status")
	}

	s.Status = next
	s.UpdatedAt = at

	log.WithFields(log.Fields{
		"session_id": s.ID,
		"from":       prev.String(),
		"to":         next.String(),
	}).Info("session status changed")
	metrics.RecordTransition(prev.String(), next.String())

	payload := newSessionPayload(s)
	payload.PreviousStatus = prev.String()
	c.fanout(ctx, EventSessionStatusChanged, s, payload, channels.Session(s.ID), channels.Pulse(s.PulseID))

	if s.Type == model.TypeCollab {
		switch {
		case next.Terminal():
			c.fanout(ctx, EventCollabEnded, s, payload, userChannels(s)...)
		case next == model.StatusPaused || prev == model.StatusPaused:
			c.fanout(ctx, EventCollabToggled, s, payload, userChannels(s)...)
		}
	}

	return s, nil
}

// fanout never fails the calling operation.
func (c *Coordinator) fanout(ctx context.Context, event string, s *model.Session, payload interface{}, chs ...channels.Channel) {
	if c.broadcast == nil || len(chs) == 0 {
		return
	}
	if err := c.broadcast.Broadcast(ctx, event, s.ID, payload, chs...); err != nil {
		log.WithFields(log.Fields{
			"session_id": s.ID,
			"event":      event,
		}).Warnf("broadcast incomplete: %v", err)
	}
}

func userChannels(s *model.Session) []channels.Channel {
	ids := s.ResolvedUserIDs()
	chs := make([]channels.Channel, 0, len(ids))
	for _, id := range ids {
		chs = append(chs, channels.UserNotification(id))
	}
	return chs
}

func (c *Coordinator) startRequest(ctx context.Context, s *model.Session) (companion.StartRequest, error) {
	name, err := c.companionName(ctx, s)
	if err != nil {
		return companion.StartRequest{}, err
	}

	return companion.StartRequest{
		MeetingID:     s.MeetingID,
		MeetURL:       s.MeetingURL,
		CompanionName: name,
		Keyterms:      c.keyterms(ctx, s),
		Passcode:      s.Passcode,
		MeetingType:   s.MeetingType,
	}, nil
}

// companionName is "<organization> Pulse - <pulse>". Personal pulses are
// named after their owner.
func (c *Coordinator) companionName(ctx context.Context, s *model.Session) (string, error) {
	dir := c.store.Directory()

	orgName := ""
	org, err := dir.FindOrganizationByID(ctx, s.OrganizationID)
	if err == nil {
		orgName = org.Name
	} else if err != storage.ErrNotFound {
		return "", errors.Wrap(err, "failed to load organization")
	}

	pulseName := "Unknown Pulse"
	pulse, err := dir.FindPulseByID(ctx, s.PulseID)
	switch {
	case err == nil:
		pulseName = pulse.Name
		if pulse.Category == model.PulseCategoryPersonal {
			owner, err := dir.PulseOwner(ctx, pulse.ID)
			if err == nil {
				pulseName = owner.Name
			} else if err != storage.ErrNotFound {
				return "", errors.Wrap(err, "failed to load pulse owner")
			}
		}
	case err != storage.ErrNotFound:
		return "", errors.Wrap(err, "failed to load pulse")
	}

	return orgName + " Pulse - " + pulseName, nil
}

// keyterms are the attendee names, or the local part of the address for
// attendees without a user.
func (c *Coordinator) keyterms(ctx context.Context, s *model.Session) []string {
	emails := make([]string, 0, len(s.Attendees))
	for _, a := range s.Attendees {
		emails = append(emails, a.Email)
	}

	known, err := c.store.Directory().FindUsersByEmails(ctx, emails)
	if err != nil {
		log.WithField("session_id", s.ID).Warnf("failed to load attendee names: %v", err)
		known = map[string]model.User{}
	}

	names := make([]string, 0, len(emails))
	for _, email := range emails {
		if u, ok := known[email]; ok && u.Name != "" {
			names = append(names, u.Name)
			continue
		}
		if i := strings.Index(email, "@"); i > 0 {
			names = append(names, email[:i])
		}
	}
	return companion.Keyterms(names)
}

package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/metrics"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	// DefaultAPIURL is the Google Calendar v3 API root
	DefaultAPIURL = "https://www.googleapis.com/calendar/v3"
	// DefaultTokenURL is the Google OAuth2 token endpoint
	DefaultTokenURL = "https://oauth2.googleapis.com/token"
)

var (
	// ErrNotAuthorized is returned when the owner never connected a calendar
	ErrNotAuthorized = errors.New("calendar not authorized for user")
	// ErrNoMeetingLink is returned when the provider created the event
	// without a conference link
	ErrNoMeetingLink = errors.New("calendar event has no meeting link")
)

// Config holds the calendar provider settings
type Config struct {
	APIURL       string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// EventAttendee is an invitee of a calendar event
type EventAttendee struct {
	Email          string `json:"email"`
	ResponseStatus string `json:"responseStatus,omitempty"`
}

// EventRequest describes the calendar event to create
type EventRequest struct {
	Summary           string
	Description       string
	StartAt           time.Time
	EndAt             time.Time
	TimeZone          string
	Attendees         []EventAttendee
	VideoConferencing bool
}

// Event is the created calendar event
type Event struct {
	ID   string
	Link string
}

// Client creates events in the owner's primary calendar
type Client struct {
	cfg   Config
	oauth *oauth2.Config
}

// NewClient creates a calendar client.
func NewClient(cfg Config) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			Scopes: []string{"https://www.googleapis.com/auth/calendar.events"},
		},
	}
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

type createRequest struct {
	RequestID             string `json:"requestId"`
	ConferenceSolutionKey struct {
		Type string `json:"type"`
	} `json:"conferenceSolutionKey"`
}

type conferenceData struct {
	CreateRequest *createRequest `json:"createRequest,omitempty"`
	EntryPoints   []struct {
		EntryPointType string `json:"entryPointType"`
		URI            string `json:"uri"`
	} `json:"entryPoints,omitempty"`
}

type eventBody struct {
	ID             string          `json:"id,omitempty"`
	Summary        string          `json:"summary,omitempty"`
	Description    string          `json:"description,omitempty"`
	Start          *eventTime      `json:"start,omitempty"`
	End            *eventTime      `json:"end,omitempty"`
	Attendees      []EventAttendee `json:"attendees,omitempty"`
	ConferenceData *conferenceData `json:"conferenceData,omitempty"`
	HangoutLink    string          `json:"hangoutLink,omitempty"`
	HTMLLink       string          `json:"htmlLink,omitempty"`
}

func (b *eventBody) meetingLink() string {
	if b.HangoutLink != "" {
		return b.HangoutLink
	}
	if b.ConferenceData != nil {
		for _, ep := range b.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" && ep.URI != "" {
				return ep.URI
			}
		}
	}
	return ""
}

// CreateEvent inserts an event into the owner's primary calendar and returns
// its ID and join link.
func (c *Client) CreateEvent(ctx context.Context, owner model.User, req EventRequest) (ev *Event, err error) {
	if owner.CalendarRefreshToken == "" {
		return nil, ErrNotAuthorized
	}
	defer func(start time.Time) { metrics.ObserveGatewayCall("calendar", "create_event", start, err) }(time.Now())

	tz := req.TimeZone
	if tz == "" {
		tz = owner.Timezone
	}
	if tz == "" {
		tz = "UTC"
	}

	body := eventBody{
		Summary:     req.Summary,
		Description: req.Description,
		Start:       &eventTime{DateTime: req.StartAt.Format(time.RFC3339), TimeZone: tz},
		End:         &eventTime{DateTime: req.EndAt.Format(time.RFC3339), TimeZone: tz},
		Attendees:   req.Attendees,
	}
	if req.VideoConferencing {
		cr := &createRequest{RequestID: uuid.New().String()}
		cr.ConferenceSolutionKey.Type = "hangoutsMeet"
		body.ConferenceData = &conferenceData{CreateRequest: cr}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode calendar event")
	}

	params := url.Values{}
	params.Set("sendUpdates", "all")
	if req.VideoConferencing {
		params.Set("conferenceDataVersion", "1")
	}
	endpoint := fmt.Sprintf("%s/calendars/primary/events?%s", strings.TrimRight(c.cfg.APIURL, "/"), params.Encode())

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build calendar request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	ts := c.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: owner.CalendarRefreshToken})
	res, err := oauth2.NewClient(ctx, ts).Do(httpReq)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			return nil, errors.Wrap(ErrNotAuthorized, rerr.Error())
		}
		return nil, errors.Wrap(err, "calendar request failed")
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read calendar response")
	}
	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
		return nil, errors.Wrapf(ErrNotAuthorized, "calendar answered %d", res.StatusCode)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, errors.Errorf("calendar event create failed with status %d: %s", res.StatusCode, string(raw))
	}

	created := eventBody{}
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, errors.Wrap(err, "failed to decode calendar event")
	}

	link := created.meetingLink()
	if req.VideoConferencing && link == "" {
		return nil, ErrNoMeetingLink
	}
	if link == "" {
		link = created.HTMLLink
	}

	log.WithFields(log.Fields{
		"user_id":  owner.ID,
		"event_id": created.ID,
	}).Info("calendar event created")

	return &Event{ID: created.ID, Link: link}, nil
}

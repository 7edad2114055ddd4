package companion

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/metrics"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Config holds the companion endpoints
type Config struct {
	StartURL      string
	StopURL       string
	PauseURL      string
	ResumeURL     string
	RecordingsURL string

	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// Client talks to the meeting companion service
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a companion client. Zero values in cfg fall back to a
// 30 second timeout and three recordings attempts two seconds apart.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Start invites the companion into the meeting.
func (c *Client) Start(ctx context.Context, req StartRequest) error {
	log.WithFields(log.Fields{
		"meeting_id":     req.MeetingID,
		"companion_name": req.CompanionName,
		"keyterms":       len(req.Keyterms),
	}).Info("companion start requested")

	return c.post(ctx, "start", c.cfg.StartURL, req)
}

// Stop asks the companion to leave the meeting.
func (c *Client) Stop(ctx context.Context, meetingID string) error {
	return c.post(ctx, "stop", c.cfg.StopURL, meetingRequest{MeetingID: meetingID})
}

// Pause suspends recording of the meeting.
func (c *Client) Pause(ctx context.Context, meetingID string) error {
	return c.post(ctx, "pause", c.cfg.PauseURL, meetingRequest{MeetingID: meetingID})
}

// Resume continues recording of a paused meeting.
func (c *Client) Resume(ctx context.Context, meetingID string) error {
	return c.post(ctx, "resume", c.cfg.ResumeURL, meetingRequest{MeetingID: meetingID})
}

// Recordings fetches the companion's recordings list, retrying failed
// attempts.
func (c *Client) Recordings(ctx context.Context) ([]Recording, error) {
	var lastErr error

	for attempt := 1; attempt <= c.cfg.RetryAttempts; attempt++ {
		recordings, err := c.fetchRecordings(ctx)
		if err == nil {
			return recordings, nil
		}
		lastErr = err

		log.WithFields(log.Fields{
			"attempt":      attempt,
			"max_attempts": c.cfg.RetryAttempts,
			"url":          c.cfg.RecordingsURL,
		}).Warnf("companion recordings request failed: %v", err)

		if attempt == c.cfg.RetryAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.cfg.RetryDelay):
		}
	}

	return nil, errors.Wrapf(lastErr, "companion recordings failed after %d attempts", c.cfg.RetryAttempts)
}

// Healthy reports whether the recordings endpoint answers successfully.
func (c *Client) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.RecordingsURL, nil)
	if err != nil {
		return false
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		log.WithField("url", c.cfg.RecordingsURL).Warnf("companion health check failed: %v", err)
		return false
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)

	return res.StatusCode >= 200 && res.StatusCode < 300
}

func (c *Client) fetchRecordings(ctx context.Context) (recordings []Recording, err error) {
	defer func(start time.Time) { metrics.ObserveGatewayCall("companion", "recordings", start, err) }(time.Now())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.RecordingsURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build recordings request")
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "recordings request failed")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read recordings response")
	}
	if res.StatusCode != http.StatusOK {
		return nil, &Error{Op: "recordings", StatusCode: res.StatusCode, Body: string(body)}
	}

	reply := recordingsReply{}
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, errors.Wrap(err, "failed to decode recordings response")
	}

	return reply.Recordings, nil
}

func (c *Client) post(ctx context.Context, op, url string, payload interface{}) (err error) {
	defer func(start time.Time) { metrics.ObserveGatewayCall("companion", op, start, err) }(time.Now())

	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "failed to encode companion %s request", op)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return errors.Wrapf(err, "failed to build companion %s request", op)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "companion %s request failed", op)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode != http.StatusOK {
		log.WithFields(log.Fields{
			"operation": op,
			"status":    res.StatusCode,
		}).Errorf("companion error: %s", string(body))
		return &Error{Op: op, StatusCode: res.StatusCode, Body: string(body)}
	}

	log.WithField("operation", op).Info("companion request complete")
	return nil
}

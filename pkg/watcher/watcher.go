// Package watcher ends sessions whose companion recording has finished on
// its own.
package watcher

import (
	"context"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/gateway/companion"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/lifecycle"
	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	log "github.com/sirupsen/logrus"
)

// DefaultInterval is the default polling period
const DefaultInterval = 30 * time.Second

// RecordingSource lists the companion's recordings
type RecordingSource interface {
	Recordings(ctx context.Context) ([]companion.Recording, error)
}

// Reconciler records externally reached statuses
type Reconciler interface {
	List(ctx context.Context, statuses ...model.Status) ([]model.Session, error)
	Reconcile(ctx context.Context, id string, next model.Status) (*model.Session, error)
}

type Watcher struct {
	source   RecordingSource
	sessions Reconciler
	interval time.Duration
}

func New(source RecordingSource, sessions Reconciler, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		source:   source,
		sessions: sessions,
		interval: interval,
	}
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	log.WithField("interval", w.interval.String()).Info("companion watcher started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("companion watcher stopped")
			return nil
		case <-ticker.C:
			if _, err := w.Check(ctx); err != nil {
				log.Warnf("companion watcher check failed: %v", err)
			}
		}
	}
}

// Check runs one poll and returns the number of sessions it ended.
func (w *Watcher) Check(ctx context.Context) (int, error) {
	open, err := w.sessions.List(ctx, model.StatusActive, model.StatusPaused)
	if err != nil {
		return 0, err
	}
	if len(open) == 0 {
		return 0, nil
	}

	recordings, err := w.source.Recordings(ctx)
	if err != nil {
		return 0, err
	}

	finished := make(map[string]companion.Recording, len(recordings))
	for _, r := range recordings {
		if r.Finished() {
			finished[r.MeetingID] = r
		}
	}

	ended := 0
	for _, s := range open {
		r, ok := finished[s.MeetingID]
		if !ok {
			continue
		}

		if _, err := w.sessions.Reconcile(ctx, s.ID, model.StatusEnded); err != nil {
			if lifecycle.IsTransition(err) {
				continue
			}
			log.WithField("session_id", s.ID).Errorf("failed to end finished session: %v", err)
			continue
		}

		log.WithFields(log.Fields{
			"session_id":              s.ID,
			"meeting_id":              s.MeetingID,
			"recording_status":        r.Status,
			"transcription_generated": r.TranscriptionGenerated,
		}).Info("companion finished, session ended")
		ended++
	}

	return ended, nil
}

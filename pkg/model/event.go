package model

import "time"

const SourceTypeSession = "SESSION"

// Event is the log row of a broadcast delivered to a channel
type Event struct {
	ID         string
	Channel    string
	Name       string
	SourceType string
	SourceID   string
	Timestamp  time.Time
	Details    string

	CreatedAt time.Time
}

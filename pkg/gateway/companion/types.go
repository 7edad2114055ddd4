package companion

import "strings"

// StartRequest invites the companion bot into a meeting
type StartRequest struct {
	MeetingID     string   `json:"meeting_id"`
	MeetURL       string   `json:"meetUrl"`
	CompanionName string   `json:"companionName"`
	Keyterms      []string `json:"keyterms"`
	Passcode      string   `json:"passcode,omitempty"`
	MeetingType   string   `json:"meetingType,omitempty"`
}

type meetingRequest struct {
	MeetingID string `json:"meeting_id"`
}

// Recording is the companion's view of a meeting it joined
type Recording struct {
	MeetingID              string `json:"meeting_id"`
	Status                 string `json:"status"`
	TranscriptionGenerated bool   `json:"transcription_generated"`
}

// Finished reports whether the companion has left the meeting for good.
func (r Recording) Finished() bool {
	switch strings.ToLower(r.Status) {
	case "completed", "finished", "ended", "stopped":
		return true
	}
	return false
}

type recordingsReply struct {
	Recordings []Recording `json:"recordings"`
}

// Keyterms builds the transcription hint list from attendee names. Names are
// trimmed and deduplicated case-insensitively, keeping the first spelling.
func Keyterms(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

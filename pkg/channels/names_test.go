package channels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		want Channel
	}{
		{"meeting-session.s-1", Session("s-1")},
		{"pulse.p-1", Pulse("p-1")},
		{"pulse-notification.p-1", Channel{Resource: ResourcePulse, Notification: true, ID: "p-1"}},
		{"organization.o-1", Organization("o-1")},
		{"organization-notification.o-1", Channel{Resource: ResourceOrganization, Notification: true, ID: "o-1"}},
		{"user-notification.u-1", UserNotification("u-1")},
	}

	for _, tt := range tests {
		got, err := Parse(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.name, got.String())
	}
}

func TestParseInvalid(t *testing.T) {
	for _, name := range []string{
		"",
		"pulse",
		"pulse.",
		".p-1",
		"task.t-1",
		"user.u-1",
		"meeting-session-notification.s-1",
		"pulse.p.1",
		"pulse.*",
	} {
		_, err := Parse(name)
		assert.True(t, IsInvalidChannel(err), name)
	}
}

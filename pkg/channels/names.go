package channels

import (
	"fmt"
	"strings"
)

// Resource is the kind of entity a channel is scoped to
type Resource string

const (
	ResourceSession      Resource = "meeting-session"
	ResourcePulse        Resource = "pulse"
	ResourceOrganization Resource = "organization"
	ResourceUser         Resource = "user"
)

const notificationSuffix = "-notification"

var resources = map[Resource]bool{
	ResourceSession:      true,
	ResourcePulse:        true,
	ResourceOrganization: true,
	ResourceUser:         true,
}

// Channel is a parsed broadcast channel name
type Channel struct {
	Resource     Resource
	Notification bool
	ID           string
}

// InvalidChannelError is returned for unparsable channel names
type InvalidChannelError struct {
	Name string
}

func (e *InvalidChannelError) Error() string {
	return fmt.Sprintf("invalid channel '%s'", e.Name)
}

// IsInvalidChannel reports whether err is an InvalidChannelError.
func IsInvalidChannel(err error) bool {
	_, ok := err.(*InvalidChannelError)
	return ok
}

// Parse converts "<resource>.<id>" or "<resource>-notification.<id>" into a
// Channel.
func Parse(name string) (Channel, error) {
	i := strings.Index(name, ".")
	if i <= 0 || i == len(name)-1 {
		return Channel{}, &InvalidChannelError{Name: name}
	}

	prefix, id := name[:i], name[i+1:]
	if strings.ContainsAny(id, ".*> \t") {
		return Channel{}, &InvalidChannelError{Name: name}
	}

	ch := Channel{ID: id}
	if strings.HasSuffix(prefix, notificationSuffix) {
		ch.Notification = true
		prefix = strings.TrimSuffix(prefix, notificationSuffix)
	}
	ch.Resource = Resource(prefix)

	if !resources[ch.Resource] {
		return Channel{}, &InvalidChannelError{Name: name}
	}
	// user channels exist only in their notification form
	if ch.Resource == ResourceUser && !ch.Notification {
		return Channel{}, &InvalidChannelError{Name: name}
	}
	if ch.Resource == ResourceSession && ch.Notification {
		return Channel{}, &InvalidChannelError{Name: name}
	}

	return ch, nil
}

func (c Channel) String() string {
	if c.Notification {
		return string(c.Resource) + notificationSuffix + "." + c.ID
	}
	return string(c.Resource) + "." + c.ID
}

// Session returns the status channel of a session.
func Session(id string) Channel {
	return Channel{Resource: ResourceSession, ID: id}
}

// Pulse returns the channel of a pulse.
func Pulse(id string) Channel {
	return Channel{Resource: ResourcePulse, ID: id}
}

// Organization returns the channel of an organization.
func Organization(id string) Channel {
	return Channel{Resource: ResourceOrganization, ID: id}
}

// UserNotification returns the private notification channel of a user.
func UserNotification(id string) Channel {
	return Channel{Resource: ResourceUser, Notification: true, ID: id}
}

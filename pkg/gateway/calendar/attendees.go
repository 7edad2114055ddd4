package calendar

import (
	"net/mail"
	"strings"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	log "github.com/sirupsen/logrus"
)

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether email is a bare address without display name.
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email && strings.Contains(email[strings.LastIndex(email, "@"):], ".")
}

// PrepareAttendees normalizes the invited addresses, drops invalid ones and
// duplicates, and appends the creator as accepted if not invited already.
func PrepareAttendees(emails []string, creatorEmail string) []EventAttendee {
	creator := NormalizeEmail(creatorEmail)
	seen := make(map[string]bool, len(emails)+1)
	out := make([]EventAttendee, 0, len(emails)+1)

	for _, e := range emails {
		email := NormalizeEmail(e)
		if email == "" {
			continue
		}
		if !ValidEmail(email) {
			log.WithField("email", e).Warn("dropping invalid attendee email")
			continue
		}
		if seen[email] {
			continue
		}
		seen[email] = true

		status := model.ResponseNeedsAction
		if email == creator {
			status = model.ResponseAccepted
		}
		out = append(out, EventAttendee{Email: email, ResponseStatus: status})
	}

	if creator != "" && !seen[creator] {
		out = append(out, EventAttendee{Email: creator, ResponseStatus: model.ResponseAccepted})
	}

	return out
}

package companion

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Error is returned when the companion answers with a non-200 status
type Error struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("companion %s failed with status %d: %s", e.Op, e.StatusCode, e.Body)
}

// IsNotFound reports whether the companion has no live resource for the
// meeting.
func IsNotFound(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

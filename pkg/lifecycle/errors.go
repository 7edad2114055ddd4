package lifecycle

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when a referenced user, pulse or organization
	// does not exist
	ErrNotFound = errors.New("not found")
	// ErrSessionNotFound is returned when the session or its live companion
	// resource does not exist
	ErrSessionNotFound = errors.New("session not found")
	// ErrGateway is matched by every GatewayError
	ErrGateway = errors.New("gateway failure")
)

// GatewayError wraps a failed calendar or companion call
type GatewayError struct {
	Gateway string
	Err     error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s gateway: %v", e.Gateway, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func (e *GatewayError) Is(target error) bool {
	return target == ErrGateway
}

// TransitionError is returned for status changes the lifecycle forbids
type TransitionError struct {
	From model.Status
	To   model.Status
}

func (e *TransitionError) Error() string {
	if e.From.Terminal() {
		return fmt.Sprintf("session is %s and accepts no further transitions", e.From)
	}
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// ValidationError lists the invalid fields of a request
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsTransition reports whether err is a TransitionError.
func IsTransition(err error) bool {
	var t *TransitionError
	return errors.As(err, &t)
}

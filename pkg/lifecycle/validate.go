package lifecycle

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/Jose-offshrly/zunou-services-sub021/pkg/model"
	"github.com/go-playground/validator/v10"
)

// CreateRequest opens a new meeting or collaboration session
type CreateRequest struct {
	OrganizationID string    `json:"organizationId" validate:"required"`
	PulseID        string    `json:"pulseId" validate:"required"`
	UserID         string    `json:"userId" validate:"required"`
	Name           string    `json:"name" validate:"required,max=255"`
	Description    string    `json:"description" validate:"max=4096"`
	Type           string    `json:"type"`
	StartAt        time.Time `json:"startAt" validate:"required"`
	EndAt          time.Time `json:"endAt" validate:"required,gtfield=StartAt"`
	TimeZone       string    `json:"timeZone"`
	Passcode       string    `json:"passcode" validate:"max=64"`
	MeetingType    string    `json:"meetingType"`
	Attendees      []string  `json:"attendees" validate:"max=200"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (r *CreateRequest) validate() (model.Type, error) {
	fields := map[string]string{}

	if err := validate.Struct(r); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return 0, err
		}
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
	}

	typ, err := model.ParseType(r.Type)
	if err != nil {
		fields["type"] = "must be MEETING or COLLAB"
	}
	if r.TimeZone != "" {
		if _, err := time.LoadLocation(r.TimeZone); err != nil {
			fields["timeZone"] = "is not a known time zone"
		}
	}

	if len(fields) > 0 {
		return 0, &ValidationError{Fields: fields}
	}
	return typ, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at most %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gtfield":
		return "must be after startAt"
	}
	return "is invalid"
}

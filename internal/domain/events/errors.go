package events

import "errors"

var ErrOrganizerNotFound = errors.New("organizer not found")

// FieldError is a validation failure tied to a single input field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

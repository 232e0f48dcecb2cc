package attendance

import "errors"

var (
	ErrNotFound        = errors.New("attendance record not found")
	ErrUnknownAction   = errors.New("unknown attendance action")
	ErrInvalidStatus   = errors.New("invalid attendance status")
	ErrUnknownEmployee = errors.New("employee does not exist")
	ErrInvalidOvertime = errors.New("overtime hours must be between 0 and 24")

	ErrTransitionMismatch = errors.New("stored attendance disagrees with clock transition")
)

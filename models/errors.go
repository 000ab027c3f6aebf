package models

import "errors"

// Domain errors raised by persistence-time guards. State-transition methods
// return plain booleans instead; callers decide how to report a refused
// transition.
var (
	ErrScheduleConflict = errors.New("the selected time slot is not available, please choose a different time")
	ErrPastAppointment  = errors.New("appointment date must be in the future for pending or confirmed appointments")
	ErrInvalidEmail     = errors.New("invalid email address format")
)

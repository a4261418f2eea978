package presence

import "errors"

var (
	// ErrUnknownFaculty is returned when an operation references an id absent from the directory.
	ErrUnknownFaculty = errors.New("unknown faculty id")
	// ErrNotCheckedIn is returned when a status or location change is attempted while offline.
	ErrNotCheckedIn = errors.New("faculty member is not checked in")
	// ErrAlreadyCheckedIn is returned by CheckIn on a record that is already checked in.
	ErrAlreadyCheckedIn = errors.New("faculty member is already checked in")
	// ErrInvalidStatus is returned for a status outside available, teaching and meeting.
	ErrInvalidStatus = errors.New("invalid presence status")
	// ErrAutoLocationEnabled is returned when a manual location is set while auto-location is on.
	ErrAutoLocationEnabled = errors.New("auto-location is enabled")
	// ErrInvalidLocation is returned for an empty manual location.
	ErrInvalidLocation = errors.New("location must not be empty")
)

package model

import "fmt"

// Status is the presence state of a faculty member.
type Status string

const (
	StatusAvailable Status = "available"
	StatusTeaching  Status = "teaching"
	StatusMeeting   Status = "meeting"
	StatusOffline   Status = "offline"
)

// Statuses lists every recognized status in display order.
var Statuses = []Status{StatusAvailable, StatusTeaching, StatusMeeting, StatusOffline}

// Valid reports whether s is one of the recognized statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusTeaching, StatusMeeting, StatusOffline:
		return true
	}
	return false
}

// Active reports whether s is a checked-in status.
func (s Status) Active() bool {
	return s.Valid() && s != StatusOffline
}

// ParseStatus converts a raw string into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unrecognized status %q", raw)
	}
	return s, nil
}

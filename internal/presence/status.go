package presence

import (
	"fmt"
	"time"

	"faculty-locator-backend/internal/model"
)

// ManualLocationRequired is the location shown after a check-in without auto-location
// when the holder did not supply one.
const ManualLocationRequired = "Manual location required"

// DisplayStatusText maps a status to its human-readable description.
func DisplayStatusText(s model.Status) string {
	switch s {
	case model.StatusAvailable:
		return "Available for consultation"
	case model.StatusTeaching:
		return "Currently teaching"
	case model.StatusMeeting:
		return "In meeting"
	case model.StatusOffline:
		return "Not available"
	default:
		return "Unknown status"
	}
}

// ElapsedSince returns how long the record has been checked in at now.
// ok is false when the record is not checked in.
func ElapsedSince(rec model.PresenceRecord, now time.Time) (elapsed time.Duration, ok bool) {
	if !rec.IsCheckedIn || rec.CheckedInAt == nil {
		return 0, false
	}
	elapsed = now.Sub(*rec.CheckedInAt)
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed, true
}

// FormatElapsed renders a duration as "2h 5m", or "5m" under an hour.
func FormatElapsed(d time.Duration) string {
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// Validate checks the record against the presence invariants.
func Validate(rec model.PresenceRecord) error {
	if !rec.Status.Valid() {
		return fmt.Errorf("record %s: %w: %q", rec.FacultyID, ErrInvalidStatus, rec.Status)
	}
	if rec.IsCheckedIn != rec.Status.Active() {
		return fmt.Errorf("record %s: checked-in flag %t disagrees with status %s", rec.FacultyID, rec.IsCheckedIn, rec.Status)
	}
	if rec.IsCheckedIn {
		if rec.CheckedInAt == nil {
			return fmt.Errorf("record %s: checked in without a check-in time", rec.FacultyID)
		}
		return nil
	}
	if rec.CheckedInAt != nil || rec.Location != "" || rec.SessionID != "" {
		return fmt.Errorf("record %s: offline record carries session data", rec.FacultyID)
	}
	return nil
}

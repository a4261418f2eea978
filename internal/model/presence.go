package model

import "time"

// PresenceRecord is the live presence state of one faculty member (hot table).
type PresenceRecord struct {
	FacultyID    string     `gorm:"primaryKey;size:64" json:"facultyId"`
	Status       Status     `gorm:"size:16;not null" json:"status"`
	IsCheckedIn  bool       `gorm:"not null" json:"isCheckedIn"`
	CheckedInAt  *time.Time `json:"checkedInAt"`
	Location     string     `gorm:"size:256;not null" json:"location"`
	AutoLocation bool       `gorm:"not null" json:"autoLocation"`
	SessionID    string     `gorm:"size:36" json:"sessionId,omitempty"`
	LastSeenAt   time.Time  `json:"lastSeenAt"`
}

// NewPresenceRecord returns the offline record a member starts with.
func NewPresenceRecord(facultyID string) PresenceRecord {
	return PresenceRecord{
		FacultyID:    facultyID,
		Status:       StatusOffline,
		AutoLocation: true,
	}
}

// PresenceHistory is an archived check-in session (cold table).
type PresenceHistory struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FacultyID   string    `gorm:"size:64;not null;index" json:"facultyId"`
	SessionID   string    `gorm:"size:36;not null" json:"sessionId"`
	Status      Status    `gorm:"size:16;not null" json:"status"` // Status held when the session ended
	Location    string    `gorm:"size:256;not null" json:"location"`
	PeriodStart time.Time `gorm:"not null" json:"periodStart"`
	PeriodEnd   time.Time `gorm:"not null;index" json:"periodEnd"`
}

package model

import "time"

// PushSubscription holds a browser push subscription watching faculty members.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Faculty []*FacultyMember `gorm:"many2many:subscription_faculty_mapping;"`
}

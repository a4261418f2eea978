package model

import "time"

// Building groups faculty members on the campus map.
type Building struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Position    int       `gorm:"not null" json:"-"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Coordinates Point     `gorm:"embedded;embeddedPrefix:coord_" json:"coordinates"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`

	// Associations
	Members []FacultyMember `gorm:"foreignKey:BuildingID" json:"-"`
}

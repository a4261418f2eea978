package model

import "time"

// Point is a normalized position on the schematic campus map, both axes in [0,1].
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// InUnitSquare reports whether the point lies on the map.
func (p Point) InUnitSquare() bool {
	return p.X >= 0 && p.X <= 1 && p.Y >= 0 && p.Y <= 1
}

// FacultyMember holds the static directory entry of a faculty member.
type FacultyMember struct {
	ID              string    `gorm:"primaryKey;size:64" json:"id"`
	Position        int       `gorm:"not null;index" json:"-"` // Canonical directory order
	Name            string    `gorm:"size:256;not null" json:"name"`
	Department      string    `gorm:"size:128;not null;index" json:"department"`
	Office          string    `gorm:"size:64" json:"office"`
	Email           string    `gorm:"size:256" json:"email"`
	Phone           string    `gorm:"size:64" json:"phone"`
	Specializations []string  `gorm:"serializer:json" json:"specializations"`
	NextClass       string    `gorm:"size:256" json:"nextClass,omitempty"`
	Coordinates     Point     `gorm:"embedded;embeddedPrefix:coord_" json:"coordinates"`
	BuildingID      *string   `gorm:"size:64;index" json:"buildingId,omitempty"` // NULL when unplaced
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

// BuildingRef returns the id of the member's building, or "" when unplaced.
func (m FacultyMember) BuildingRef() string {
	if m.BuildingID == nil {
		return ""
	}
	return *m.BuildingID
}

// PlaceIn returns a BuildingID value for id. An empty id leaves the member unplaced.
func PlaceIn(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

package seed

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"faculty-locator-backend/internal/model"
)

// File is the on-disk layout of a directory seed.
type File struct {
	Buildings []BuildingEntry `yaml:"buildings"`
	Faculty   []FacultyEntry  `yaml:"faculty"`
}

// BuildingEntry describes one building of the campus map.
type BuildingEntry struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Coordinates model.Point `yaml:"coordinates"`
}

// FacultyEntry describes one faculty member.
type FacultyEntry struct {
	ID              string      `yaml:"id"`
	Name            string      `yaml:"name"`
	Department      string      `yaml:"department"`
	Office          string      `yaml:"office"`
	Email           string      `yaml:"email"`
	Phone           string      `yaml:"phone"`
	Specializations []string    `yaml:"specializations"`
	NextClass       string      `yaml:"next_class"`
	Building        string      `yaml:"building"`
	Coordinates     model.Point `yaml:"coordinates"`
}

// Load reads and validates the seed file at path.
func Load(path string) ([]model.FacultyMember, []model.Building, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a seed and converts it to directory models. Positions follow
// the order of the file.
func Parse(r io.Reader) ([]model.FacultyMember, []model.Building, error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("failed to decode directory seed: %w", err)
	}
	if err := file.Validate(); err != nil {
		return nil, nil, err
	}

	buildings := make([]model.Building, 0, len(file.Buildings))
	for i, b := range file.Buildings {
		buildings = append(buildings, model.Building{
			ID:          b.ID,
			Position:    i + 1,
			Name:        b.Name,
			Coordinates: b.Coordinates,
		})
	}

	members := make([]model.FacultyMember, 0, len(file.Faculty))
	for i, f := range file.Faculty {
		members = append(members, model.FacultyMember{
			ID:              f.ID,
			Position:        i + 1,
			Name:            f.Name,
			Department:      f.Department,
			Office:          f.Office,
			Email:           f.Email,
			Phone:           f.Phone,
			Specializations: f.Specializations,
			NextClass:       f.NextClass,
			Coordinates:     f.Coordinates,
			BuildingID:      model.PlaceIn(f.Building),
		})
	}
	return members, buildings, nil
}

// Validate checks ids, references and map coordinates.
func (file File) Validate() error {
	buildingIDs := make(map[string]bool, len(file.Buildings))
	for i, b := range file.Buildings {
		if b.ID == "" || b.Name == "" {
			return fmt.Errorf("building #%d: id and name are required", i+1)
		}
		if buildingIDs[b.ID] {
			return fmt.Errorf("building %s: duplicate id", b.ID)
		}
		if !b.Coordinates.InUnitSquare() {
			return fmt.Errorf("building %s: coordinates %v outside the map", b.ID, b.Coordinates)
		}
		buildingIDs[b.ID] = true
	}

	facultyIDs := make(map[string]bool, len(file.Faculty))
	for i, f := range file.Faculty {
		if f.ID == "" || f.Name == "" {
			return fmt.Errorf("faculty #%d: id and name are required", i+1)
		}
		if facultyIDs[f.ID] {
			return fmt.Errorf("faculty %s: duplicate id", f.ID)
		}
		if !f.Coordinates.InUnitSquare() {
			return fmt.Errorf("faculty %s: coordinates %v outside the map", f.ID, f.Coordinates)
		}
		if f.Building != "" && !buildingIDs[f.Building] {
			return fmt.Errorf("faculty %s: unknown building %q", f.ID, f.Building)
		}
		facultyIDs[f.ID] = true
	}
	return nil
}

package locator

import (
	"context"
	"fmt"
	"log"

	"faculty-locator-backend/internal/model"
	"faculty-locator-backend/internal/parse"
)

// StaticSource places every member at their office, unless an explicit
// override is configured.
type StaticSource struct {
	locations map[string]string
}

// NewStaticSource derives office locations from the directory.
func NewStaticSource(overrides map[string]string, members []model.FacultyMember, buildings []model.Building) *StaticSource {
	buildingNames := make(map[string]string, len(buildings))
	for _, b := range buildings {
		buildingNames[b.ID] = b.Name
	}

	locations := make(map[string]string, len(members))
	for _, m := range members {
		if m.Office == "" {
			continue
		}
		office, err := parse.ParseOffice(m.Office)
		if err != nil {
			log.Printf("Warning: could not parse office %q of faculty %s: %v", m.Office, m.ID, err)
			locations[m.ID] = m.Office
			continue
		}
		locations[m.ID] = parse.FormatLocation(buildingNames[m.BuildingRef()], office)
	}
	for id, loc := range overrides {
		locations[id] = loc
	}
	return &StaticSource{locations: locations}
}

// ResolveLocation returns the configured location of the member.
func (s *StaticSource) ResolveLocation(_ context.Context, facultyID string) (string, error) {
	loc, ok := s.locations[facultyID]
	if !ok {
		return "", fmt.Errorf("no known location for faculty %s", facultyID)
	}
	return loc, nil
}

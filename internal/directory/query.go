package directory

import (
	"errors"
	"fmt"
	"strings"

	"faculty-locator-backend/internal/model"
)

// ErrInvalidFilterValue is returned for a filter option outside its recognized set.
var ErrInvalidFilterValue = errors.New("invalid filter value")

// Filters narrows a search. Zero values mean no filter.
type Filters struct {
	Department string
	Status     model.Status
}

// Validate rejects filter values that can never match.
func (f Filters) Validate() error {
	if f.Status != "" && !f.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidFilterValue, f.Status)
	}
	return nil
}

// Search returns the members matching the free-text query and filters, in
// directory order, evaluated against a single snapshot of the records.
func (d *Directory) Search(query string, filters Filters) ([]Entry, error) {
	return Filter(d.members, d.records.Snapshot(), query, filters)
}

// Filter is the stateless form of Search over an explicit snapshot.
func Filter(members []model.FacultyMember, snap map[string]model.PresenceRecord, query string, filters Filters) ([]Entry, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(query))

	result := make([]Entry, 0, len(members))
	for _, m := range members {
		rec := recordFor(snap, m.ID)
		if filters.Department != "" && m.Department != filters.Department {
			continue
		}
		if filters.Status != "" && rec.Status != filters.Status {
			continue
		}
		if needle != "" && !MatchesText(m, needle) {
			continue
		}
		result = append(result, Entry{Member: m, Record: rec})
	}
	return result, nil
}

// MatchesText reports whether the lowercased needle is a substring of the
// member's name, department or any specialization.
func MatchesText(m model.FacultyMember, needle string) bool {
	if strings.Contains(strings.ToLower(m.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(m.Department), needle) {
		return true
	}
	for _, s := range m.Specializations {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

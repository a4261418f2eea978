package directory

import (
	"sort"

	"faculty-locator-backend/internal/model"
)

// RecordSource provides snapshots of the live presence records, each record
// read once per snapshot.
type RecordSource interface {
	Snapshot() map[string]model.PresenceRecord
}

// Entry pairs a faculty member with the presence record read for one query.
type Entry struct {
	Member model.FacultyMember
	Record model.PresenceRecord
}

// Directory answers discovery queries over the faculty directory. The member
// and building sets are fixed at construction; presence is read from records
// on every query.
type Directory struct {
	members   []model.FacultyMember
	byID      map[string]int
	buildings []model.Building
	records   RecordSource
}

// New builds a directory. Members and buildings are ordered by Position, ties
// keep their input order.
func New(members []model.FacultyMember, buildings []model.Building, records RecordSource) *Directory {
	d := &Directory{
		members:   make([]model.FacultyMember, len(members)),
		byID:      make(map[string]int, len(members)),
		buildings: make([]model.Building, len(buildings)),
		records:   records,
	}
	copy(d.members, members)
	copy(d.buildings, buildings)
	sort.SliceStable(d.members, func(i, j int) bool { return d.members[i].Position < d.members[j].Position })
	sort.SliceStable(d.buildings, func(i, j int) bool { return d.buildings[i].Position < d.buildings[j].Position })

	for i := range d.members {
		m := &d.members[i]
		m.Specializations = append([]string(nil), m.Specializations...)
		d.byID[m.ID] = i
	}
	for i := range d.buildings {
		d.buildings[i].Members = nil
	}
	return d
}

// Lookup returns the member with the given id and its current record.
func (d *Directory) Lookup(id string) (Entry, bool) {
	i, ok := d.byID[id]
	if !ok {
		return Entry{}, false
	}
	m := d.members[i]
	return Entry{Member: m, Record: recordFor(d.records.Snapshot(), m.ID)}, true
}

// Departments returns the distinct departments in directory order.
func (d *Directory) Departments() []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range d.members {
		if m.Department == "" || seen[m.Department] {
			continue
		}
		seen[m.Department] = true
		out = append(out, m.Department)
	}
	return out
}

func recordFor(snap map[string]model.PresenceRecord, id string) model.PresenceRecord {
	if rec, ok := snap[id]; ok {
		return rec
	}
	return model.NewPresenceRecord(id)
}

package directory

import "faculty-locator-backend/internal/model"

// BuildingGroup is a building with the members assigned to it.
type BuildingGroup struct {
	Building model.Building
	Members  []Entry
}

// GroupByBuilding returns every building with its statically assigned members
// and their live records. Buildings without members get an empty group.
func (d *Directory) GroupByBuilding() []BuildingGroup {
	snap := d.records.Snapshot()

	groups := make([]BuildingGroup, len(d.buildings))
	index := make(map[string]int, len(d.buildings))
	for i, b := range d.buildings {
		groups[i] = BuildingGroup{Building: b, Members: []Entry{}}
		index[b.ID] = i
	}

	for _, m := range d.members {
		i, ok := index[m.BuildingRef()]
		if !ok {
			continue
		}
		groups[i].Members = append(groups[i].Members, Entry{Member: m, Record: recordFor(snap, m.ID)})
	}
	return groups
}

// BuildingOf returns the building a member is assigned to.
func (d *Directory) BuildingOf(id string) (model.Building, bool) {
	i, ok := d.byID[id]
	if !ok {
		return model.Building{}, false
	}
	for _, b := range d.buildings {
		if b.ID == d.members[i].BuildingRef() {
			return b, true
		}
	}
	return model.Building{}, false
}

package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faculty-locator-backend/internal/model"
)

func TestDirectory_GroupByBuilding(t *testing.T) {
	d, records := newMockDirectory()

	groups := d.GroupByBuilding()
	require.Len(t, groups, 5)
	assert.Equal(t, 1, records.snapshots)

	got := make(map[string][]string)
	for _, g := range groups {
		got[g.Building.Name] = ids(g.Members)
	}
	assert.Equal(t, map[string][]string{
		"Computer Science":   {"1", "6"},
		"Mathematics":        {"2"},
		"Physics Lab":        {"3"},
		"Biology Lab":        {"5"},
		"Chemistry Building": {},
	}, got)

	assert.Equal(t, "Chemistry Building", groups[4].Building.Name)
	assert.NotNil(t, groups[4].Members)
	assert.Empty(t, groups[4].Members)
	assert.Equal(t, model.StatusMeeting, groups[2].Members[0].Record.Status)
}

func TestDirectory_BuildingOf(t *testing.T) {
	d, _ := newMockDirectory()

	b, ok := d.BuildingOf("6")
	require.True(t, ok)
	assert.Equal(t, "Computer Science", b.Name)

	_, ok = d.BuildingOf("4")
	assert.False(t, ok, "unplaced member has no building")
	_, ok = d.BuildingOf("99")
	assert.False(t, ok)
}

func TestSummaryCounts(t *testing.T) {
	d, _ := newMockDirectory()

	c := d.Summary()
	assert.Equal(t, Counts{Available: 3, Teaching: 1, Meeting: 1, Offline: 1, Total: 6}, c)

	assert.Equal(t, Counts{}, SummaryCounts(nil))

	odd := SummaryCounts([]model.PresenceRecord{{Status: "away"}, {Status: model.StatusTeaching}})
	assert.Equal(t, 2, odd.Total)
	assert.Equal(t, odd.Total, odd.Available+odd.Teaching+odd.Meeting+odd.Offline)
}

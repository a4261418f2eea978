package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faculty-locator-backend/internal/model"
)

func TestDirectory_Search(t *testing.T) {
	testCases := []struct {
		name     string
		query    string
		filters  Filters
		expected []string
	}{
		{name: "empty query returns everyone", expected: []string{"1", "2", "3", "4", "5", "6"}},
		{name: "specialization match is case-insensitive", query: "machine", expected: []string{"1"}},
		{name: "name match", query: "WANG", expected: []string{"5"}},
		{name: "department match", query: "computer", expected: []string{"1", "6"}},
		{name: "matches across fields", query: "bio", expected: []string{"4", "5"}},
		{name: "surrounding whitespace is ignored", query: "  optics ", expected: []string{"3"}},
		{name: "no match", query: "astronomy", expected: []string{}},
		{name: "status filter", filters: Filters{Status: model.StatusTeaching}, expected: []string{"2"}},
		{name: "offline status filter", filters: Filters{Status: model.StatusOffline}, expected: []string{"4"}},
		{name: "department filter", filters: Filters{Department: "Computer Science"}, expected: []string{"1", "6"}},
		{name: "unknown department matches nothing", filters: Filters{Department: "Astronomy"}, expected: []string{}},
		{name: "query and filters combine", query: "dr.", filters: Filters{Status: model.StatusAvailable}, expected: []string{"1", "5", "6"}},
		{name: "all constraints", query: "data", filters: Filters{Department: "Computer Science", Status: model.StatusAvailable}, expected: []string{"1", "6"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, _ := newMockDirectory()
			got, err := d.Search(tc.query, tc.filters)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ids(got))
		})
	}
}

func TestDirectory_SearchInvalidStatusFilter(t *testing.T) {
	d, _ := newMockDirectory()

	_, err := d.Search("", Filters{Status: model.Status("busy")})
	assert.ErrorIs(t, err, ErrInvalidFilterValue)
}

func TestDirectory_SearchReadsOneSnapshot(t *testing.T) {
	d, records := newMockDirectory()

	_, err := d.Search("dr", Filters{Status: model.StatusAvailable})
	require.NoError(t, err)
	assert.Equal(t, 1, records.snapshots)
}

func TestDirectory_SearchPairsLiveRecord(t *testing.T) {
	d, records := newMockDirectory()
	records.records["2"] = checkedIn("2", model.StatusAvailable, "Math Building - Room 305")

	got, err := d.Search("", Filters{Status: model.StatusAvailable})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "5", "6"}, ids(got))
	assert.Equal(t, "Math Building - Room 305", got[1].Record.Location)
}

func TestDirectory_SearchIsRefinement(t *testing.T) {
	d, _ := newMockDirectory()
	all, err := d.Search("", Filters{})
	require.NoError(t, err)
	allIDs := ids(all)

	queries := []string{"", "dr", "data", "bio", "chem", "x"}
	departments := append([]string{""}, d.Departments()...)
	statuses := append([]model.Status{""}, model.Statuses...)

	for _, q := range queries {
		for _, dept := range departments {
			byDept, err := d.Search(q, Filters{Department: dept})
			require.NoError(t, err)
			assert.Subset(t, allIDs, ids(byDept))

			for _, s := range statuses {
				narrowed, err := d.Search(q, Filters{Department: dept, Status: s})
				require.NoError(t, err)
				assert.Subset(t, ids(byDept), ids(narrowed))
				assert.LessOrEqual(t, len(narrowed), len(byDept))
			}
		}
	}
}

func TestMatchesText_EmptySpecializations(t *testing.T) {
	m := model.FacultyMember{ID: "7", Name: "Dr. Ada Byron", Department: "Mathematics"}

	assert.True(t, MatchesText(m, "ada"))
	assert.False(t, MatchesText(m, "engines"))
}

func TestFilter_Stateless(t *testing.T) {
	snap := mockRecords().records
	got, err := Filter(mockMembers(), snap, "Calculus", Filters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(got))
}

package internal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"faculty-locator-backend/config"
	"faculty-locator-backend/internal/db"
	"faculty-locator-backend/internal/directory"
	"faculty-locator-backend/internal/locator"
	"faculty-locator-backend/internal/model"
	"faculty-locator-backend/internal/presence"
	"faculty-locator-backend/internal/seed"
	"faculty-locator-backend/internal/store"
)

func entryIDs(entries []directory.Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.Member.ID
	}
	return ids
}

// TestPresenceLifecycle seeds the directory into an in-memory database, walks
// a faculty member through a full session and checks what the directory
// reports and what ends up persisted at each step.
func TestPresenceLifecycle(t *testing.T) {
	ctx := context.Background()

	// --- Test Setup ---
	testDB, err := gorm.Open(sqlite.Open("file:presence_lifecycle?mode=memory&cache=shared&_foreign_keys=on"), &gorm.Config{})
	require.NoError(t, err, "Failed to connect to the in-memory database")
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	require.NoError(t, db.Migrate(testDB))
	appStore := store.NewGormStore(testDB)

	seedMembers, seedBuildings, err := seed.Load("../config/directory.yaml")
	require.NoError(t, err)
	require.NoError(t, appStore.UpsertDirectory(ctx, seedMembers, seedBuildings))

	members, buildings, err := appStore.LoadDirectory(ctx)
	require.NoError(t, err)
	require.Len(t, members, 6)
	require.Len(t, buildings, 5)

	// Prof. Wilson has no building and must not trip the building foreign key.
	var unplaced int64
	require.NoError(t, testDB.Model(&model.FacultyMember{}).Where("building_id IS NULL").Count(&unplaced).Error)
	assert.Equal(t, int64(1), unplaced)
	assert.Nil(t, members[3].BuildingID)
	require.Error(t, testDB.Create(&model.FacultyMember{ID: "x", Name: "Ghost", BuildingID: model.PlaceIn("missing")}).Error,
		"foreign keys are enforced")

	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	records, err := appStore.LoadPresence(ctx, ids)
	require.NoError(t, err)
	for _, rec := range records {
		assert.Equal(t, model.StatusOffline, rec.Status)
	}

	source, err := locator.New(config.LocationConfig{
		Mode:   config.LocationModeStatic,
		Static: map[string]string{"1": "CS-201"},
	}, members, buildings)
	require.NoError(t, err)

	controller := presence.NewController(records, source, appStore, time.Second)
	dir := directory.New(members, buildings, controller)

	// --- Searching the idle directory ---
	found, err := dir.Search("machine", directory.Filters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, entryIDs(found))

	found, err = dir.Search("", directory.Filters{Status: model.StatusTeaching})
	require.NoError(t, err)
	assert.Empty(t, found)

	// --- Step 1: Check in with auto-location ---
	rec, err := controller.CheckIn(ctx, "1", "")
	require.NoError(t, err)
	assert.True(t, rec.IsCheckedIn)
	assert.Equal(t, model.StatusAvailable, rec.Status)
	assert.Equal(t, "CS-201", rec.Location)

	var stored model.PresenceRecord
	require.NoError(t, testDB.First(&stored, "faculty_id = ?", "1").Error)
	assert.Equal(t, model.StatusAvailable, stored.Status)
	assert.Equal(t, "CS-201", stored.Location)
	assert.Equal(t, rec.SessionID, stored.SessionID)

	// --- Step 2: Two members go to class ---
	_, err = controller.CheckIn(ctx, "6", "")
	require.NoError(t, err)
	_, err = controller.SetStatus(ctx, "6", model.StatusTeaching)
	require.NoError(t, err)
	_, err = controller.SetStatus(ctx, "1", model.StatusTeaching)
	require.NoError(t, err)

	found, err = dir.Search("", directory.Filters{Status: model.StatusTeaching})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "6"}, entryIDs(found), "teaching members in directory order")

	found, err = dir.Search("", directory.Filters{Department: "Computer Science", Status: model.StatusAvailable})
	require.NoError(t, err)
	assert.Empty(t, found)

	summary := dir.Summary()
	assert.Equal(t, directory.Counts{Teaching: 2, Offline: 4, Total: 6}, summary)

	// --- Step 3: Map view ---
	groups := dir.GroupByBuilding()
	require.Len(t, groups, 5)
	assert.Equal(t, "Computer Science", groups[0].Building.Name)
	assert.Equal(t, []string{"1", "6"}, entryIDs(groups[0].Members))
	assert.Equal(t, "Chemistry Building", groups[4].Building.Name)
	assert.NotNil(t, groups[4].Members)
	assert.Empty(t, groups[4].Members, "a building without members still gets a group")

	// --- Step 4: Check out archives the session ---
	sessionID := rec.SessionID
	rec, err = controller.CheckOut(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, model.NewPresenceRecord("1").Status, rec.Status)
	assert.False(t, rec.IsCheckedIn)
	assert.Empty(t, rec.Location)

	history, err := appStore.PresenceHistory(ctx, "1", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, sessionID, history[0].SessionID)
	assert.Equal(t, model.StatusTeaching, history[0].Status)
	assert.Equal(t, "CS-201", history[0].Location)
	assert.False(t, history[0].PeriodEnd.Before(history[0].PeriodStart))

	require.NoError(t, testDB.First(&stored, "faculty_id = ?", "1").Error)
	assert.Equal(t, model.StatusOffline, stored.Status)
	assert.Nil(t, stored.CheckedInAt)

	// --- Step 5: A restart picks up the persisted state ---
	records, err = appStore.LoadPresence(ctx, ids)
	require.NoError(t, err)
	restarted := presence.NewController(records, source, appStore, time.Second)
	rec, err = restarted.Record("6")
	require.NoError(t, err)
	assert.Equal(t, model.StatusTeaching, rec.Status)
	assert.True(t, rec.IsCheckedIn)

	controller.WaitPending()
}

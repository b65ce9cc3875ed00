package setting

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/biomed-cmms/cmms-access/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// freezeTime pins the package clock for the duration of the test.
func freezeTime(t *testing.T, at time.Time) *time.Time {
	t.Helper()

	current := at
	now = func() time.Time { return current }
	t.Cleanup(func() { now = time.Now })

	return &current
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		settingName   string
		seedData      []models.Setting
		expectedError error
		expectedValue []byte
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			settingName:   "test",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			settingName:   "",
			expectedError: ErrSettingNameEmpty,
		},
		{
			name:          "setting not found",
			dbParam:       db,
			settingName:   "nonexistent",
			expectedError: ErrSettingNotFound,
		},
		{
			name:        "successful get",
			dbParam:     db,
			settingName: "cmms.auth",
			seedData: []models.Setting{
				{Name: "cmms.auth", Value: []byte(`{"isLoggedIn":true,"userRole":"user"}`)},
			},
			expectedValue: []byte(`{"isLoggedIn":true,"userRole":"user"}`),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM settings")
			}

			for i := range tc.seedData {
				require.NoError(t, tc.dbParam.Create(&tc.seedData[i]).Error)
			}

			setting, err := Get(tc.dbParam, tc.settingName)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)
			} else {
				require.NoError(t, err)
				require.NotNil(t, setting)
				assert.Equal(t, tc.settingName, setting.Name)
				assert.Equal(t, tc.expectedValue, setting.Value)
			}
		})
	}
}

func TestSet_Upserts(t *testing.T) {
	db := setupTestDB(t)

	_, err := Set(db, "theme", []byte("light"), 0)
	require.NoError(t, err)
	_, err = Set(db, "theme", []byte("dark"), 0)
	require.NoError(t, err)

	all, err := GetAll(db)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, []byte("dark"), all[0].Value)
	assert.Nil(t, all[0].ExpiresAt)
}

func TestSet_Validation(t *testing.T) {
	_, err := Set(nil, "x", nil, 0)
	require.ErrorIs(t, err, ErrDBNil)

	_, err = Set(setupTestDB(t), "", nil, 0)
	require.ErrorIs(t, err, ErrSettingNameEmpty)
}

func TestGet_Expiry(t *testing.T) {
	db := setupTestDB(t)
	clock := freezeTime(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	_, err := Set(db, "session-a", []byte("a"), time.Hour)
	require.NoError(t, err)

	got, err := Get(db, "session-a")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got.Value)

	*clock = clock.Add(2 * time.Hour)

	_, err = Get(db, "session-a")
	require.ErrorIs(t, err, ErrSettingNotFound)
}

func TestPurgeExpired(t *testing.T) {
	db := setupTestDB(t)
	clock := freezeTime(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	_, err := Set(db, "short", []byte("1"), time.Minute)
	require.NoError(t, err)
	_, err = Set(db, "long", []byte("2"), 24*time.Hour)
	require.NoError(t, err)
	_, err = Set(db, "forever", []byte("3"), 0)
	require.NoError(t, err)

	*clock = clock.Add(time.Hour)

	n, err := PurgeExpired(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	all, err := GetAll(db)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "forever", all[0].Name)
	assert.Equal(t, "long", all[1].Name)
}

func TestDeleteByName(t *testing.T) {
	db := setupTestDB(t)

	require.ErrorIs(t, DeleteByName(nil, "x"), ErrDBNil)
	require.ErrorIs(t, DeleteByName(db, ""), ErrSettingNameEmpty)
	require.ErrorIs(t, DeleteByName(db, "missing"), ErrSettingNotFound)

	_, err := Set(db, "present", []byte("v"), 0)
	require.NoError(t, err)
	require.NoError(t, DeleteByName(db, "present"))

	_, err = Get(db, "present")
	require.ErrorIs(t, err, ErrSettingNotFound)
}

func TestStore(t *testing.T) {
	db := setupTestDB(t)

	store, err := NewStore(db)
	require.NoError(t, err)

	val, err := store.Get("sid:cmms.auth")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, store.Set("sid:cmms.auth", []byte("v1"), 0))
	require.NoError(t, store.Set("sid:cmms.auth", []byte("v2"), time.Hour))

	val, err = store.Get("sid:cmms.auth")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), val)

	require.NoError(t, store.Delete("sid:cmms.auth"))
	require.NoError(t, store.Delete("sid:cmms.auth"))

	require.NoError(t, store.Set("a", []byte("1"), 0))
	require.NoError(t, store.Set("b", []byte("2"), 0))
	require.NoError(t, store.Reset())

	all, err := GetAll(db)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.NoError(t, store.Close())
}

func TestNewStore_NilDB(t *testing.T) {
	_, err := NewStore(nil)
	require.ErrorIs(t, err, ErrDBNil)
}

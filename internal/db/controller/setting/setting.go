// Package setting provides key/value access to the setting table.
//
// Store adapts the table to the storage interface used by the auth session
// layer, so that the sql backend behaves like the gofiber storage drivers.
package setting

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/biomed-cmms/cmms-access/internal/db/models"
)

const (
	nameQueryPattern = "name = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingNameEmpty is returned when attempting to read or write a setting with an empty name.
	ErrSettingNameEmpty = errors.New("setting name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// now is replaced in tests.
var now = time.Now

// Get retrieves a live setting by its name. Expired rows are reported as not found.
func Get(db *gorm.DB, name string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	var setting models.Setting
	result := db.Where(nameQueryPattern, name).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, result.Error
	}

	if setting.Expired(now()) {
		return nil, ErrSettingNotFound
	}

	return &setting, nil
}

// GetAll retrieves all settings, expired or not.
func GetAll(db *gorm.DB) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting
	result := db.Order("name").Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// Set creates or replaces a setting by name. A zero ttl stores the value without expiry.
func Set(db *gorm.DB, name string, value []byte, ttl time.Duration) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	setting := &models.Setting{
		Name:  name,
		Value: value,
	}
	if ttl > 0 {
		exp := now().Add(ttl)
		setting.ExpiresAt = &exp
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at"}),
	}).Create(setting)
	if result.Error != nil {
		return nil, result.Error
	}

	return setting, nil
}

// DeleteByName deletes a setting by name.
func DeleteByName(db *gorm.DB, name string) error {
	if db == nil {
		return ErrDBNil
	}
	if name == "" {
		return ErrSettingNameEmpty
	}

	result := db.Where(nameQueryPattern, name).Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}

// PurgeExpired removes every setting whose expiry lies in the past and
// returns the number of removed rows.
func PurgeExpired(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	result := db.Where("expires_at IS NOT NULL AND expires_at <= ?", now()).Delete(&models.Setting{})

	return result.RowsAffected, result.Error
}

// Store exposes the setting table as a key/value storage.
// Missing keys read as nil without an error, the same way the gofiber storages behave.
type Store struct {
	db *gorm.DB
}

// NewStore migrates the setting table and returns a Store on top of it.
func NewStore(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if err := db.AutoMigrate(&models.Setting{}); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Get returns the stored value or nil when the key is missing or expired.
func (s *Store) Get(key string) ([]byte, error) {
	setting, err := Get(s.db, key)
	if errors.Is(err, ErrSettingNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return setting.Value, nil
}

// Set stores the value under key.
func (s *Store) Set(key string, val []byte, exp time.Duration) error {
	_, err := Set(s.db, key, val, exp)

	return err
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	err := DeleteByName(s.db, key)
	if errors.Is(err, ErrSettingNotFound) {
		return nil
	}

	return err
}

// Reset removes every setting.
func (s *Store) Reset() error {
	return s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Setting{}).Error
}

// Close is a no-op; the database handle is owned by the caller.
func (s *Store) Close() error {
	return nil
}

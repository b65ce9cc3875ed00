package auth

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/biomed-cmms/cmms-access/internal/db/models"
)

const whereUsername = "username = ?"

// LocalProvider handles authentication for users stored in the local database.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{db: db}
}

// Authenticate verifies the username and password and returns the user.
func (p *LocalProvider) Authenticate(username, password string) (*models.User, error) {
	var user models.User

	err := p.db.Where(whereUsername, username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.CanLogin() {
		return nil, ErrUserAccountDisabled
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	return &user, nil
}

// CreateUser creates a new active local user with the given role.
func (p *LocalProvider) CreateUser(username, email, password, displayName string, role Role) (*models.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}

	var existing models.User

	err := p.db.Where(whereUsername, username).First(&existing).Error
	if err == nil {
		return nil, ErrUserExists
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	user := models.User{
		Active:      true,
		Username:    username,
		Email:       email,
		DisplayName: displayName,
		RoleID:      string(role),
	}

	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	if err := p.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// SetActive enables or disables a user account.
func (p *LocalProvider) SetActive(username string, active bool) error {
	result := p.db.Model(&models.User{}).
		Where(whereUsername, username).
		Update("active", active)
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// CountUsers returns the number of local users.
func (p *LocalProvider) CountUsers() (int64, error) {
	var count int64
	if err := p.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

package models

import (
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// User is a local login account of the CMMS.
// The role is one of the catalog role ids and decides what the user may see and do.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Active indicates whether the user account is active and can log in.
	Active bool
	// Username is the unique username for login.
	Username string `gorm:"unique;size:100;not null"`
	// Email is the user's email address.
	Email string `gorm:"size:255"`
	// Password is the Argon2id hashed password.
	Password string `gorm:"size:255"`
	// DisplayName is shown in the top bar.
	DisplayName string `gorm:"size:200"`
	// RoleID is the ID of the role assigned to this user.
	RoleID string `gorm:"column:role_id;size:50;not null"`
	// Role is the associated role (enforced with a foreign key constraint).
	Role Role `gorm:"foreignKey:RoleID;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// SetPassword stores the argon2id hash of password.
func (u *User) SetPassword(password string) error {
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u.Password = hash

	return nil
}

// VerifyPassword reports whether password matches the stored hash.
// A malformed hash never matches.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Debug().Err(err).Str("username", u.Username).Msg("stored password hash is not usable")
		return false
	}

	return match
}

// CanLogin reports whether the account may authenticate.
func (u *User) CanLogin() bool {
	return u.Active && u.Password != ""
}

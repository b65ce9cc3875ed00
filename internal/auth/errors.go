package auth

import "errors"

var (
	// ErrUserAccountDisabled is returned when attempting to authenticate a disabled user account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists is returned when attempting to create a user whose username is taken.
	ErrUserExists = errors.New("user with username already exists")

	// ErrUnknownRole is returned when a role id is not part of the role enumeration.
	ErrUnknownRole = errors.New("unknown role")
)

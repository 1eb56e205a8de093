package domain

import (
	"fmt"
	"strings"
	"time"
)

// Username and password bounds. 72 bytes is bcrypt's input limit.
const (
	MaxUsernameLength = 64
	MaxPasswordLength = 72
)

// Common validation errors
var (
	ErrEmptyUsername   = fmt.Errorf("%w: username cannot be empty", ErrValidation)
	ErrUsernameTooLong = fmt.Errorf("%w: username must be at most %d characters long", ErrValidation, MaxUsernameLength)
	ErrEmptyPassword   = fmt.Errorf("%w: password cannot be empty", ErrValidation)
	ErrPasswordTooLong = fmt.Errorf("%w: password must be at most %d bytes long", ErrValidation, MaxPasswordLength)
)

// User represents a registered user of the task tracker.
// The ID is assigned by the store when the user is created.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Password       string    `json:"-"` // Plaintext password, used only until it is hashed
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser creates a new User with the given username and plaintext password.
// The caller (normally the user store) is responsible for hashing the password
// before the user is persisted.
func NewUser(username, password string) (*User, error) {
	user := &User{
		Username:  username,
		Password:  password,
		CreatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Usernames are case-sensitive and are not normalized.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}
	if len(u.Username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}

	if u.Password != "" {
		if len(u.Password) > MaxPasswordLength {
			return ErrPasswordTooLong
		}
		return nil
	}

	// Without a plaintext password the user must already carry a hash
	// (the case for users loaded from the database).
	if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
// Users own batches; payers on a batch are free-form names, not users.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique), used for sign-in.
	Email string

	// DisplayName is shown in the navigation bar.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp when the user account was last updated.
	UpdatedAt int64
}

// NewUser builds a user with a fresh ID and creation time.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Package auth issues and validates session tokens and verifies passwords.
package auth

import (
	"context"

	"github.com/mmynk/pagetally/internal/models"
)

// Authenticator verifies who a user is.
// Implementations differ in the credential they accept; the service layer
// only sees users.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}

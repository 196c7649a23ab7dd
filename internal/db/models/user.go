package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// User represents a locally materialized account of an externally authenticated identity.
// A user is unique per (Authenticator, ExternalID) and is created on the first
// synchronization for that pair and updated on every following one.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Authenticator names the external identity provider (e.g. "ldap", "oidc", "saml").
	Authenticator string `gorm:"size:50;not null;uniqueIndex:idx_authenticator_external"`
	// ExternalID is the identifier the provider uses for this user (uid, DN, sub claim).
	ExternalID string `gorm:"size:255;not null;uniqueIndex:idx_authenticator_external"`
	// FirstName is the user's first or given name.
	FirstName string `gorm:"size:255"`
	// LastName is the user's last or family name.
	LastName string `gorm:"size:255"`
	// Email is the user's email address.
	Email string `gorm:"size:255"`
	// Password is an opaque Argon2id hash. External users never log in with it.
	Password string `gorm:"size:255"`
	// Locale is the user's preferred locale (e.g. "en").
	Locale string `gorm:"size:20"`
	// Timezone is the user's IANA timezone (e.g. "UTC").
	Timezone string `gorm:"size:64"`
	// ExternalImageHash is the hash of the profile image last taken from the provider.
	// Empty if the current image (if any) was not set by the provider.
	ExternalImageHash string `gorm:"size:64"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}

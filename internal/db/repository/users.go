package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/idsync/internal/db/models"
)

var (
	// ErrUserKeyEmpty is returned when authenticator or external ID is empty.
	ErrUserKeyEmpty = errors.New("authenticator and external id must not be empty")

	// ErrUserNotFound is returned when no user exists for a lookup.
	ErrUserNotFound = errors.New("user not found")
)

const whereAuthenticatorExternalID = "authenticator = ? AND external_id = ?"

// Users persists users.
type Users struct {
	db *gorm.DB
}

// NewUsers creates a user repository.
func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// FindOrCreate returns the user identified by (authenticator, externalID),
// creating it with the password, locale and timezone of defaults if it does
// not exist yet. Defaults are ignored for existing users.
//
// If a concurrent synchronization created the same user first, the unique
// index rejects the insert and the existing row is fetched instead.
func (r *Users) FindOrCreate(
	ctx context.Context,
	authenticator, externalID string,
	defaults models.User,
) (*models.User, error) {
	if authenticator == "" || externalID == "" {
		return nil, ErrUserKeyEmpty
	}

	var user models.User

	err := r.db.WithContext(ctx).
		Attrs(models.User{
			Password: defaults.Password,
			Locale:   defaults.Locale,
			Timezone: defaults.Timezone,
		}).
		FirstOrCreate(&user, models.User{Authenticator: authenticator, ExternalID: externalID}).Error

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return r.Find(ctx, authenticator, externalID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find or create user: %w", err)
	}

	return &user, nil
}

// Find returns the user identified by (authenticator, externalID).
func (r *Users) Find(ctx context.Context, authenticator, externalID string) (*models.User, error) {
	var user models.User

	err := r.db.WithContext(ctx).
		Where(whereAuthenticatorExternalID, authenticator, externalID).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// Save writes all fields of user.
func (r *Users) Save(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}

package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-password/password"

	"github.com/GoPowerDNS-Admin/idsync/internal/attribute"
	"github.com/GoPowerDNS-Admin/idsync/internal/config"
	"github.com/GoPowerDNS-Admin/idsync/internal/db/models"
	"github.com/GoPowerDNS-Admin/idsync/internal/rolemapping"
)

const (
	passwordLength  = 64
	passwordDigits  = 10
	passwordSymbols = 10
)

// UserRepository persists users.
type UserRepository interface {
	FindOrCreate(ctx context.Context, authenticator, externalID string, defaults models.User) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
}

// RoleMapper computes and reconciles automatic roles.
type RoleMapper interface {
	ComputeRoles(store *attribute.Store, entries []rolemapping.Entry) []string
	Reconcile(ctx context.Context, userID uint64, names []string) (rolemapping.Result, error)
}

// ImageSyncer takes the profile image of a user from the attributes.
type ImageSyncer interface {
	Sync(ctx context.Context, user *models.User, store *attribute.Store) error
}

// Synchronizer materializes external identities as local users.
type Synchronizer struct {
	users    UserRepository
	mapper   RoleMapper
	images   ImageSyncer
	defaults config.Defaults
	log      zerolog.Logger

	// newPassword returns the hashed password of a new user.
	newPassword func() (string, error)
}

// NewSynchronizer creates a Synchronizer. images may be nil to skip image sync.
func NewSynchronizer(
	users UserRepository,
	mapper RoleMapper,
	images ImageSyncer,
	defaults config.Defaults,
	log zerolog.Logger,
) *Synchronizer {
	return &Synchronizer{
		users:       users,
		mapper:      mapper,
		images:      images,
		defaults:    defaults,
		log:         log,
		newPassword: randomPassword,
	}
}

// Synchronize creates or updates the local user for the identity described by
// store and reconciles its automatic roles with entries.
//
// The returned error is a *MissingAttributeError if a mandatory attribute is
// missing, or a wrapped persistence error if the user could not be loaded or
// saved. Image and role failures are logged and do not fail the call.
func (s *Synchronizer) Synchronize(
	ctx context.Context,
	store *attribute.Store,
	authenticator string,
	entries []rolemapping.Entry,
) (*models.User, error) {
	log := s.log.With().Str("authenticator", authenticator).Logger()

	user, err := s.synchronize(ctx, log, store, authenticator, entries)

	switch {
	case err == nil:
		synchronizations.WithLabelValues(authenticator, resultSuccess).Inc()
	case errors.Is(err, ErrMissingAttribute):
		synchronizations.WithLabelValues(authenticator, resultMissingAttribute).Inc()
	default:
		synchronizations.WithLabelValues(authenticator, resultError).Inc()
	}

	return user, err
}

func (s *Synchronizer) synchronize(
	ctx context.Context,
	log zerolog.Logger,
	store *attribute.Store,
	authenticator string,
	entries []rolemapping.Entry,
) (*models.User, error) {
	externalID, ok := store.FirstValue(attribute.ExternalID)
	if !ok {
		// nothing to key the user by; Validate reports it
		return nil, Validate(log, store)
	}

	hash, err := s.newPassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}

	user, err := s.users.FindOrCreate(ctx, authenticator, externalID, models.User{
		Password: hash,
		Locale:   s.defaults.Locale,
		Timezone: s.defaults.Timezone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find or create user: %w", err)
	}

	if err = Validate(log, store); err != nil {
		return nil, err
	}

	user.FirstName, _ = store.FirstValue(attribute.FirstName)
	user.LastName, _ = store.FirstValue(attribute.LastName)
	user.Email, _ = store.FirstValue(attribute.Email)

	if err = s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	log = log.With().Uint64("user_id", user.ID).Logger()

	if s.images != nil {
		if err = s.images.Sync(ctx, user, store); err != nil {
			log.Warn().Err(err).Msg("failed to sync profile image")
		}
	}

	names := s.mapper.ComputeRoles(store, entries)

	result, err := s.mapper.Reconcile(ctx, user.ID, names)
	if err != nil {
		log.Error().Err(err).Strs("roles", names).Msg("failed to reconcile automatic roles")

		return user, nil
	}

	roleChanges.WithLabelValues(authenticator, "attached").Add(float64(len(result.Attached)))
	roleChanges.WithLabelValues(authenticator, "detached").Add(float64(len(result.Detached)))
	unresolvedRoles.WithLabelValues(authenticator).Add(float64(len(result.Unresolved)))

	log.Debug().Str("external_id", externalID).Msg("user synchronized")

	return user, nil
}

// randomPassword returns the hash of a random password nobody knows.
func randomPassword() (string, error) {
	plain, err := password.Generate(passwordLength, passwordDigits, passwordSymbols, false, true)
	if err != nil {
		return "", err
	}

	return models.HashPassword(plain), nil
}

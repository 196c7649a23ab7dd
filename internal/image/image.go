// Package image takes the profile image of a user from the attributes of an
// external identity provider.
package image

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/GoPowerDNS-Admin/idsync/internal/attribute"
	"github.com/GoPowerDNS-Admin/idsync/internal/config"
	"github.com/GoPowerDNS-Admin/idsync/internal/db/models"
)

var (
	// ErrNotAnImage is returned when the attribute does not carry image data.
	ErrNotAnImage = errors.New("attribute does not contain an image")

	// ErrTooLarge is returned when the image exceeds config.Image.MaxBytes.
	ErrTooLarge = errors.New("image too large")
)

// Repository stores profile images.
type Repository interface {
	Save(ctx context.Context, image *models.UserImage) error
	Delete(ctx context.Context, userID uint64) error
}

// UserRepository saves the image hash of a user.
type UserRepository interface {
	Save(ctx context.Context, user *models.User) error
}

// Syncer copies the provider image into the image store.
type Syncer struct {
	cfg    config.Image
	images Repository
	users  UserRepository
	log    zerolog.Logger
}

// NewSyncer creates a Syncer.
func NewSyncer(cfg config.Image, images Repository, users UserRepository, log zerolog.Logger) *Syncer {
	if cfg.Attribute == "" {
		cfg.Attribute = attribute.Image
	}

	return &Syncer{cfg: cfg, images: images, users: users, log: log}
}

// Sync stores the image found in store for user. An unchanged image is not
// written again. Without an image attribute, an image previously taken from
// the provider is removed; images set by other means are kept.
func (s *Syncer) Sync(ctx context.Context, user *models.User, store *attribute.Store) error {
	if !s.cfg.Enabled {
		return nil
	}

	raw, ok := store.FirstValue(s.cfg.Attribute)
	if !ok || raw == "" {
		return s.clear(ctx, user)
	}

	data, contentType, err := s.decode([]byte(raw))
	if err != nil {
		return err
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	if hash == user.ExternalImageHash {
		return nil
	}

	if err = s.images.Save(ctx, &models.UserImage{
		UserID:      user.ID,
		ContentType: contentType,
		Data:        data,
	}); err != nil {
		return err
	}

	if err = s.saveHash(ctx, user, hash); err != nil {
		return err
	}

	s.log.Debug().Uint64("user_id", user.ID).Str("content_type", contentType).Int("size", len(data)).
		Msg("profile image updated")

	return nil
}

func (s *Syncer) clear(ctx context.Context, user *models.User) error {
	if user.ExternalImageHash == "" {
		return nil
	}

	if err := s.images.Delete(ctx, user.ID); err != nil {
		return err
	}

	if err := s.saveHash(ctx, user, ""); err != nil {
		return err
	}

	s.log.Debug().Uint64("user_id", user.ID).Msg("profile image removed")

	return nil
}

// saveHash persists hash as the external image hash of user. user is only
// changed once the save succeeded.
func (s *Syncer) saveHash(ctx context.Context, user *models.User, hash string) error {
	updated := *user
	updated.ExternalImageHash = hash

	if err := s.users.Save(ctx, &updated); err != nil {
		return err
	}

	*user = updated

	return nil
}

// decode returns the image bytes and their MIME type. Values that are not an
// image as-is are tried as standard base64.
func (s *Syncer) decode(raw []byte) ([]byte, string, error) {
	data := raw

	mt := mimetype.Detect(data)
	if !isImage(mt) {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(raw)))
		if err != nil {
			return nil, "", fmt.Errorf("%w: detected %s", ErrNotAnImage, mt.String())
		}

		data = decoded
		mt = mimetype.Detect(data)

		if !isImage(mt) {
			return nil, "", fmt.Errorf("%w: detected %s", ErrNotAnImage, mt.String())
		}
	}

	if s.cfg.MaxBytes > 0 && len(data) > s.cfg.MaxBytes {
		return nil, "", fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(data), s.cfg.MaxBytes)
	}

	return data, mt.String(), nil
}

func isImage(mt *mimetype.MIME) bool {
	return strings.HasPrefix(mt.String(), "image/")
}

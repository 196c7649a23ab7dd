package image

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/idsync/internal/attribute"
	"github.com/GoPowerDNS-Admin/idsync/internal/config"
	"github.com/GoPowerDNS-Admin/idsync/internal/db/models"
)

// png is a 1x1 transparent PNG.
var png = []byte{ //nolint:gochecknoglobals
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

type memoryImages struct {
	images  map[uint64]models.UserImage
	saves   int
	deletes int
}

func (m *memoryImages) Save(_ context.Context, image *models.UserImage) error {
	if m.images == nil {
		m.images = make(map[uint64]models.UserImage)
	}

	m.images[image.UserID] = *image
	m.saves++

	return nil
}

func (m *memoryImages) Delete(_ context.Context, userID uint64) error {
	delete(m.images, userID)
	m.deletes++

	return nil
}

type memoryUsers struct {
	saves int
	err   error
}

func (m *memoryUsers) Save(_ context.Context, _ *models.User) error {
	if m.err != nil {
		return m.err
	}

	m.saves++

	return nil
}

func newSyncer(cfg config.Image) (*Syncer, *memoryImages, *memoryUsers) {
	images := &memoryImages{}
	users := &memoryUsers{}

	return NewSyncer(cfg, images, users, zerolog.Nop()), images, users
}

func TestSyncStoresImage(t *testing.T) {
	ctx := context.Background()
	s, images, users := newSyncer(config.Image{Enabled: true})

	user := &models.User{ID: 7}
	store := attribute.New()
	store.Add(attribute.Image, string(png))

	require.NoError(t, s.Sync(ctx, user, store))
	assert.Equal(t, "image/png", images.images[7].ContentType)
	assert.Equal(t, png, images.images[7].Data)
	assert.Len(t, user.ExternalImageHash, 64)
	assert.Equal(t, 1, users.saves)

	// unchanged image is not written again
	require.NoError(t, s.Sync(ctx, user, store))
	assert.Equal(t, 1, images.saves)
	assert.Equal(t, 1, users.saves)
}

func TestSyncBase64(t *testing.T) {
	s, images, _ := newSyncer(config.Image{Enabled: true, Attribute: "picture"})

	store := attribute.New()
	store.Add("picture", base64.StdEncoding.EncodeToString(png))

	require.NoError(t, s.Sync(context.Background(), &models.User{ID: 1}, store))
	assert.Equal(t, png, images.images[1].Data)
}

func TestSyncRejects(t *testing.T) {
	testCases := []struct {
		name  string
		cfg   config.Image
		value string
		err   error
	}{
		{name: "plain text", cfg: config.Image{Enabled: true}, value: "hello world", err: ErrNotAnImage},
		{name: "base64 text", cfg: config.Image{Enabled: true}, value: "aGVsbG8gd29ybGQ=", err: ErrNotAnImage},
		{name: "too large", cfg: config.Image{Enabled: true, MaxBytes: 10}, value: string(png), err: ErrTooLarge},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, images, _ := newSyncer(tc.cfg)

			user := &models.User{ID: 1, ExternalImageHash: "old"}
			store := attribute.New()
			store.Add(attribute.Image, tc.value)

			err := s.Sync(context.Background(), user, store)
			require.ErrorIs(t, err, tc.err)
			assert.Equal(t, "old", user.ExternalImageHash, "existing image state is kept")
			assert.Zero(t, images.saves)
		})
	}
}

func TestSyncClearsExternalImage(t *testing.T) {
	ctx := context.Background()
	s, images, users := newSyncer(config.Image{Enabled: true})

	// no external image, nothing to remove
	require.NoError(t, s.Sync(ctx, &models.User{ID: 1}, attribute.New()))
	assert.Zero(t, images.deletes)

	user := &models.User{ID: 1, ExternalImageHash: "abc"}
	require.NoError(t, s.Sync(ctx, user, attribute.New()))
	assert.Equal(t, 1, images.deletes)
	assert.Empty(t, user.ExternalImageHash)
	assert.Equal(t, 1, users.saves)
}

func TestSyncDisabled(t *testing.T) {
	s, images, _ := newSyncer(config.Image{})

	store := attribute.New()
	store.Add(attribute.Image, "not an image")

	require.NoError(t, s.Sync(context.Background(), &models.User{ID: 1, ExternalImageHash: "abc"}, store))
	assert.Zero(t, images.saves)
	assert.Zero(t, images.deletes)
}

func TestSyncKeepsHashWhenSaveFails(t *testing.T) {
	ctx := context.Background()
	errSave := errors.New("database is locked")

	s, _, users := newSyncer(config.Image{Enabled: true})
	users.err = errSave

	user := &models.User{ID: 1, ExternalImageHash: "old"}
	store := attribute.New()
	store.Add(attribute.Image, string(png))

	require.ErrorIs(t, s.Sync(ctx, user, store), errSave)
	assert.Equal(t, "old", user.ExternalImageHash)

	require.ErrorIs(t, s.Sync(ctx, user, attribute.New()), errSave)
	assert.Equal(t, "old", user.ExternalImageHash)
}

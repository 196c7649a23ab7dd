package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoPowerDNS-Admin/idsync/internal/db/models"
)

// ErrImageNotFound is returned when a user has no stored image.
var ErrImageNotFound = errors.New("image not found")

// Images persists profile images.
type Images struct {
	db *gorm.DB
}

// NewImages creates an image repository.
func NewImages(db *gorm.DB) *Images {
	return &Images{db: db}
}

// Save stores image, replacing the previous image of the same user.
func (r *Images) Save(ctx context.Context, image *models.UserImage) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"content_type", "data", "updated_at"}),
		}).
		Create(image).Error
	if err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}

	return nil
}

// Find returns the image of userID.
func (r *Images) Find(ctx context.Context, userID uint64) (*models.UserImage, error) {
	var image models.UserImage

	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&image).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrImageNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query image: %w", err)
	}

	return &image, nil
}

// Delete removes the image of userID. Deleting a missing image is not an error.
func (r *Images) Delete(ctx context.Context, userID uint64) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.UserImage{}).Error; err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}

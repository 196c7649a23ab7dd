package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/idsync/internal/db/models"
)

// ErrRoleNameEmpty is returned when creating a role without a name.
var ErrRoleNameEmpty = errors.New("role name cannot be empty")

// Roles persists roles.
type Roles struct {
	db *gorm.DB
}

// NewRoles creates a role repository.
func NewRoles(db *gorm.DB) *Roles {
	return &Roles{db: db}
}

// FindByName returns the role whose name equals name ignoring case, or nil if
// there is none. The comparison is exact; LIKE wildcards in name have no effect.
func (r *Roles) FindByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role

	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		Order("id").
		First(&role).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil //nolint:nilnil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query role %q: %w", name, err)
	}

	return &role, nil
}

// Create adds a role.
func (r *Roles) Create(ctx context.Context, role *models.Role) error {
	if role.Name == "" {
		return ErrRoleNameEmpty
	}

	if err := r.db.WithContext(ctx).Create(role).Error; err != nil {
		return fmt.Errorf("failed to create role %q: %w", role.Name, err)
	}

	return nil
}

// List returns all roles ordered by name.
func (r *Roles) List(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role

	if err := r.db.WithContext(ctx).Order("name").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	return roles, nil
}

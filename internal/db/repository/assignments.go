package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoPowerDNS-Admin/idsync/internal/db/models"
)

// Assignments persists role assignments.
type Assignments struct {
	db *gorm.DB
}

// NewAssignments creates a role assignment repository.
func NewAssignments(db *gorm.DB) *Assignments {
	return &Assignments{db: db}
}

// ListAutomatic returns the IDs of the roles userID holds automatically.
func (r *Assignments) ListAutomatic(ctx context.Context, userID uint64) ([]uint, error) {
	return r.listRoleIDs(ctx, userID, true)
}

// ListManual returns the IDs of the roles userID holds outside of the role mapping.
func (r *Assignments) ListManual(ctx context.Context, userID uint64) ([]uint, error) {
	return r.listRoleIDs(ctx, userID, false)
}

func (r *Assignments) listRoleIDs(ctx context.Context, userID uint64, automatic bool) ([]uint, error) {
	var ids []uint

	err := r.db.WithContext(ctx).
		Model(&models.RoleAssignment{}).
		Where("user_id = ? AND automatic = ?", userID, automatic).
		Order("role_id").
		Pluck("role_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	return ids, nil
}

// UpsertAutomatic inserts an automatic assignment for every role in roleIDs
// the user does not hold yet. Existing assignments, automatic or not, are
// left unchanged.
func (r *Assignments) UpsertAutomatic(ctx context.Context, userID uint64, roleIDs []uint) error {
	if len(roleIDs) == 0 {
		return nil
	}

	rows := make([]models.RoleAssignment, len(roleIDs))
	for i, id := range roleIDs {
		rows[i] = models.RoleAssignment{UserID: userID, RoleID: id, Automatic: true}
	}

	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to upsert automatic roles: %w", err)
	}

	return nil
}

// DetachAutomatic removes the automatic assignments of roleIDs.
// Assignments that are not automatic are kept.
func (r *Assignments) DetachAutomatic(ctx context.Context, userID uint64, roleIDs []uint) error {
	if len(roleIDs) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND automatic = ? AND role_id IN ?", userID, true, roleIDs).
		Delete(&models.RoleAssignment{}).Error
	if err != nil {
		return fmt.Errorf("failed to detach automatic roles: %w", err)
	}

	return nil
}

// Assign grants roleID to userID outside of the role mapping.
// An existing assignment of the role is replaced by a manual one.
func (r *Assignments) Assign(ctx context.Context, userID uint64, roleID uint) error {
	row := models.RoleAssignment{UserID: userID, RoleID: roleID, Automatic: false}

	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "role_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"automatic"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}

	return nil
}

// List returns every assignment of userID with its role loaded.
func (r *Assignments) List(ctx context.Context, userID uint64) ([]models.RoleAssignment, error) {
	var rows []models.RoleAssignment

	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("user_id = ?", userID).
		Order("role_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list role assignments: %w", err)
	}

	return rows, nil
}

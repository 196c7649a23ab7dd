package rolemapping

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/GoPowerDNS-Admin/idsync/internal/attribute"
	"github.com/GoPowerDNS-Admin/idsync/internal/db/models"
)

// RoleRepository looks up roles by name.
type RoleRepository interface {
	// FindByName returns the role whose name equals name ignoring case,
	// or nil without error if there is none.
	FindByName(ctx context.Context, name string) (*models.Role, error)
}

// AssignmentRepository reads and writes the automatic role assignments of a user.
type AssignmentRepository interface {
	// ListAutomatic returns the role IDs the user holds automatically.
	ListAutomatic(ctx context.Context, userID uint64) ([]uint, error)
	// ListManual returns the role IDs the user holds by other means.
	ListManual(ctx context.Context, userID uint64) ([]uint, error)
	// UpsertAutomatic ensures the user holds every role in roleIDs.
	// Existing assignments of those roles are left as they are.
	UpsertAutomatic(ctx context.Context, userID uint64, roleIDs []uint) error
	// DetachAutomatic removes the automatic assignments of roleIDs.
	DetachAutomatic(ctx context.Context, userID uint64, roleIDs []uint) error
}

// Result describes what a reconciliation changed.
type Result struct {
	// Target holds the role IDs the user should hold automatically.
	// Matched roles the user already holds manually are not part of it.
	Target []uint
	// Manual holds matched role IDs the user already holds manually.
	Manual []uint
	// Attached holds target IDs that were not automatic before.
	Attached []uint
	// Detached holds the IDs whose automatic assignment was removed.
	Detached []uint
	// Unresolved holds matched names without a corresponding role.
	Unresolved []string
}

// Mapper computes role names from attributes and reconciles automatic assignments.
type Mapper struct {
	roles       RoleRepository
	assignments AssignmentRepository
	log         zerolog.Logger
}

// NewMapper creates a Mapper.
func NewMapper(roles RoleRepository, assignments AssignmentRepository, log zerolog.Logger) *Mapper {
	return &Mapper{
		roles:       roles,
		assignments: assignments,
		log:         log,
	}
}

// ComputeRoles returns the names of all enabled entries matching store, in
// configuration order. Entries whose rules carry invalid patterns are logged.
func (m *Mapper) ComputeRoles(store *attribute.Store, entries []Entry) []string {
	matched := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.Disabled {
			continue
		}

		ok, err := entry.Evaluate(store)
		if err != nil {
			m.log.Error().Err(err).Str("role", entry.Name).Msg("role mapping entry has invalid rules")
		}

		if ok {
			matched = append(matched, entry.Name)
		}
	}

	m.log.Info().Strs("roles", matched).Msg("roles matched from external attributes")

	return matched
}

// Reconcile makes the automatic role assignments of userID equal to the roles
// named in names. Names without a role are dropped. Assignments that are not
// automatic are never changed.
func (m *Mapper) Reconcile(ctx context.Context, userID uint64, names []string) (Result, error) {
	var result Result

	for _, name := range names {
		role, err := m.roles.FindByName(ctx, name)
		if err != nil {
			return Result{}, fmt.Errorf("failed to look up role %q: %w", name, err)
		}

		if role == nil {
			result.Unresolved = append(result.Unresolved, name)
			continue
		}

		if !slices.Contains(result.Target, role.ID) {
			result.Target = append(result.Target, role.ID)
		}
	}

	if len(result.Unresolved) > 0 {
		m.log.Warn().Uint64("user_id", userID).Strs("roles", result.Unresolved).
			Msg("matched roles do not exist and are ignored")
	}

	manual, err := m.assignments.ListManual(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list manual roles: %w", err)
	}

	result.Manual = intersection(result.Target, manual)
	result.Target = difference(result.Target, manual)

	current, err := m.assignments.ListAutomatic(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list automatic roles: %w", err)
	}

	result.Attached = difference(result.Target, current)
	result.Detached = difference(current, result.Target)

	if len(result.Target) > 0 {
		if err = m.assignments.UpsertAutomatic(ctx, userID, result.Target); err != nil {
			return Result{}, fmt.Errorf("failed to attach automatic roles: %w", err)
		}
	}

	if len(result.Detached) > 0 {
		if err = m.assignments.DetachAutomatic(ctx, userID, result.Detached); err != nil {
			return Result{}, fmt.Errorf("failed to detach automatic roles: %w", err)
		}
	}

	if len(result.Attached) > 0 || len(result.Detached) > 0 {
		m.log.Info().Uint64("user_id", userID).
			Uints("attached", result.Attached).
			Uints("detached", result.Detached).
			Msg("synced automatic roles")
	}

	return result, nil
}

// intersection returns the elements of a also in b, keeping the order of a.
func intersection(a, b []uint) []uint {
	var out []uint

	for _, id := range a {
		if slices.Contains(b, id) {
			out = append(out, id)
		}
	}

	return out
}

// difference returns the elements of a missing from b, keeping the order of a.
func difference(a, b []uint) []uint {
	var out []uint

	for _, id := range a {
		if !slices.Contains(b, id) {
			out = append(out, id)
		}
	}

	return out
}

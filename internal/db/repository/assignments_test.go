package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/idsync/internal/db/models"
)

func TestAutomaticAssignments(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	roles := seedRoles(t, db, "admin", "student", "staff")

	user := models.User{Authenticator: "ldap", ExternalID: "jdoe"}
	require.NoError(t, db.Create(&user).Error)

	assignments := NewAssignments(db)

	// admin is granted manually
	require.NoError(t, assignments.Assign(ctx, user.ID, roles[0].ID))

	require.NoError(t, assignments.UpsertAutomatic(ctx, user.ID, []uint{roles[0].ID, roles[1].ID, roles[2].ID}))

	ids, err := assignments.ListAutomatic(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{roles[1].ID, roles[2].ID}, ids, "manual admin stays manual")

	// upserting again changes nothing
	require.NoError(t, assignments.UpsertAutomatic(ctx, user.ID, []uint{roles[1].ID}))

	ids, err = assignments.ListAutomatic(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{roles[1].ID, roles[2].ID}, ids)

	// detaching never removes the manual row
	require.NoError(t, assignments.DetachAutomatic(ctx, user.ID, []uint{roles[0].ID, roles[2].ID}))

	rows, err := assignments.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "admin", rows[0].Role.Name)
	assert.False(t, rows[0].Automatic)
	assert.Equal(t, "student", rows[1].Role.Name)
	assert.True(t, rows[1].Automatic)
}

func TestAssignmentsEmptyInput(t *testing.T) {
	ctx := context.Background()
	assignments := NewAssignments(setupTestDB(t))

	require.NoError(t, assignments.UpsertAutomatic(ctx, 1, nil))
	require.NoError(t, assignments.DetachAutomatic(ctx, 1, nil))

	ids, err := assignments.ListAutomatic(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestAssignTurnsAutomaticIntoManual(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	roles := seedRoles(t, db, "admin")

	user := models.User{Authenticator: "ldap", ExternalID: "jdoe"}
	require.NoError(t, db.Create(&user).Error)

	assignments := NewAssignments(db)
	require.NoError(t, assignments.UpsertAutomatic(ctx, user.ID, []uint{roles[0].ID}))
	require.NoError(t, assignments.Assign(ctx, user.ID, roles[0].ID))

	ids, err := assignments.ListAutomatic(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

package rolemapping

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/idsync/internal/attribute"
	"github.com/GoPowerDNS-Admin/idsync/internal/db/models"
)

var errLookup = errors.New("lookup failed")

// memoryRoles is an in-memory RoleRepository.
type memoryRoles struct {
	roles []models.Role
	err   error
}

func (r *memoryRoles) FindByName(_ context.Context, name string) (*models.Role, error) {
	if r.err != nil {
		return nil, r.err
	}

	for i := range r.roles {
		if strings.EqualFold(r.roles[i].Name, name) {
			return &r.roles[i], nil
		}
	}

	return nil, nil //nolint:nilnil
}

// memoryAssignments is an in-memory AssignmentRepository keyed by role ID for one user.
type memoryAssignments struct {
	rows map[uint]bool // role ID -> automatic
}

func (a *memoryAssignments) ListAutomatic(_ context.Context, _ uint64) ([]uint, error) {
	return a.list(true), nil
}

func (a *memoryAssignments) ListManual(_ context.Context, _ uint64) ([]uint, error) {
	return a.list(false), nil
}

func (a *memoryAssignments) list(automatic bool) []uint {
	var ids []uint

	for id, auto := range a.rows {
		if auto == automatic {
			ids = append(ids, id)
		}
	}

	slices.Sort(ids)

	return ids
}

func (a *memoryAssignments) UpsertAutomatic(_ context.Context, _ uint64, roleIDs []uint) error {
	for _, id := range roleIDs {
		if _, ok := a.rows[id]; !ok {
			a.rows[id] = true
		}
	}

	return nil
}

func (a *memoryAssignments) DetachAutomatic(_ context.Context, _ uint64, roleIDs []uint) error {
	for _, id := range roleIDs {
		if a.rows[id] {
			delete(a.rows, id)
		}
	}

	return nil
}

func testRoles() *memoryRoles {
	return &memoryRoles{roles: []models.Role{
		{ID: 1, Name: "admin"},
		{ID: 2, Name: "Student"},
		{ID: 3, Name: "staff"},
	}}
}

func TestComputeRoles(t *testing.T) {
	var buf bytes.Buffer

	m := NewMapper(testRoles(), &memoryAssignments{}, zerolog.New(&buf))

	store := attribute.New()
	store.Add("groups", "admins", "students")

	entries := []Entry{
		{Name: "admin", Rules: []Rule{{Attribute: "groups", Regex: "^admins$"}}},
		{Name: "disabled", Disabled: true, All: true},
		{Name: "student", Rules: []Rule{{Attribute: "groups", Regex: "^students$"}}},
		{Name: "staff", Rules: []Rule{{Attribute: "groups", Regex: "^staff$"}}},
		{Name: "everyone", All: true},
	}

	matched := m.ComputeRoles(store, entries)
	assert.Equal(t, []string{"admin", "student", "everyone"}, matched)
	assert.Contains(t, buf.String(), "roles matched from external attributes")
	assert.NotContains(t, buf.String(), "disabled")
}

func TestComputeRolesLogsEmptyResult(t *testing.T) {
	var buf bytes.Buffer

	m := NewMapper(testRoles(), &memoryAssignments{}, zerolog.New(&buf))

	matched := m.ComputeRoles(attribute.New(), nil)
	assert.Empty(t, matched)
	assert.Contains(t, buf.String(), `"roles":[]`)
}

func TestComputeRolesInvalidPattern(t *testing.T) {
	var buf bytes.Buffer

	m := NewMapper(testRoles(), &memoryAssignments{}, zerolog.New(&buf))

	store := attribute.New()
	store.Add("groups", "admins")

	matched := m.ComputeRoles(store, []Entry{
		{Name: "admin", Rules: []Rule{
			{Attribute: "groups", Regex: "(broken"},
			{Attribute: "groups", Regex: "^admins$"},
		}},
	})

	assert.Equal(t, []string{"admin"}, matched)
	assert.Contains(t, buf.String(), "role mapping entry has invalid rules")
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()
	assignments := &memoryAssignments{rows: map[uint]bool{
		1: false, // manual admin
		3: true,  // automatic staff, no longer matched
	}}

	m := NewMapper(testRoles(), assignments, zerolog.Nop())

	result, err := m.Reconcile(ctx, 42, []string{"ADMIN", "student", "Student", "ghost"})
	require.NoError(t, err)

	assert.Equal(t, []uint{2}, result.Target)
	assert.Equal(t, []uint{1}, result.Manual)
	assert.Equal(t, []uint{2}, result.Attached)
	assert.Equal(t, []uint{3}, result.Detached)
	assert.Equal(t, []string{"ghost"}, result.Unresolved)

	// manual admin untouched, student automatic, staff gone
	assert.Equal(t, map[uint]bool{1: false, 2: true}, assignments.rows)
}

func TestReconcileIdempotent(t *testing.T) {
	ctx := context.Background()
	assignments := &memoryAssignments{rows: map[uint]bool{}}
	m := NewMapper(testRoles(), assignments, zerolog.Nop())

	_, err := m.Reconcile(ctx, 1, []string{"admin", "staff"})
	require.NoError(t, err)

	before := map[uint]bool{}
	for k, v := range assignments.rows {
		before[k] = v
	}

	result, err := m.Reconcile(ctx, 1, []string{"admin", "staff"})
	require.NoError(t, err)
	assert.Empty(t, result.Attached)
	assert.Empty(t, result.Detached)
	assert.Equal(t, before, assignments.rows)
}

func TestReconcileManualRoleIsNeverAttached(t *testing.T) {
	ctx := context.Background()
	assignments := &memoryAssignments{rows: map[uint]bool{1: false}}
	m := NewMapper(testRoles(), assignments, zerolog.Nop())

	for range 2 {
		result, err := m.Reconcile(ctx, 1, []string{"admin"})
		require.NoError(t, err)
		assert.Empty(t, result.Target)
		assert.Empty(t, result.Attached)
		assert.Empty(t, result.Detached)
		assert.Equal(t, []uint{1}, result.Manual)
	}

	assert.Equal(t, map[uint]bool{1: false}, assignments.rows)
}

func TestReconcileEmptyTargetKeepsManual(t *testing.T) {
	ctx := context.Background()
	assignments := &memoryAssignments{rows: map[uint]bool{1: false, 2: true, 3: true}}
	m := NewMapper(testRoles(), assignments, zerolog.Nop())

	result, err := m.Reconcile(ctx, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3}, result.Detached)
	assert.Equal(t, map[uint]bool{1: false}, assignments.rows)
}

func TestReconcileLookupError(t *testing.T) {
	assignments := &memoryAssignments{rows: map[uint]bool{2: true}}
	m := NewMapper(&memoryRoles{err: errLookup}, assignments, zerolog.Nop())

	_, err := m.Reconcile(context.Background(), 1, []string{"admin"})
	require.ErrorIs(t, err, errLookup)

	// nothing detached on a failed lookup
	assert.Equal(t, map[uint]bool{2: true}, assignments.rows)
}

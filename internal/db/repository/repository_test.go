package repository

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/GoPowerDNS-Admin/idsync/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	// Migrate the schema
	err = db.AutoMigrate(&models.User{}, &models.Role{}, &models.RoleAssignment{}, &models.UserImage{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedRoles inserts test roles into the database.
func seedRoles(t *testing.T, db *gorm.DB, names ...string) []models.Role {
	t.Helper()

	roles := make([]models.Role, len(names))
	for i, name := range names {
		roles[i] = models.Role{Name: name}
		require.NoError(t, db.Create(&roles[i]).Error, "failed to seed role")
	}

	return roles
}

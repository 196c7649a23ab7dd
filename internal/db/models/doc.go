// Package models contains the gorm model definitions for users, roles and
// their assignments.
package models

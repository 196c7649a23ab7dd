// Package repository implements the persistence operations of the identity
// synchronization on top of gorm.
package repository
